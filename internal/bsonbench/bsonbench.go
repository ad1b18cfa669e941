// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bsonbench runs a small number of repeated Marshal/Unmarshal
// trials and summarizes their wall-clock distribution, the way
// internal/benchmark's BenchResult summarizes driver throughput numbers.
package bsonbench

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/ikmak/gobson/bson"
)

// Result holds one trial's outcome.
type Result struct {
	Duration time.Duration
	Error    error
}

// Summary is the percentile breakdown of a run's trial durations plus
// throughput, reported the way internal/benchmark.BenchResult does.
type Summary struct {
	Name       string
	Trials     int
	Bytes      int
	Duration   time.Duration
	P50        time.Duration
	P90        time.Duration
	P99        time.Duration
	errorCount int
}

func (s *Summary) String() string {
	return fmt.Sprintf("%s: trials=%d total=%s p50=%s p90=%s p99=%s errors=%d",
		s.Name, s.Trials, s.Duration, s.P50, s.P90, s.P99, s.errorCount)
}

// MarshalTrials runs Marshal on doc n times and summarizes the timings.
// opts may be nil; when set, it is passed through to every trial so a
// caller's Logger sees one debug line per trial.
func MarshalTrials(name string, doc *bson.Document, n int, opts *bson.MarshalOptions) (*Summary, error) {
	raw := make([]Result, n)
	start := time.Now()
	var size int
	for i := 0; i < n; i++ {
		t0 := time.Now()
		out, err := bson.MarshalWithOptions(doc, false, false, opts)
		raw[i] = Result{Duration: time.Since(t0), Error: err}
		if err == nil {
			size = len(out)
		}
	}
	return summarize(name, raw, time.Since(start), size*n)
}

// UnmarshalTrials runs Unmarshal on b n times and summarizes the timings.
func UnmarshalTrials(name string, b []byte, n int) (*Summary, error) {
	raw := make([]Result, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		t0 := time.Now()
		_, err := bson.Unmarshal(b)
		raw[i] = Result{Duration: time.Since(t0), Error: err}
	}
	return summarize(name, raw, time.Since(start), len(b)*n)
}

func summarize(name string, raw []Result, total time.Duration, totalBytes int) (*Summary, error) {
	timings := make([]float64, len(raw))
	errorCount := 0
	for i, r := range raw {
		timings[i] = float64(r.Duration.Nanoseconds())
		if r.Error != nil {
			errorCount++
		}
	}

	p50, err := stats.Percentile(timings, 50)
	if err != nil {
		return nil, err
	}
	p90, err := stats.Percentile(timings, 90)
	if err != nil {
		return nil, err
	}
	p99, err := stats.Percentile(timings, 99)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Name:       name,
		Trials:     len(raw),
		Bytes:      totalBytes,
		Duration:   total,
		P50:        time.Duration(p50),
		P90:        time.Duration(p90),
		P99:        time.Duration(p99),
		errorCount: errorCount,
	}, nil
}
