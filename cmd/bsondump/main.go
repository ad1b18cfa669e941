// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Command bsondump reads a stream of length-framed BSON documents and
// writes a human-readable dump of each one, the way the driver's own
// cmd/jsontobson turns a stream of extended-JSON lines into BSON bytes,
// run in reverse. With -compress it snappy-compresses the dump instead of
// writing plain text; with -bench it runs a small Marshal/Unmarshal
// timing summary over the first document in the stream instead of
// dumping anything.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ikmak/gobson/bson"
	"github.com/ikmak/gobson/internal/bsonbench"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("bsondump", flag.ContinueOnError)
	inFile := fs.String("in", "-", "input file, \"-\" for stdin")
	outFile := fs.String("out", "-", "output file, \"-\" for stdout")
	compress := fs.Bool("compress", false, "snappy-compress the dumped output")
	bench := fs.Int("bench", 0, "instead of dumping, run N Marshal/Unmarshal trials on the first document")
	verbose := fs.Bool("v", false, "log each document's size and key count at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runID := uuid.New()
	log := newLogger(*verbose, runID)

	in, closeIn, err := openInput(*inFile, stdin)
	if err != nil {
		return errors.Wrap(err, "bsondump: opening input")
	}
	defer closeIn()

	outFileHandle, closeOut, err := openOutput(*outFile, stdout)
	if err != nil {
		return errors.Wrap(err, "bsondump: opening output")
	}
	defer closeOut()

	var buf bytes.Buffer
	if *bench > 0 {
		err = runBench(in, &buf, *bench, log)
	} else {
		err = runDump(in, &buf, log)
	}
	if err != nil {
		return err
	}

	return writeResult(outFileHandle, buf.Bytes(), *compress)
}

func runDump(in io.Reader, out io.Writer, log *logrus.Entry) error {
	r := bufio.NewReader(in)
	count := 0
	for {
		doc, err := readOneDocument(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "bsondump: reading document %d", count)
		}

		parsed, err := bson.Unmarshal(doc)
		if err != nil {
			return errors.Wrapf(err, "bsondump: decoding document %d", count)
		}

		log.Debugf("document %d: %d byte(s), %d element(s)", count, len(doc), parsed.Len())
		if _, err := fmt.Fprintln(out, formatDocument(parsed)); err != nil {
			return errors.Wrap(err, "bsondump: writing output")
		}
		count++
	}
	log.Debugf("dumped %d document(s)", count)
	return nil
}

func runBench(in io.Reader, out io.Writer, n int, log *logrus.Entry) error {
	r := bufio.NewReader(in)
	raw, err := readOneDocument(r)
	if err != nil {
		return errors.Wrap(err, "bsondump: reading the document to benchmark")
	}
	doc, err := bson.Unmarshal(raw)
	if err != nil {
		return errors.Wrap(err, "bsondump: decoding the document to benchmark")
	}

	log.Debugf("benchmarking with a %d byte(s) document over %d trial(s)", len(raw), n)

	opts := bson.NewMarshalOptions().SetLogger(log)
	marshalSummary, err := bsonbench.MarshalTrials("marshal", doc, n, opts)
	if err != nil {
		return errors.Wrap(err, "bsondump: marshal benchmark")
	}
	unmarshalSummary, err := bsonbench.UnmarshalTrials("unmarshal", raw, n)
	if err != nil {
		return errors.Wrap(err, "bsondump: unmarshal benchmark")
	}

	fmt.Fprintln(out, marshalSummary)
	fmt.Fprintln(out, unmarshalSummary)
	return nil
}

// writeResult writes data to out, snappy-compressing it first with the
// same block-oriented snappy.Encode the driver's own wire-compression
// code uses, when compress is set.
func writeResult(out io.Writer, data []byte, compress bool) error {
	if compress {
		data = snappy.Encode(nil, data)
	}
	_, err := out.Write(data)
	return errors.Wrap(err, "bsondump: writing output")
}

// readOneDocument reads the 4-byte length prefix of the next BSON
// document in r and then exactly that many bytes in total. A clean
// end of stream (zero bytes available before the header) reports
// io.EOF; a stream that ends partway through a header or a document's
// body is a decode error, not a normal end of stream.
func readOneDocument(r *bufio.Reader) ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "truncated document length prefix")
	}

	length := int(head[0]) | int(head[1])<<8 | int(head[2])<<16 | int(head[3])<<24
	if length < 5 {
		return nil, errors.Errorf("implausible document length %d", length)
	}

	buf := make([]byte, length)
	copy(buf, head[:])
	if _, err := io.ReadFull(r, buf[4:]); err != nil {
		return nil, errors.Wrap(err, "truncated document body")
	}
	return buf, nil
}

func formatDocument(doc *bson.Document) string {
	var b []byte
	b = append(b, '{')
	for i, e := range doc.Elements() {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, fmt.Sprintf("%q: %v", e.Key, e.Value)...)
	}
	b = append(b, '}')
	return string(b)
}

func openInput(name string, stdin io.Reader) (io.Reader, func(), error) {
	if name == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(name string, stdout io.Writer) (io.Writer, func(), error) {
	if name == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func newLogger(verbose bool, runID uuid.UUID) *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l.WithField("run_id", runID.String())
}
