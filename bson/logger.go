// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

// Logger is the diagnostic hook Marshal reports to when a MarshalOptions
// with a non-nil Logger is supplied. It never influences the produced
// bytes; it exists purely so a caller can trace Marshal calls the same
// way the driver's core/event.CommandMonitor traces command execution.
// A *logrus.Logger satisfies this interface, as does any adapter with a
// compatible Debugf method.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// MarshalOptions holds optional, non-wire-affecting configuration for
// Marshal. The zero value is valid and disables all diagnostics.
type MarshalOptions struct {
	Logger Logger
}

// NewMarshalOptions returns an empty *MarshalOptions ready for the
// SetLogger builder method, following the same options-builder shape as
// the driver's bsonoptions package.
func NewMarshalOptions() *MarshalOptions {
	return &MarshalOptions{}
}

// SetLogger sets the diagnostic logger and returns the receiver for
// chaining.
func (o *MarshalOptions) SetLogger(l Logger) *MarshalOptions {
	o.Logger = l
	return o
}

func (o *MarshalOptions) logger() Logger {
	if o == nil {
		return nil
	}
	return o.Logger
}
