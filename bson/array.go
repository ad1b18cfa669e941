// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

// Array is an ordered sequence of Values (spec §3.2). On the wire it is
// written exactly like a Document whose keys are the decimal string
// indices "0", "1", ... in order; Unmarshal reads it the same way and
// discards the keys, preserving value order (spec §4.4).
type Array struct {
	values []interface{}
}

// NewArray creates an Array from the given values, in order.
func NewArray(values ...interface{}) *Array {
	a := &Array{values: make([]interface{}, 0, len(values))}
	a.values = append(a.values, values...)
	return a
}

// Len returns the number of values in the array.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values)
}

// Values returns the array's values in order. The returned slice aliases
// the Array's storage; callers must not mutate it.
func (a *Array) Values() []interface{} {
	if a == nil {
		return nil
	}
	return a.values
}

// Append adds values to the end of the array.
func (a *Array) Append(values ...interface{}) *Array {
	a.values = append(a.values, values...)
	return a
}

// Index returns the value at i.
func (a *Array) Index(i int) interface{} {
	return a.values[i]
}
