// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocument_LookupAndSet(t *testing.T) {
	d := NewDocument(E{Key: "a", Value: int32(1)})

	v, ok := d.Lookup("a")
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	_, ok = d.Lookup("missing")
	require.False(t, ok)

	d.Set(E{Key: "a", Value: int32(2)})
	v, _ = d.Lookup("a")
	require.Equal(t, int32(2), v)
	require.Equal(t, 1, d.Len())

	d.Set(E{Key: "b", Value: int32(3)})
	require.Equal(t, 2, d.Len())
}

func TestDocument_Delete(t *testing.T) {
	d := NewDocument(E{Key: "a", Value: int32(1)}, E{Key: "b", Value: int32(2)})

	v, ok := d.Delete("a")
	require.True(t, ok)
	require.Equal(t, int32(1), v)
	require.Equal(t, 1, d.Len())

	_, ok = d.Delete("a")
	require.False(t, ok)
}

func TestDocument_CountKeyAllowsDuplicates(t *testing.T) {
	d := NewDocument(E{Key: "_id", Value: int32(1)}, E{Key: "_id", Value: int32(2)})
	require.Equal(t, 2, d.countKey("_id"))
}

func TestDocument_KeysPreservesOrder(t *testing.T) {
	d := NewDocument(E{Key: "z", Value: 1}, E{Key: "a", Value: 2})
	require.Equal(t, []string{"z", "a"}, d.Keys())
}

func TestArray_AppendAndIndex(t *testing.T) {
	a := NewArray(int32(1), int32(2))
	a.Append(int32(3))

	require.Equal(t, 3, a.Len())
	require.Equal(t, int32(3), a.Index(2))
}
