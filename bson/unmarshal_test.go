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

func TestUnmarshal_ArrayPreservesOrder(t *testing.T) {
	doc := NewDocument(E{Key: "arr", Value: NewArray(int32(10), "z", true)})
	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)

	v, ok := decoded.Lookup("arr")
	require.True(t, ok)
	arr, ok := v.(*Array)
	require.True(t, ok)
	require.Equal(t, []interface{}{int32(10), "z", true}, arr.Values())
}

func TestUnmarshal_EmptyDocument(t *testing.T) {
	decoded, err := Unmarshal([]byte{0x05, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, 0, decoded.Len())
}

func TestUnmarshal_RejectsMissingTerminator(t *testing.T) {
	_, err := Unmarshal([]byte{0x05, 0x00, 0x00, 0x00, 0x01})
	require.Error(t, err)
}

func TestUnmarshal_RejectsTruncatedInput(t *testing.T) {
	_, err := Unmarshal([]byte{0x20, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestUnmarshal_RejectsUnknownTag(t *testing.T) {
	doc := NewDocument(E{Key: "a", Value: int32(1)})
	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	// Tag byte for "a" is at offset 4.
	out[4] = 0xAB
	_, err = Unmarshal(out)
	require.Error(t, err)
}

func TestUnmarshal_RejectsTrailingBytes(t *testing.T) {
	doc := NewDocument(E{Key: "a", Value: int32(1)})
	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	_, err = Unmarshal(append(out, 0xFF))
	require.Error(t, err)
}

func TestUnmarshal_DBRefDetectionByFirstKey(t *testing.T) {
	id := ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	ref := NewDocument(E{Key: "$ref", Value: "users"}, E{Key: "$id", Value: id})
	doc := NewDocument(E{Key: "owner", Value: ref})

	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)

	v, ok := decoded.Lookup("owner")
	require.True(t, ok)
	asRef, ok := v.(DBRef)
	require.True(t, ok)
	require.Equal(t, "users", asRef.Collection)
	require.Equal(t, id, asRef.ID)
}

func TestUnmarshal_NonDBRefDocumentStaysPlain(t *testing.T) {
	inner := NewDocument(E{Key: "$id", Value: int32(1)}, E{Key: "$ref", Value: "oops"})
	doc := NewDocument(E{Key: "nested", Value: inner})

	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)

	v, ok := decoded.Lookup("nested")
	require.True(t, ok)
	nested, ok := v.(*Document)
	require.True(t, ok)
	idVal, _ := nested.Lookup("$id")
	require.Equal(t, int32(1), idVal)
}

func TestUnmarshal_LegacyBinarySubtype(t *testing.T) {
	doc := NewDocument(E{Key: "b", Value: Binary{Subtype: BinaryOldBinary, Data: []byte("payload")}})
	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)
	v, _ := decoded.Lookup("b")
	require.Equal(t, Binary{Subtype: BinaryOldBinary, Data: []byte("payload")}, v)
}

func TestUnmarshal_UndefinedDecodesAsNil(t *testing.T) {
	raw := []byte{
		0x08, 0x00, 0x00, 0x00,
		0x06, 'u', 0x00,
		0x00,
	}
	decoded, err := Unmarshal(raw)
	require.NoError(t, err)
	v, ok := decoded.Lookup("u")
	require.True(t, ok)
	require.Nil(t, v)
}

func TestUnmarshal_NestedDocumentRoundTrip(t *testing.T) {
	inner := NewDocument(E{Key: "n", Value: int32(5)})
	doc := NewDocument(E{Key: "outer", Value: inner})

	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)
	v, _ := decoded.Lookup("outer")
	require.Equal(t, int32(5), mustLookup(t, v.(*Document), "n"))
}

func TestUnmarshal_CodeWithScopeRoundTrip(t *testing.T) {
	scope := NewDocument(E{Key: "x", Value: int32(1)})
	doc := NewDocument(E{Key: "f", Value: CodeWithScope{Code: "function(){}", Scope: scope}})

	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)
	v, _ := decoded.Lookup("f")
	cws, ok := v.(CodeWithScope)
	require.True(t, ok)
	require.Equal(t, "function(){}", cws.Code)
	require.Equal(t, int32(1), mustLookup(t, cws.Scope, "x"))
}

func TestUnmarshal_TimestampRoundTrip(t *testing.T) {
	doc := NewDocument(E{Key: "ts", Value: Timestamp{T: 100, I: 7}})
	out, err := Marshal(doc, false, false)
	require.NoError(t, err)

	decoded, err := Unmarshal(out)
	require.NoError(t, err)
	v, _ := decoded.Lookup("ts")
	require.Equal(t, Timestamp{T: 100, I: 7}, v)
}

func mustLookup(t *testing.T, doc *Document, key string) interface{} {
	t.Helper()
	v, ok := doc.Lookup(key)
	require.True(t, ok)
	return v
}
