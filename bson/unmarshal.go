// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/ikmak/gobson/internal/bsonerr"
)

// Unmarshal deserializes exactly one top-level BSON document from b and
// returns it as a *Document, per spec §4.4.
func Unmarshal(b []byte) (*Document, error) {
	doc, n, err := unmarshalDocument(b, 0)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, &bsonerr.DecodeError{Offset: n, Reason: "trailing bytes after top-level document"}
	}
	return doc, nil
}

// unmarshalDocument reads one length-prefixed, NUL-terminated BSON
// document starting at pos, returning the parsed Document and the
// position immediately after it.
func unmarshalDocument(b []byte, pos int) (*Document, int, error) {
	length, err := readDocLength(b, pos)
	if err != nil {
		return nil, 0, err
	}
	end := pos + int(length)

	doc := NewDocument()
	cursor := pos + 4
	for cursor < end-1 {
		tag, key, next, err := readHeader(b, cursor)
		if err != nil {
			return nil, 0, err
		}
		cursor = next

		value, next, err := readValue(b, cursor, tag)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "key %q", key)
		}
		cursor = next
		doc.Append(E{Key: key, Value: value})
	}
	if cursor != end-1 || b[end-1] != 0x00 {
		return nil, 0, &bsonerr.DecodeError{Offset: cursor, Reason: "missing document terminator"}
	}
	return doc, end, nil
}

// unmarshalEmbeddedDocument is unmarshalDocument plus the DBRef
// detection rule of spec §4.4: if the first key in the decoded document
// is literally "$ref", its value is a string, and the second key is
// literally "$id", the two fields $ref/$id are reinterpreted as a DBRef
// instead of a plain document. Any fields after $id are not kept in the
// DBRef. Every other document stays a plain *Document.
func unmarshalEmbeddedDocument(b []byte, pos int) (interface{}, int, error) {
	doc, next, err := unmarshalDocument(b, pos)
	if err != nil {
		return nil, 0, err
	}
	elems := doc.Elements()
	if len(elems) >= 2 && elems[0].Key == "$ref" && elems[1].Key == "$id" {
		if collection, ok := elems[0].Value.(string); ok {
			return DBRef{Collection: collection, ID: elems[1].Value}, next, nil
		}
	}
	return doc, next, nil
}

// unmarshalArray reads a document whose keys are decimal indices and
// returns the values in order, discarding the keys (spec §4.4).
func unmarshalArray(b []byte, pos int) (*Array, int, error) {
	doc, next, err := unmarshalDocument(b, pos)
	if err != nil {
		return nil, 0, err
	}
	elems := doc.Elements()
	values := make([]interface{}, len(elems))
	for i, e := range elems {
		values[i] = e.Value
	}
	return &Array{values: values}, next, nil
}

func readDocLength(b []byte, pos int) (int32, error) {
	if pos+4 > len(b) {
		return 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for a document length prefix"}
	}
	length := int32(binary.LittleEndian.Uint32(b[pos : pos+4]))
	if length < 5 {
		return 0, &bsonerr.DecodeError{Offset: pos, Reason: "document length is too small to be valid"}
	}
	if pos+int(length) > len(b) {
		return 0, &bsonerr.DecodeError{Offset: pos, Reason: "document length overruns the input"}
	}
	return length, nil
}

// readHeader reads the 1-byte tag and the NUL-terminated key starting at
// pos, returning both and the position immediately after the key's NUL.
func readHeader(b []byte, pos int) (Type, string, int, error) {
	if pos >= len(b) {
		return 0, "", 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for an element tag"}
	}
	tag := Type(b[pos])
	key, next, err := readCString(b, pos+1)
	if err != nil {
		return 0, "", 0, err
	}
	return tag, key, next, nil
}

func readCString(b []byte, pos int) (string, int, error) {
	i := pos
	for i < len(b) && b[i] != 0x00 {
		i++
	}
	if i >= len(b) {
		return "", 0, &bsonerr.DecodeError{Offset: pos, Reason: "C-string is missing its NUL terminator"}
	}
	return string(b[pos:i]), i + 1, nil
}

// readValue dispatches on tag to decode one element's payload, mirroring
// spec §4.3.1's write-side table inverted (spec §4.4).
func readValue(b []byte, pos int, tag Type) (interface{}, int, error) {
	switch tag {
	case TypeDouble:
		v, next, err := readFloat64(b, pos)
		return v, next, err
	case TypeString:
		return readLengthPrefixedString(b, pos)
	case TypeEmbeddedDocument:
		return unmarshalEmbeddedDocument(b, pos)
	case TypeArray:
		v, next, err := unmarshalArray(b, pos)
		return v, next, err
	case TypeBinary:
		return readBinary(b, pos)
	case TypeUndefined:
		return nil, pos, nil
	case TypeObjectID:
		return readObjectID(b, pos)
	case TypeBoolean:
		return readBoolean(b, pos)
	case TypeDateTime:
		v, next, err := readInt64(b, pos)
		return DateTime(v), next, err
	case TypeNull:
		return nil, pos, nil
	case TypeRegex:
		return readRegex(b, pos)
	case TypeDBPointer:
		return readDBPointer(b, pos)
	case TypeJavaScript:
		s, next, err := readLengthPrefixedString(b, pos)
		if err != nil {
			return nil, 0, err
		}
		return JavaScript(s.(string)), next, nil
	case TypeSymbol:
		s, next, err := readLengthPrefixedString(b, pos)
		if err != nil {
			return nil, 0, err
		}
		return Symbol(s.(string)), next, nil
	case TypeCodeWithScope:
		return readCodeWithScope(b, pos)
	case TypeInt32:
		v, next, err := readInt32(b, pos)
		return v, next, err
	case TypeTimestamp:
		return readTimestamp(b, pos)
	case TypeInt64:
		v, next, err := readInt64(b, pos)
		return v, next, err
	case TypeMinKey:
		return MinKey{}, pos, nil
	case TypeMaxKey:
		return MaxKey{}, pos, nil
	default:
		return nil, 0, &bsonerr.DecodeError{Offset: pos, Reason: fmtUnknownTag(tag)}
	}
}

func fmtUnknownTag(tag Type) string {
	return "unknown BSON type tag 0x" + hexByte(byte(tag))
}

func hexByte(b byte) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0x0F]})
}

func readFloat64(b []byte, pos int) (float64, int, error) {
	if pos+8 > len(b) {
		return 0, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for a double"}
	}
	bits := binary.LittleEndian.Uint64(b[pos : pos+8])
	return math.Float64frombits(bits), pos + 8, nil
}

func readInt32(b []byte, pos int) (int32, int, error) {
	if pos+4 > len(b) {
		return 0, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for an int32"}
	}
	return int32(binary.LittleEndian.Uint32(b[pos : pos+4])), pos + 4, nil
}

func readUint32(b []byte, pos int) (uint32, int, error) {
	if pos+4 > len(b) {
		return 0, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for a uint32"}
	}
	return binary.LittleEndian.Uint32(b[pos : pos+4]), pos + 4, nil
}

func readInt64(b []byte, pos int) (int64, int, error) {
	if pos+8 > len(b) {
		return 0, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for an int64"}
	}
	return int64(binary.LittleEndian.Uint64(b[pos : pos+8])), pos + 8, nil
}

// readLengthPrefixedString reads a 4-byte length (payload+NUL), the
// payload, and the trailing NUL, returning the payload as a string.
func readLengthPrefixedString(b []byte, pos int) (interface{}, int, error) {
	length, next, err := readInt32(b, pos)
	if err != nil {
		return nil, 0, err
	}
	if length < 1 {
		return nil, 0, &bsonerr.DecodeError{Offset: pos, Reason: "string length must be at least 1"}
	}
	start := next
	end := start + int(length) - 1
	if end+1 > len(b) {
		return nil, 0, &bsonerr.DecodeError{Offset: pos, Reason: "string length overruns the input"}
	}
	if b[end] != 0x00 {
		return nil, 0, &bsonerr.DecodeError{Offset: end, Reason: "string is missing its NUL terminator"}
	}
	return string(b[start:end]), end + 1, nil
}

func readBoolean(b []byte, pos int) (bool, int, error) {
	if pos+1 > len(b) {
		return false, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for a bool"}
	}
	switch b[pos] {
	case 0x00:
		return false, pos + 1, nil
	case 0x01:
		return true, pos + 1, nil
	default:
		return false, 0, &bsonerr.DecodeError{Offset: pos, Reason: "invalid byte for a BSON boolean"}
	}
}

func readObjectID(b []byte, pos int) (ObjectID, int, error) {
	if pos+12 > len(b) {
		return ObjectID{}, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for an ObjectID"}
	}
	var oid ObjectID
	copy(oid[:], b[pos:pos+12])
	return oid, pos + 12, nil
}

func readBinary(b []byte, pos int) (Binary, int, error) {
	length, next, err := readInt32(b, pos)
	if err != nil {
		return Binary{}, 0, err
	}
	if next >= len(b) {
		return Binary{}, 0, &bsonerr.DecodeError{Offset: pos, Reason: "not enough bytes for a binary subtype"}
	}
	subtype := b[next]
	next++

	if subtype == BinaryOldBinary {
		innerLength, innerNext, err := readInt32(b, next)
		if err != nil {
			return Binary{}, 0, err
		}
		if int(innerLength) != int(length)-4 {
			return Binary{}, 0, &bsonerr.DecodeError{Offset: pos, Reason: "legacy binary inner length does not match outer length"}
		}
		data, end, err := readRawBytes(b, innerNext, int(innerLength))
		if err != nil {
			return Binary{}, 0, err
		}
		return Binary{Subtype: subtype, Data: data}, end, nil
	}

	data, end, err := readRawBytes(b, next, int(length))
	if err != nil {
		return Binary{}, 0, err
	}
	return Binary{Subtype: subtype, Data: data}, end, nil
}

func readRawBytes(b []byte, pos, n int) ([]byte, int, error) {
	if n < 0 || pos+n > len(b) {
		return nil, 0, &bsonerr.DecodeError{Offset: pos, Reason: "binary payload length overruns the input"}
	}
	out := make([]byte, n)
	copy(out, b[pos:pos+n])
	return out, pos + n, nil
}

func readRegex(b []byte, pos int) (Regex, int, error) {
	pattern, next, err := readCString(b, pos)
	if err != nil {
		return Regex{}, 0, err
	}
	options, next, err := readCString(b, next)
	if err != nil {
		return Regex{}, 0, err
	}
	return Regex{Pattern: pattern, Options: options}, next, nil
}

func readDBPointer(b []byte, pos int) (DBRef, int, error) {
	ns, next, err := readLengthPrefixedString(b, pos)
	if err != nil {
		return DBRef{}, 0, err
	}
	oid, next, err := readObjectID(b, next)
	if err != nil {
		return DBRef{}, 0, err
	}
	return DBRef{Collection: ns.(string), ID: oid}, next, nil
}

func readCodeWithScope(b []byte, pos int) (CodeWithScope, int, error) {
	totalLength, _, err := readInt32(b, pos)
	if err != nil {
		return CodeWithScope{}, 0, err
	}
	end := pos + int(totalLength)
	if end > len(b) {
		return CodeWithScope{}, 0, &bsonerr.DecodeError{Offset: pos, Reason: "code_w_scope length overruns the input"}
	}

	code, next, err := readLengthPrefixedString(b, pos+4)
	if err != nil {
		return CodeWithScope{}, 0, err
	}
	scope, next, err := unmarshalDocument(b, next)
	if err != nil {
		return CodeWithScope{}, 0, err
	}
	if next != end {
		return CodeWithScope{}, 0, &bsonerr.DecodeError{Offset: next, Reason: "code_w_scope length does not match its contents"}
	}
	return CodeWithScope{Code: code.(string), Scope: scope}, next, nil
}

func readTimestamp(b []byte, pos int) (Timestamp, int, error) {
	i, next, err := readUint32(b, pos)
	if err != nil {
		return Timestamp{}, 0, err
	}
	t, next, err := readUint32(b, next)
	if err != nil {
		return Timestamp{}, 0, err
	}
	return Timestamp{T: t, I: i}, next, nil
}

// unixMilliToTime is a small helper kept for callers that want a
// time.Time instead of a DateTime; Unmarshal itself always returns
// DateTime so that round-tripping a DateTime value is exact.
func unixMilliToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
