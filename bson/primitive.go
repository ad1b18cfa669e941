// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"sort"
	"time"

	"github.com/ikmak/gobson/bson/objectid"
)

// ObjectID is re-exported from the objectid package so callers building
// documents don't need a second import for the common case.
type ObjectID = objectid.ObjectID

// DateTime represents the BSON UTCDateTime type: signed milliseconds
// since the Unix epoch.
type DateTime int64

// NewDateTimeFromTime truncates t to millisecond resolution and returns
// it as a DateTime.
func NewDateTimeFromTime(t time.Time) DateTime {
	return DateTime(t.Unix()*1000 + int64(t.Nanosecond())/1_000_000)
}

// Time returns the UTC time.Time this DateTime represents.
func (dt DateTime) Time() time.Time {
	return time.UnixMilli(int64(dt)).UTC()
}

// Symbol is a BSON Symbol (tag 0x0E): a deprecated string-like type this
// codec preserves on decode rather than unifying with String. Encoding a
// Symbol value writes tag 0x0E.
type Symbol string

// JavaScript is a BSON JavaScript-without-scope value (tag 0x0D).
type JavaScript string

// MinKey is the BSON MinKey sentinel (tag 0xFF). It carries no payload;
// any value of this type decodes/encodes identically.
type MinKey struct{}

// MaxKey is the BSON MaxKey sentinel (tag 0x7F).
type MaxKey struct{}

// Undefined represents the deprecated BSON Undefined type (tag 0x06).
// Marshal never emits it (spec §3.2: write-side is unsupported);
// Unmarshal never produces it either, decoding tag 0x06 as Null per
// spec §4.4. The type exists only so a caller inspecting a Value's
// static type has a name to test against if they construct one by hand;
// doing so is not meaningful to this codec.
type Undefined struct{}

// Binary holds a BSON Binary value: a subtype byte and raw payload.
// Subtype 0x02 is the deprecated legacy binary encoding with an extra
// inner length prefix (spec §4.3.1); Marshal and Unmarshal handle that
// framing transparently, so Data here is always just the raw payload.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Well-known binary subtypes. The subtype is a plain byte (spec §3.2:
// "subtype byte ∈ [0,255]"), so these are documentation, not a closed
// enum.
const (
	BinaryGeneric     byte = 0x00
	BinaryFunction    byte = 0x01
	BinaryOldBinary   byte = 0x02
	BinaryOldUUID     byte = 0x03
	BinaryUUID        byte = 0x04
	BinaryMD5         byte = 0x05
	BinaryEncrypted   byte = 0x06
	BinaryUserDefined byte = 0x80
)

// IsZero reports whether b is the zero Binary value.
func (b Binary) IsZero() bool {
	return b.Subtype == 0 && len(b.Data) == 0
}

// Equal reports whether b and b2 have the same subtype and payload.
func (b Binary) Equal(b2 Binary) bool {
	if b.Subtype != b2.Subtype {
		return false
	}
	if len(b.Data) != len(b2.Data) {
		return false
	}
	for i := range b.Data {
		if b.Data[i] != b2.Data[i] {
			return false
		}
	}
	return true
}

// Regex holds a BSON Regex value: a pattern and a flag string. Options
// may contain the known letters i/m/x plus any other letters the source
// regex engine attached; Marshal sorts the full Options string into
// ascending byte order before writing it, per spec §3.3.
type Regex struct {
	Pattern string
	Options string
}

// IsZero reports whether r is the zero Regex value.
func (r Regex) IsZero() bool {
	return r.Pattern == "" && r.Options == ""
}

// Equal reports whether r and r2 have the same pattern and options.
func (r Regex) Equal(r2 Regex) bool {
	return r.Pattern == r2.Pattern && r.Options == r2.Options
}

// sortedOptions returns r.Options with its bytes sorted into ascending
// order, matching the wire requirement that regex flags be emitted in
// non-decreasing byte order.
func (r Regex) sortedOptions() string {
	b := []byte(r.Options)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

// DBPointer is the deprecated BSON DBPointer value (tag 0x0C): a
// namespace string and a 12-byte ObjectID. Unmarshal decodes it as a
// DBRef per spec §4.4; Marshal has no code path that emits tag 0x0C
// directly (DBRef is what gets encoded instead, as a plain embedded
// document with $ref/$id fields).
type DBPointer struct {
	DB      string
	Pointer ObjectID
}

// IsZero reports whether p is the zero DBPointer value.
func (p DBPointer) IsZero() bool {
	return p.DB == "" && p.Pointer.IsZero()
}

// DBRef is the two-field { $ref, $id } reference document, surfaced as
// its own Value variant on decode (spec's GLOSSARY) rather than as a
// plain embedded Document, and detected by Unmarshal when an embedded
// document's first key is literally "$ref" with a string value and its
// second key is literally "$id" (spec §4.4, §9).
type DBRef struct {
	Collection string
	ID         interface{}
}

// CodeWithScope pairs a JavaScript source string with a variable-binding
// document (tag 0x0F).
type CodeWithScope struct {
	Code  string
	Scope *Document
}

// Timestamp is the internal MongoDB replication timestamp type (tag
// 0x11): two unsigned 32-bit words, not to be confused with UTCDateTime.
type Timestamp struct {
	T uint32
	I uint32
}

// IsZero reports whether t is the zero Timestamp value.
func (t Timestamp) IsZero() bool {
	return t.T == 0 && t.I == 0
}

// CompareTimestamp compares two Timestamp values, first by T and then by
// I, returning -1, 0, or 1.
func CompareTimestamp(t1, t2 Timestamp) int {
	switch {
	case t1.T > t2.T:
		return 1
	case t1.T < t2.T:
		return -1
	case t1.I > t2.I:
		return 1
	case t1.I < t2.I:
		return -1
	default:
		return 0
	}
}
