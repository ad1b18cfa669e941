// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ikmak/gobson/internal/bsonbuf"
	"github.com/ikmak/gobson/internal/bsonerr"
	"github.com/ikmak/gobson/internal/bsonutf8"
)

// MaxDocumentSize is the largest encoded size a top-level document may
// reach before Marshal fails with an InvalidDocumentError (spec §3.3).
const MaxDocumentSize = 4 * 1024 * 1024

const idKey = "_id"

// Marshal serializes doc to BSON bytes.
//
// checkKeys, when true, rejects any key in doc or its nested documents
// that begins with '$' or contains '.'.
//
// moveID, when true, writes doc's top-level "_id" field first regardless
// of its position in doc's iteration order, and suppresses any later
// occurrence of "_id" while writing the rest of the top level. moveID has
// no effect on nested documents, which are always traversed in their own
// order (spec §4.3).
func Marshal(doc *Document, checkKeys, moveID bool) ([]byte, error) {
	return MarshalWithOptions(doc, checkKeys, moveID, nil)
}

// MarshalWithOptions is Marshal with an optional diagnostic Logger
// attached via opts. opts may be nil.
func MarshalWithOptions(doc *Document, checkKeys, moveID bool, opts *MarshalOptions) ([]byte, error) {
	start := time.Now()

	buf := bsonbuf.NewBuffer(256)
	if err := marshalDocument(buf, doc, checkKeys, moveID, true); err != nil {
		buf.Release()
		return nil, err
	}
	out := buf.Bytes()
	buf.Release()

	if l := opts.logger(); l != nil {
		l.Debugf("bson.Marshal: %d element(s), %d byte(s), %s", doc.Len(), len(out), time.Since(start))
	}
	return out, nil
}

// marshalDocument writes one BSON document (the length prefix, every
// element, and the trailing NUL) into buf, per spec §4.3's five-step
// algorithm. top is true only for the outermost call; it gates the
// move_id rule and the 4 MiB size check.
func marshalDocument(buf *bsonbuf.Buffer, doc *Document, checkKeys, moveID, top bool) error {
	elems := doc.Elements()

	if !moveID && doc.countKey(idKey) > 1 {
		// The original cbson implementation silently deletes one of two
		// colliding "_id" spellings here (spec §9's flagged dead code).
		// We surface it instead, per the spec's explicit guidance.
		return &bsonerr.InvalidDocumentError{Reason: `document has more than one "_id" field`}
	}

	startPos := buf.Position()
	lenOffset := buf.Reserve(4)

	allowID := !moveID
	if moveID && top {
		if v, ok := doc.Lookup(idKey); ok {
			if err := writeElement(buf, idKey, v, checkKeys, true); err != nil {
				return err
			}
		}
	}

	for _, e := range elems {
		if moveID && top && e.Key == idKey {
			continue
		}
		if err := writeElement(buf, e.Key, e.Value, checkKeys, allowID); err != nil {
			return errors.Wrapf(err, "key %q", e.Key)
		}
	}

	buf.AppendByte(0x00)
	length := buf.Position() - startPos
	buf.PatchInt32(lenOffset, int32(length))

	if top && length > MaxDocumentSize {
		return &bsonerr.InvalidDocumentError{
			Reason: "document too large: BSON documents are limited to 4MB",
		}
	}
	return nil
}

// writeElement writes one (key, value) pair: the tag byte, the key as a
// NUL-terminated UTF-8 string, and the value's payload, per spec §4.3.1.
func writeElement(buf *bsonbuf.Buffer, key string, value interface{}, checkKeys, allowID bool) error {
	if !allowID && key == idKey {
		return nil
	}

	if checkKeys {
		if err := validateKey(key); err != nil {
			return err
		}
	}

	switch bsonutf8.Classify([]byte(key), false) {
	case bsonutf8.HasNull:
		return &bsonerr.InvalidDocumentError{Reason: "key \"" + key + "\" contains a NUL byte"}
	case bsonutf8.NotUTF8:
		return &bsonerr.InvalidStringEncodingError{Field: "key \"" + key + "\"", Reason: "not valid UTF-8"}
	}

	switch v := value.(type) {
	case float64:
		writeHeader(buf, TypeDouble, key)
		buf.AppendInt64(int64(math.Float64bits(v)))
	case string:
		writeHeader(buf, TypeString, key)
		return writeLengthPrefixedString(buf, v)
	case *Document:
		writeHeader(buf, TypeEmbeddedDocument, key)
		return marshalDocument(buf, v, checkKeys, false, false)
	case *Array:
		writeHeader(buf, TypeArray, key)
		return marshalArray(buf, v, checkKeys)
	case Binary:
		writeHeader(buf, TypeBinary, key)
		writeBinary(buf, v)
	case ObjectID:
		writeHeader(buf, TypeObjectID, key)
		buf.Append(v[:])
	case bool:
		writeHeader(buf, TypeBoolean, key)
		if v {
			buf.AppendByte(0x01)
		} else {
			buf.AppendByte(0x00)
		}
	case DateTime:
		writeHeader(buf, TypeDateTime, key)
		buf.AppendInt64(int64(v))
	case time.Time:
		writeHeader(buf, TypeDateTime, key)
		buf.AppendInt64(int64(NewDateTimeFromTime(v)))
	case nil:
		writeHeader(buf, TypeNull, key)
	case Regex:
		writeHeader(buf, TypeRegex, key)
		return writeRegex(buf, v)
	case DBRef:
		writeHeader(buf, TypeEmbeddedDocument, key)
		return writeDBRef(buf, v)
	case JavaScript:
		writeHeader(buf, TypeJavaScript, key)
		return writeLengthPrefixedString(buf, string(v))
	case Symbol:
		writeHeader(buf, TypeSymbol, key)
		return writeLengthPrefixedString(buf, string(v))
	case CodeWithScope:
		writeHeader(buf, TypeCodeWithScope, key)
		return writeCodeWithScope(buf, v)
	case int32:
		writeHeader(buf, TypeInt32, key)
		buf.AppendInt32(v)
	case int:
		return writeInt(buf, key, int64(v))
	case int64:
		return writeInt(buf, key, v)
	case *big.Int:
		if !v.IsInt64() {
			return &bsonerr.RangeError{Big: true}
		}
		return writeInt(buf, key, v.Int64())
	case *big.Rat, *big.Float:
		return &bsonerr.InvalidDocumentError{
			Reason: "cannot serialize an arbitrary-precision rational or decimal (" + typeNameOf(value) + ") as BSON; only fixed-size ints and float64 are supported",
		}
	case complex64, complex128:
		return &bsonerr.InvalidDocumentError{
			Reason: "cannot serialize a complex number as BSON",
		}
	case Timestamp:
		writeHeader(buf, TypeTimestamp, key)
		buf.AppendUint32(v.I)
		buf.AppendUint32(v.T)
	case MinKey:
		writeHeader(buf, TypeMinKey, key)
	case MaxKey:
		writeHeader(buf, TypeMaxKey, key)
	case Undefined:
		return &bsonerr.InvalidDocumentError{Reason: "cannot serialize Undefined: it is a read-only, decode-only type"}
	default:
		return &bsonerr.InvalidDocumentError{
			Reason: "cannot serialize a value of type " + typeNameOf(value) + " into BSON",
		}
	}
	return nil
}

// writeInt chooses Int32 or Int64 for v per spec §3.3's narrowest-fit
// rule; values outside int64's range can't reach here because Go has no
// wider native integer type to hold them in a Value.
func writeInt(buf *bsonbuf.Buffer, key string, v int64) error {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		writeHeader(buf, TypeInt32, key)
		buf.AppendInt32(int32(v))
		return nil
	}
	writeHeader(buf, TypeInt64, key)
	buf.AppendInt64(v)
	return nil
}

func writeHeader(buf *bsonbuf.Buffer, t Type, key string) {
	buf.AppendByte(byte(t))
	buf.AppendCString(key)
}

// writeLengthPrefixedString writes the 4-byte length (payload + NUL),
// the UTF-8 bytes, and the trailing NUL, per spec §4.3.1. Embedded NUL
// bytes are permitted in general strings (only keys and regex patterns
// forbid them), matching the historical cbson behavior spec §4.3.1 notes.
func writeLengthPrefixedString(buf *bsonbuf.Buffer, s string) error {
	if bsonutf8.Classify([]byte(s), true) == bsonutf8.NotUTF8 {
		return &bsonerr.InvalidStringEncodingError{Field: "string value", Reason: "not valid UTF-8"}
	}
	buf.AppendInt32(int32(len(s)) + 1)
	buf.AppendCString(s)
	return nil
}

func writeBinary(buf *bsonbuf.Buffer, b Binary) {
	if b.Subtype == BinaryOldBinary {
		// Legacy subtype 2: outer length is raw_len+4, then subtype,
		// then an inner 4-byte length of raw_len, then the bytes.
		buf.AppendInt32(int32(len(b.Data)) + 4)
		buf.AppendByte(b.Subtype)
		buf.AppendInt32(int32(len(b.Data)))
		buf.Append(b.Data)
		return
	}
	buf.AppendInt32(int32(len(b.Data)))
	buf.AppendByte(b.Subtype)
	buf.Append(b.Data)
}

func writeRegex(buf *bsonbuf.Buffer, r Regex) error {
	switch bsonutf8.Classify([]byte(r.Pattern), false) {
	case bsonutf8.HasNull:
		return &bsonerr.InvalidDocumentError{Reason: "regex pattern contains a NUL byte"}
	case bsonutf8.NotUTF8:
		return &bsonerr.InvalidStringEncodingError{Field: "regex pattern", Reason: "not valid UTF-8"}
	}
	buf.AppendCString(r.Pattern)
	buf.AppendCString(r.sortedOptions())
	return nil
}

func writeDBRef(buf *bsonbuf.Buffer, ref DBRef) error {
	startPos := buf.Position()
	lenOffset := buf.Reserve(4)

	if err := writeElement(buf, "$ref", ref.Collection, false, true); err != nil {
		return err
	}
	if err := writeElement(buf, "$id", ref.ID, false, true); err != nil {
		return err
	}

	buf.AppendByte(0x00)
	length := buf.Position() - startPos
	buf.PatchInt32(lenOffset, int32(length))
	return nil
}

// writeCodeWithScope writes the length-prefixed code string followed by
// the scope document. The scope is always written with check_keys=false,
// matching the original cbson implementation.
func writeCodeWithScope(buf *bsonbuf.Buffer, c CodeWithScope) error {
	startPos := buf.Position()
	totalLenOffset := buf.Reserve(4)

	if err := writeLengthPrefixedString(buf, c.Code); err != nil {
		return err
	}

	scope := c.Scope
	if scope == nil {
		scope = NewDocument()
	}
	if err := marshalDocument(buf, scope, false, false, false); err != nil {
		return err
	}

	totalLength := buf.Position() - startPos
	buf.PatchInt32(totalLenOffset, int32(totalLength))
	return nil
}

func marshalArray(buf *bsonbuf.Buffer, arr *Array, checkKeys bool) error {
	startPos := buf.Position()
	lenOffset := buf.Reserve(4)

	for i, v := range arr.Values() {
		if err := writeElement(buf, itoa(i), v, checkKeys, true); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}

	buf.AppendByte(0x00)
	length := buf.Position() - startPos
	buf.PatchInt32(lenOffset, int32(length))
	return nil
}

// validateKey enforces the check_keys rules of spec §7/§3.3: a key must
// not start with '$' and must not contain '.'.
func validateKey(key string) error {
	if strings.HasPrefix(key, "$") {
		return &bsonerr.InvalidNameError{Key: key, Reason: "key must not start with '$'"}
	}
	if strings.Contains(key, ".") {
		return &bsonerr.InvalidNameError{Key: key, Reason: "key must not contain '.'"}
	}
	return nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func typeNameOf(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
