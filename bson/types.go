// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "fmt"

// Type represents the BSON tag byte that precedes every element on the
// wire. The values are fixed by the BSON specification; see spec §6.1.
type Type byte

// The full set of BSON tag bytes this codec understands on decode. All of
// them except the two marked read-only are also written on encode.
const (
	TypeDouble           Type = 0x01
	TypeString           Type = 0x02
	TypeEmbeddedDocument Type = 0x03
	TypeArray            Type = 0x04
	TypeBinary           Type = 0x05
	TypeUndefined        Type = 0x06 // deprecated, read-only
	TypeObjectID         Type = 0x07
	TypeBoolean          Type = 0x08
	TypeDateTime         Type = 0x09
	TypeNull             Type = 0x0A
	TypeRegex            Type = 0x0B
	TypeDBPointer        Type = 0x0C // deprecated, read-only
	TypeJavaScript       Type = 0x0D
	TypeSymbol           Type = 0x0E
	TypeCodeWithScope    Type = 0x0F
	TypeInt32            Type = 0x10
	TypeTimestamp        Type = 0x11
	TypeInt64            Type = 0x12
	TypeMaxKey           Type = 0x7F
	TypeMinKey           Type = 0xFF
)

var typeNames = map[Type]string{
	TypeDouble:           "double",
	TypeString:           "string",
	TypeEmbeddedDocument: "embedded document",
	TypeArray:            "array",
	TypeBinary:           "binary",
	TypeUndefined:        "undefined",
	TypeObjectID:         "objectID",
	TypeBoolean:          "bool",
	TypeDateTime:         "UTC datetime",
	TypeNull:             "null",
	TypeRegex:            "regex",
	TypeDBPointer:        "DBPointer",
	TypeJavaScript:       "javascript",
	TypeSymbol:           "symbol",
	TypeCodeWithScope:    "code with scope",
	TypeInt32:            "int32",
	TypeTimestamp:        "timestamp",
	TypeInt64:            "int64",
	TypeMaxKey:           "maxKey",
	TypeMinKey:           "minKey",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02X)", byte(t))
}
