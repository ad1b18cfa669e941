// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson implements a bidirectional translator between an ordered
// in-memory document model and the BSON binary wire format used by
// MongoDB.
//
// A Document is a mutable, insertion-order-preserving sequence of E
// (key, value) pairs. Because Go has no tagged-union type, a Value is
// represented as a plain interface{} holding one of the following
// concrete Go types, each corresponding to exactly one BSON wire variant:
//
//	float64                BSON Double
//	string                  BSON String
//	*bson.Document          BSON embedded document
//	*bson.Array             BSON array
//	bson.Binary             BSON Binary
//	bson.ObjectID           BSON ObjectID
//	bool                    BSON Boolean
//	bson.DateTime           BSON UTCDateTime
//	nil                     BSON Null
//	bson.Regex              BSON Regex
//	bson.DBRef              BSON DBPointer (decoded form) / encoded as embedded doc
//	bson.JavaScript         BSON JavaScript
//	bson.Symbol             BSON Symbol
//	bson.CodeWithScope      BSON CodeWithScope
//	int32                   BSON Int32
//	bson.Timestamp          BSON Timestamp
//	int64                   BSON Int64
//	bson.MinKey             BSON MinKey
//	bson.MaxKey             BSON MaxKey
//
// Marshal dispatches on the dynamic type of each Value via a type switch
// (the idiomatic Go realization of tag-based dispatch); Unmarshal
// dispatches on the wire tag byte and constructs one of the types above.
//
// The plain Go int type is also accepted by Marshal and is narrowed to
// int32 or int64 per spec §3.3; Unmarshal never produces a plain int,
// always int32 or int64, so that round-tripping is exact about which
// wire tag was used.
package bson
