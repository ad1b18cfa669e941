// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonbench

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ikmak/gobson/bson"
)

func TestMarshalTrials(t *testing.T) {
	doc := bson.NewDocument(bson.E{Key: "a", Value: int32(1)}, bson.E{Key: "b", Value: "hi"})

	summary, err := MarshalTrials("marshal", doc, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 10, summary.Trials)
	require.Greater(t, summary.Bytes, 0)
}

func TestUnmarshalTrials(t *testing.T) {
	doc := bson.NewDocument(bson.E{Key: "a", Value: int32(1)})
	raw, err := bson.Marshal(doc, false, false)
	require.NoError(t, err)

	summary, err := UnmarshalTrials("unmarshal", raw, 10)
	require.NoError(t, err)
	require.Equal(t, 10, summary.Trials)
}

func TestSummaryString(t *testing.T) {
	s := &Summary{Name: "x", Trials: 3}
	require.Contains(t, s.String(), "x")
	require.Contains(t, s.String(), "trials=3")
}
