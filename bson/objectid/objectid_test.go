// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package objectid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedGenerator(hostname string, pid int) *Generator {
	return NewGeneratorWith(
		func() (string, error) { return hostname, nil },
		func() int { return pid },
		md5Sum,
		&fixedCounter{},
	)
}

type fixedCounter struct{ n uint32 }

func (c *fixedCounter) Next() uint32 {
	c.n++
	return c.n
}

func TestGenerate_Deterministic(t *testing.T) {
	g := fixedGenerator("db1.example.com", 4242)

	id, err := g.GenerateAt(time.Unix(1_600_000_000, 0))
	require.NoError(t, err)

	again, err := g.GenerateAt(time.Unix(1_600_000_000, 0))
	require.NoError(t, err)

	require.NotEqual(t, id, again, "the counter component must advance between calls")
	require.Equal(t, id.Timestamp().Unix(), int64(1_600_000_000))
	require.Equal(t, again.Timestamp().Unix(), int64(1_600_000_000))
}

func TestGenerate_EncodesPID(t *testing.T) {
	g := fixedGenerator("db1.example.com", 4242)

	id, err := g.Generate()
	require.NoError(t, err)
	require.Equal(t, uint16(4242), id.PID())
}

func TestGenerate_HostnameDigestIsStableAcrossCalls(t *testing.T) {
	g := fixedGenerator("db1.example.com", 1)

	first, err := g.Generate()
	require.NoError(t, err)
	second, err := g.Generate()
	require.NoError(t, err)

	require.Equal(t, first[4:7], second[4:7])
}

func TestGenerate_HostnameErrorPropagates(t *testing.T) {
	g := NewGeneratorWith(
		func() (string, error) { return "", errHostname },
		func() int { return 1 },
		md5Sum,
		&fixedCounter{},
	)

	_, err := g.Generate()
	require.Error(t, err)
}

type hostnameError struct{}

func (*hostnameError) Error() string { return "cannot determine host name" }

var errHostname = &hostnameError{}

func TestHex_RoundTrip(t *testing.T) {
	g := fixedGenerator("db1.example.com", 1)
	before, err := g.Generate()
	require.NoError(t, err)

	after, err := FromHex(before.Hex())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFromHex_WrongLength(t *testing.T) {
	_, err := FromHex("deadbeef")
	require.Equal(t, ErrInvalidHex, err)
}

func TestIsZero(t *testing.T) {
	require.True(t, Nil.IsZero())

	g := fixedGenerator("db1.example.com", 1)
	id, err := g.Generate()
	require.NoError(t, err)
	require.False(t, id.IsZero())
}

func TestMarshalUnmarshalText(t *testing.T) {
	g := fixedGenerator("db1.example.com", 1)
	before, err := g.Generate()
	require.NoError(t, err)

	text, err := before.MarshalText()
	require.NoError(t, err)

	var after ObjectID
	require.NoError(t, after.UnmarshalText(text))
	require.Equal(t, before, after)
}

func TestUnmarshalText_Empty(t *testing.T) {
	var id ObjectID
	require.NoError(t, id.UnmarshalText(nil))
	require.True(t, id.IsZero())
}
