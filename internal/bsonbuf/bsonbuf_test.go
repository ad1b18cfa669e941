package bsonbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAndPosition(t *testing.T) {
	b := NewBuffer(0)
	require.Equal(t, 0, b.Position())

	b.AppendByte(0x01)
	b.AppendCString("hi")
	require.Equal(t, []byte{0x01, 'h', 'i', 0x00}, b.Bytes())
	require.Equal(t, 4, b.Position())
}

func TestReserveAndPatch(t *testing.T) {
	b := NewBuffer(0)
	off := b.Reserve(4)
	b.AppendByte(0xFF)
	b.PatchInt32(off, 99)

	require.Equal(t, []byte{99, 0, 0, 0, 0xFF}, b.Bytes())
}

func TestPatchOutOfBoundsPanics(t *testing.T) {
	b := NewBuffer(0)
	b.AppendByte(0x01)

	require.Panics(t, func() {
		b.Patch(0, []byte{1, 2, 3, 4, 5})
	})
}

func TestReleaseClearsBuffer(t *testing.T) {
	b := NewBuffer(0)
	b.AppendByte(0x01)
	b.Release()
	require.Nil(t, b.Bytes())
}

func TestAppendInt32AndInt64AreLittleEndian(t *testing.T) {
	b := NewBuffer(0)
	b.AppendInt32(1)
	require.Equal(t, []byte{1, 0, 0, 0}, b.Bytes())

	b2 := NewBuffer(0)
	b2.AppendInt64(1)
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, b2.Bytes())
}
