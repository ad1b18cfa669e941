// Package bsonbuf implements the growable byte container the encoder
// writes into. It exists as its own package, separate from bson, because
// nothing in it is aware of BSON element structure: it only knows how to
// append bytes, hand back reservation offsets, and patch them later. This
// mirrors the split the driver itself makes between bsoncore's raw
// Builder and the higher-level bson package that knows what a Document
// element looks like.
package bsonbuf

import (
	"encoding/binary"

	"github.com/ikmak/gobson/internal/bsonerr"
)

// Buffer is a growable, position-tracked byte container. The zero value
// is an empty, ready-to-use Buffer.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a Buffer with capacity pre-allocated for size bytes.
// size is a hint, not a hard limit; the buffer still grows past it.
func NewBuffer(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{buf: make([]byte, 0, size)}
}

// Position returns the current write cursor, i.e. the number of bytes
// written so far.
func (b *Buffer) Position() int {
	return len(b.buf)
}

// Append appends p to the buffer, growing the underlying storage as
// needed, and returns the offset at which p begins.
func (b *Buffer) Append(p []byte) int {
	start := len(b.buf)
	b.buf = append(b.buf, p...)
	return start
}

// AppendByte appends a single byte and returns its offset.
func (b *Buffer) AppendByte(c byte) int {
	start := len(b.buf)
	b.buf = append(b.buf, c)
	return start
}

// AppendCString appends s followed by a single NUL byte.
func (b *Buffer) AppendCString(s string) int {
	start := len(b.buf)
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0x00)
	return start
}

// AppendInt32 appends v as a little-endian 32-bit integer.
func (b *Buffer) AppendInt32(v int32) int {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return b.Append(tmp[:])
}

// AppendInt64 appends v as a little-endian 64-bit integer.
func (b *Buffer) AppendInt64(v int64) int {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return b.Append(tmp[:])
}

// AppendUint32 appends v as a little-endian 32-bit unsigned integer.
func (b *Buffer) AppendUint32(v uint32) int {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.Append(tmp[:])
}

// Reserve appends n uninitialized bytes and returns their starting
// offset. Callers use this to reserve space for a length prefix that is
// only known once the rest of the element has been written, then Patch
// it back in.
func (b *Buffer) Reserve(n int) int {
	start := len(b.buf)
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, 0x00)
	}
	return start
}

// Patch overwrites the region starting at offset with data. It panics if
// data does not fit within the buffer, which would indicate a logic
// error in the caller (an offset from a prior Reserve/Append always fits
// by construction).
func (b *Buffer) Patch(offset int, data []byte) {
	if offset < 0 || offset+len(data) > len(b.buf) {
		panic(bsonerr.ErrOutOfMemory)
	}
	copy(b.buf[offset:offset+len(data)], data)
}

// PatchInt32 patches a little-endian int32 at offset, as produced by a
// prior Reserve(4).
func (b *Buffer) PatchInt32(offset int, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.Patch(offset, tmp[:])
}

// Bytes returns the written prefix of the buffer. The returned slice
// aliases the buffer's storage; callers that need to keep mutating the
// Buffer after reading Bytes should copy it first.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Release frees the buffer's backing storage eagerly. Go's garbage
// collector will reclaim it either way once the Buffer is unreachable;
// Release exists to satisfy the documented "released on exit" buffer
// lifecycle and as a seam for a future pooled implementation (see
// DESIGN.md, Open Question OQ-1).
func (b *Buffer) Release() {
	b.buf = nil
}
