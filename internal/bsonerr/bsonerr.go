// Package bsonerr defines the typed error taxonomy shared by the BSON
// encoder and decoder. The kinds mirror the driver's own internal error
// split between malformed input, type mismatches, and range violations
// rather than collapsing everything into a single opaque error value.
package bsonerr

import "fmt"

// InvalidNameError indicates that a key violated a check_keys rule: it
// began with '$' or contained '.'.
type InvalidNameError struct {
	Key    string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("bson: invalid key %q: %s", e.Key, e.Reason)
}

// InvalidStringEncodingError indicates a byte sequence was not valid UTF-8
// where UTF-8 was required. A disallowed NUL byte is reported as an
// InvalidDocumentError instead.
type InvalidStringEncodingError struct {
	Field  string
	Reason string
}

func (e *InvalidStringEncodingError) Error() string {
	return fmt.Sprintf("bson: invalid encoding for %s: %s", e.Field, e.Reason)
}

// InvalidDocumentError indicates a structural violation: an unsupported
// value type, a NUL byte in a key or regex pattern, a too-large document,
// or an ambiguous _id collision.
type InvalidDocumentError struct {
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return "bson: invalid document: " + e.Reason
}

// RangeError indicates an integer value fell outside [-2^63, 2^63-1].
type RangeError struct {
	Value int64
	Big   bool // true if the value could not even be represented as int64
}

func (e *RangeError) Error() string {
	return "bson: integer value out of range for a BSON Int64"
}

// TypeError indicates a document key was neither a string nor a symbol.
type TypeError struct {
	Got string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("bson: keys must be strings, got %s", e.Got)
}

// DecodeError indicates malformed BSON bytes: an unknown tag, a length
// that overruns the input, or a missing NUL terminator.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bson: decode error at offset %d: %s", e.Offset, e.Reason)
}

// outOfMemoryError is the concrete type of ErrOutOfMemory.
type outOfMemoryError struct{}

func (outOfMemoryError) Error() string { return "bson: out of memory while growing buffer" }

// ErrOutOfMemory is the value the byte buffer panics with when Patch is
// asked to write outside the bytes written so far. No buffer method
// returns it: Append and Reserve grow storage with Go's built-in append,
// so an allocation failure there aborts the program instead.
var ErrOutOfMemory error = outOfMemoryError{}
