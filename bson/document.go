// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

// E represents a BSON document element: a key paired with its value.
// Value holds one of the Go types listed in doc.go's package comment;
// Marshal rejects anything else with an InvalidDocumentError.
type E struct {
	Key   string
	Value interface{}
}

// Document is a mutable ordered map that compactly represents a BSON
// document (spec §3.1: an OrderedDocument). Insertion order is
// observable and is exactly the order Marshal will emit, modulo the
// move_id rule. Duplicate keys are permitted structurally, matching
// spec §3.1's "not necessarily unique at the model layer".
//
// The zero value is an empty, ready-to-use Document.
type Document struct {
	elems []E
}

// NewDocument creates a Document from the given elements, in order.
func NewDocument(elems ...E) *Document {
	d := &Document{elems: make([]E, 0, len(elems))}
	d.elems = append(d.elems, elems...)
	return d
}

// Len returns the number of elements in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

// Elements returns the document's elements in insertion order. The
// returned slice aliases the Document's storage; callers must not
// mutate it.
func (d *Document) Elements() []E {
	if d == nil {
		return nil
	}
	return d.elems
}

// Append adds elem to the end of the document.
func (d *Document) Append(elems ...E) *Document {
	d.elems = append(d.elems, elems...)
	return d
}

// Set replaces the first element with a matching key, or appends elem if
// no element in the document has that key.
func (d *Document) Set(elem E) *Document {
	for i, e := range d.elems {
		if e.Key == elem.Key {
			d.elems[i] = elem
			return d
		}
	}
	return d.Append(elem)
}

// Lookup returns the first element in the document with the given key,
// and whether one was found.
func (d *Document) Lookup(key string) (interface{}, bool) {
	if d == nil {
		return nil, false
	}
	for _, e := range d.elems {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Delete removes the first element with the given key, returning it and
// whether it was present. Later elements with the same key, if any, are
// left untouched.
func (d *Document) Delete(key string) (interface{}, bool) {
	for i, e := range d.elems {
		if e.Key == key {
			d.elems = append(d.elems[:i], d.elems[i+1:]...)
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the document's keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.elems))
	for i, e := range d.elems {
		keys[i] = e.Key
	}
	return keys
}

// countKey returns how many elements in the document have the given key.
func (d *Document) countKey(key string) int {
	n := 0
	for _, e := range d.elems {
		if e.Key == key {
			n++
		}
	}
	return n
}
