// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package amp implements the AMP wire format: self-delimiting frames
// of typed fields (blob, string, signed 64-bit integer, JSON).
package amp

import (
	"encoding/json"
	"fmt"
)

// Type identifies the kind of value carried by a Field.
type Type int

const (
	TypeBlob Type = iota
	TypeString
	TypeBigInt
	TypeJSON
)

// String returns the string representation of the field type.
func (t Type) String() string {
	switch t {
	case TypeBlob:
		return "blob"
	case TypeString:
		return "string"
	case TypeBigInt:
		return "bigint"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Field is a single typed value inside a Message. Only the member
// matching Type is meaningful.
type Field struct {
	Type Type
	Data []byte          // blob payload
	Str  string          // string payload
	Int  int64           // bigint payload
	JSON json.RawMessage // encoded JSON document

	err error // deferred marshal error, surfaced by Encode
}

// Blob builds a raw-bytes field.
func Blob(p []byte) Field {
	return Field{Type: TypeBlob, Data: p}
}

// String builds a UTF-8 string field.
func String(s string) Field {
	return Field{Type: TypeString, Str: s}
}

// Int builds a signed 64-bit integer field.
func Int(v int64) Field {
	return Field{Type: TypeBigInt, Int: v}
}

// JSON builds a JSON field from any value marshalable with
// encoding/json. A marshal failure is reported by Encode.
func JSON(v interface{}) Field {
	raw, err := json.Marshal(v)
	if err != nil {
		return Field{Type: TypeJSON, err: fmt.Errorf("amp: could not marshal json field: %w", err)}
	}
	return Field{Type: TypeJSON, JSON: raw}
}

// RawJSON builds a JSON field from an already encoded document.
func RawJSON(raw []byte) Field {
	return Field{Type: TypeJSON, JSON: raw}
}

// Message is an ordered sequence of typed fields, carried on the wire
// as one AMP frame.
type Message struct {
	fields []Field
}

// NewMessage creates a message holding the given fields.
func NewMessage(fields ...Field) *Message {
	return &Message{fields: fields}
}

// Push appends a field to the end of the message.
func (m *Message) Push(f Field) {
	m.fields = append(m.fields, f)
}

// Len returns the number of fields.
func (m *Message) Len() int {
	return len(m.fields)
}

// Fields returns the fields in order. The slice is owned by the
// message and must not be mutated.
func (m *Message) Fields() []Field {
	return m.fields
}

// First returns the first field, if any.
func (m *Message) First() (Field, bool) {
	if len(m.fields) == 0 {
		return Field{}, false
	}
	return m.fields[0], true
}

// Last returns the last field, if any.
func (m *Message) Last() (Field, bool) {
	if len(m.fields) == 0 {
		return Field{}, false
	}
	return m.fields[len(m.fields)-1], true
}

// PopFirst removes and returns the first field.
func (m *Message) PopFirst() (Field, bool) {
	if len(m.fields) == 0 {
		return Field{}, false
	}
	f := m.fields[0]
	m.fields = m.fields[1:]
	return f, true
}

// PopLast removes and returns the last field.
func (m *Message) PopLast() (Field, bool) {
	if len(m.fields) == 0 {
		return Field{}, false
	}
	f := m.fields[len(m.fields)-1]
	m.fields = m.fields[:len(m.fields)-1]
	return f, true
}
