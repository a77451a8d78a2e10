// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amp

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Version is the AMP protocol version carried in every frame header.
const Version = 1

// maxFields is the per-frame field limit imposed by the 4-bit count
// nibble of the frame header.
const maxFields = 15

// MaxFieldSize caps a single field payload. The length prefix could
// declare up to 4 GiB; a peer sending such a header would otherwise
// make the receiver buffer forever waiting for bytes that never come.
const MaxFieldSize = 64 << 20

var (
	// ErrTooManyFields is returned by Encode when a message exceeds
	// the 15-field frame limit.
	ErrTooManyFields = errors.New("amp: too many fields in message")

	// ErrFieldTooLarge is returned when a field payload exceeds
	// MaxFieldSize, on encode or on a declared length during decode.
	ErrFieldTooLarge = errors.New("amp: field exceeds size limit")

	// ErrShortBuffer is returned by Decode when the buffer holds only
	// a prefix of a frame; the caller should retry with more bytes.
	ErrShortBuffer = errors.New("amp: buffer holds a partial frame")

	// ErrBadFrame is returned by Decode when the buffer does not start
	// with a well-formed AMP frame.
	ErrBadFrame = errors.New("amp: malformed frame")
)

// Field payloads carry a two-byte marker selecting the decoded type.
// Blobs are markerless raw bytes.
const (
	markerString = "s:"
	markerJSON   = "j:"
	markerBigInt = "i:"
)

// Encode serializes the message as one AMP frame:
// a header byte (version<<4 | field count) followed by one
// length-prefixed payload per field (4-byte big-endian length).
func Encode(m *Message) ([]byte, error) {
	n := m.Len()
	if n > maxFields {
		return nil, ErrTooManyFields
	}

	size := 1
	payloads := make([][]byte, 0, n)
	for _, f := range m.Fields() {
		p, err := encodeField(f)
		if err != nil {
			return nil, err
		}
		if len(p) > MaxFieldSize {
			return nil, fmt.Errorf("%w: %d byte payload", ErrFieldTooLarge, len(p))
		}
		payloads = append(payloads, p)
		size += 4 + len(p)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(Version<<4|n))
	var hdr [4]byte
	for _, p := range payloads {
		binary.BigEndian.PutUint32(hdr[:], uint32(len(p)))
		buf = append(buf, hdr[:]...)
		buf = append(buf, p...)
	}
	return buf, nil
}

func encodeField(f Field) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch f.Type {
	case TypeBlob:
		return f.Data, nil
	case TypeString:
		return append([]byte(markerString), f.Str...), nil
	case TypeJSON:
		return append([]byte(markerJSON), f.JSON...), nil
	case TypeBigInt:
		p := make([]byte, 2+8)
		copy(p, markerBigInt)
		binary.BigEndian.PutUint64(p[2:], uint64(f.Int))
		return p, nil
	default:
		return nil, fmt.Errorf("amp: unknown field type %d", f.Type)
	}
}

// Decode consumes exactly one frame from the front of p and returns
// the decoded message together with the number of bytes consumed,
// which is at least one on success. Multiple frames sent back-to-back
// are decoded by calling Decode repeatedly on the advanced buffer.
func Decode(p []byte) (*Message, int, error) {
	if len(p) == 0 {
		return nil, 0, ErrShortBuffer
	}
	if p[0]>>4 != Version {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrBadFrame, p[0]>>4)
	}
	count := int(p[0] & 0x0f)

	msg := NewMessage()
	off := 1
	for i := 0; i < count; i++ {
		if len(p)-off < 4 {
			return nil, 0, ErrShortBuffer
		}
		size := binary.BigEndian.Uint32(p[off : off+4])
		if size > MaxFieldSize {
			return nil, 0, fmt.Errorf("%w: %d byte field declared", ErrFieldTooLarge, size)
		}
		off += 4
		if len(p)-off < int(size) {
			return nil, 0, ErrShortBuffer
		}
		f, err := decodeField(p[off : off+int(size)])
		if err != nil {
			return nil, 0, err
		}
		msg.Push(f)
		off += int(size)
	}
	return msg, off, nil
}

func decodeField(p []byte) (Field, error) {
	if len(p) >= 2 {
		switch string(p[:2]) {
		case markerString:
			return String(string(p[2:])), nil
		case markerJSON:
			raw := make([]byte, len(p)-2)
			copy(raw, p[2:])
			return RawJSON(raw), nil
		case markerBigInt:
			if len(p) != 2+8 {
				return Field{}, fmt.Errorf("%w: bigint field of %d bytes", ErrBadFrame, len(p))
			}
			return Int(int64(binary.BigEndian.Uint64(p[2:]))), nil
		}
	}
	data := make([]byte, len(p))
	copy(data, p)
	return Blob(data), nil
}
