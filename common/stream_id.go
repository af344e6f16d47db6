// Copyright 2013 Jamie Hall. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package common holds wire-format helpers and logging plumbing shared by
// the decoder, session, and cmd packages.
package common

// MaxStreamID is the largest legal stream identifier (2**31 - 1); the top
// bit of any 32-bit stream-id field is reserved and must be masked off
// before use, never validated.
const MaxStreamID = 0x7fffffff

// HeaderSize is the length in bytes of the common frame header shared by
// every SPDY frame, control or data.
const HeaderSize = 8

// StreamID is the unique identifier for a single SPDY stream. It is always
// stored with the reserved high bit already masked off.
type StreamID uint32

// Zero reports whether the ID is zero.
func (s StreamID) Zero() bool {
	return s == 0
}

// BytesToUint16 decodes a big-endian uint16 from the first two bytes of b.
func BytesToUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// BytesToUint24 decodes a big-endian 24-bit unsigned integer from the first
// three bytes of b.
func BytesToUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// BytesToUint32 decodes a big-endian uint32 from the first four bytes of b.
func BytesToUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// MaskStreamID clears the reserved high bit of a raw 32-bit stream-id field.
func MaskStreamID(raw uint32) StreamID {
	return StreamID(raw & MaxStreamID)
}
