// Copyright 2013 Jamie Hall. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session provides a thin concurrency wrapper around a
// decoder.Decoder, for callers that hand it bytes from more than one
// goroutine (for instance a transport read loop running concurrently with
// a flush triggered elsewhere).
package session

import (
	"github.com/SlyMarbo/spin"

	"github.com/amikey/spdyframe/decoder"
)

// Feeder serializes calls into a single *decoder.Decoder with a spinlock,
// the same primitive the teacher's spdy3.Conn uses to guard its shared
// connection state. It changes nothing about decoding semantics; it only
// prevents two goroutines from interleaving calls into the same Decoder.
type Feeder struct {
	lock spin.Lock
	dec  *decoder.Decoder
}

// NewFeeder wraps dec for concurrent use.
func NewFeeder(dec *decoder.Decoder) *Feeder {
	return &Feeder{dec: dec}
}

// Feed hands p to the underlying decoder under the spinlock. Callers
// feeding bytes from multiple goroutines are still responsible for
// presenting them in the correct logical stream order; the lock only
// prevents a torn or interleaved call into the Decoder, it does not
// reorder bytes.
func (f *Feeder) Feed(p []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.dec.Decode(p)
}
