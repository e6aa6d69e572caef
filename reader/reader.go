// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package reader implements the reader task: it owns the read half of the
// transport and turns a continuous byte stream into a lazy, strictly
// ordered sequence of (channel, Frame) pairs.
package reader

import (
	"errors"
	"io"

	"github.com/amqp091/amqp091-go-core/internal/frame"
)

// ErrConnectionClosed reports that the transport ended mid-frame or at a
// point where more frames were expected.
var ErrConnectionClosed = errors.New("reader: connection closed")

const initialBufCap = 128 * 1024

// Inbound is one decoded frame paired with the channel it arrived on,
// exactly as the Reader task emits it to the Connection Orchestrator.
type Inbound struct {
	Channel int16
	Frame   frame.Frame
}

// Reader owns the read half of the transport and a growable input buffer.
// It is purely syntactic: it never interprets method semantics, only frame
// boundaries.
type Reader struct {
	src io.Reader

	buf    []byte // unconsumed bytes, buf[pos:len]
	pos    int
	filled int
}

// New constructs a Reader over src with the initial 128 KiB buffer capacity.
func New(src io.Reader) *Reader {
	return &Reader{src: src, buf: make([]byte, initialBufCap)}
}

// Next blocks until one whole frame is available, decodes it, and returns
// it. Frames are emitted in strict wire order; Next never reorders frames
// across channels. io.EOF mid-frame is reported as ErrConnectionClosed; a
// clean EOF at a frame boundary is reported as io.EOF.
func (r *Reader) Next() (Inbound, error) {
	for {
		if n, fr, err := frame.Decode(r.buf[r.pos:r.filled]); err == nil {
			r.pos += n
			r.compact()
			return Inbound{Channel: fr.Channel, Frame: fr}, nil
		} else if !errors.Is(err, frame.ErrIncomplete) {
			return Inbound{}, err
		}

		if err := r.fill(); err != nil {
			return Inbound{}, err
		}
	}
}

// compact reclaims consumed bytes once the unconsumed region shrinks to
// nothing, so the buffer doesn't grow unboundedly on a long-lived connection
// streaming many small frames.
func (r *Reader) compact() {
	if r.pos == r.filled {
		r.pos, r.filled = 0, 0
	}
}

// fill reads more bytes from the transport, growing the buffer if the
// unconsumed region has filled it completely (a single frame larger than
// the current capacity).
func (r *Reader) fill() error {
	if r.filled == len(r.buf) {
		r.grow()
	}
	atBoundary := r.pos == r.filled

	n, err := r.src.Read(r.buf[r.filled:])
	r.filled += n
	if n > 0 {
		// Bytes arrived alongside the error (some Readers report io.EOF on
		// the same call that delivers the final bytes); let the caller
		// retry decoding before we act on the error.
		return nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			if atBoundary {
				return io.EOF
			}
			return ErrConnectionClosed
		}
		return err
	}
	return nil
}

func (r *Reader) grow() {
	if r.pos > 0 {
		r.filled = copy(r.buf, r.buf[r.pos:r.filled])
		r.pos = 0
		return
	}
	grown := make([]byte, len(r.buf)*2)
	copy(grown, r.buf[r.pos:r.filled])
	r.filled -= r.pos
	r.pos = 0
	r.buf = grown
}
