// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package localframe provides a length-prefixed message framing layer over
// a local control socket, exposed via io.Reader and io.Writer.
//
// The probe CLI (cmd/amqp091-probe) opens a Unix-domain control socket to
// report connection/channel progress to a supervising process; that socket
// carries no AMQP semantics at all, so it is framed with this lightweight
// codec rather than the AMQP frame codec in internal/frame.
//
// Wire format: a 1-byte header followed by optional extended length bytes
// and then the payload. Let L be payload length in bytes:
//   - 0 <= L <= 253: header[0] = L (no extended length)
//   - 254 <= L <= 65535: header[0] = 0xFE; next 2 bytes encode L (configured byte order)
//   - 65536 <= L <= 2^56-1: header[0] = 0xFF; next 7 bytes encode lower 56 bits of L
//     in the configured byte order
//
// Maximum supported payload is 2^56-1; larger values produce ErrTooLong. A
// per-reader limit can be set via WithReadLimit.
package localframe

import (
	"io"
)

// NewReader returns an io.Reader that reads one framed message payload per
// Read call. The buffer passed to Read must be large enough to hold the
// message; an undersized buffer returns io.ErrShortBuffer without consuming
// the message.
func NewReader(r io.Reader, opts ...Option) io.Reader {
	return &Reader{fr: newFramer(r, nil, opts...)}
}

// NewWriter returns an io.Writer that writes each Write call as one framed
// message.
func NewWriter(w io.Writer, opts ...Option) io.Writer {
	return &Writer{fr: newFramer(nil, w, opts...)}
}

// Reader reads framed messages.
type Reader struct{ fr *framer }

func (r *Reader) Read(p []byte) (int, error) { return r.fr.read(p) }

// Writer writes framed messages.
type Writer struct{ fr *framer }

func (w *Writer) Write(p []byte) (int, error) { return w.fr.write(p) }
