// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package frame implements the protocol's framing layer: the Frame envelope
// (type, channel, size-prefixed payload, 0xCE terminator), the streaming
// decode_frame/encode_frame operations, and the closed method catalog that
// maps (class, method) id pairs to typed Go structs.
package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete signals that fewer than a whole frame's worth of bytes
	// are available; Decode consumes nothing and the caller must supply more
	// bytes before retrying.
	ErrIncomplete = errors.New("frame: incomplete")

	// ErrMalformedFrame reports a frame envelope outside the wire format: a
	// type code not in {1,2,3,8} or a terminator byte other than 0xCE.
	ErrMalformedFrame = errors.New("frame: malformed frame")
)

// UnknownMethodError reports a (class, method) pair outside the closed
// catalog.
type UnknownMethodError struct {
	ClassID, MethodID int16
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("frame: unknown method (class=%d, method=%d)", e.ClassID, e.MethodID)
}
