// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the primitive and composite field encodings of the
// AMQP 0-9-1 wire format: fixed-width numerics, length-prefixed strings, and
// the property-table container. Everything here is pure encode/decode over
// byte slices; it has no notion of frames, channels, or methods.
package wire

import "errors"

var (
	// ErrShortBuffer reports that a decode call did not have enough bytes
	// available to parse a complete value.
	ErrShortBuffer = errors.New("wire: short buffer")

	// ErrUnknownTag reports a property-table field tag byte outside the
	// closed set defined by the wire format.
	ErrUnknownTag = errors.New("wire: unknown field tag")

	// ErrMalformedTable reports that a property-table's declared byte length
	// did not match the bytes actually consumed decoding its entries.
	ErrMalformedTable = errors.New("wire: malformed property table")

	// ErrInvalidUTF8 reports that decoded string bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("wire: invalid utf-8")

	// ErrStringTooLong reports a short-string value exceeding the 255-byte
	// length-prefix limit.
	ErrStringTooLong = errors.New("wire: short-string exceeds 255 bytes")
)
