// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package localframe

import (
	"encoding/binary"
	"time"
)

// Options configures framing behavior for one Reader or Writer.
type Options struct {
	ByteOrder binary.ByteOrder

	// ReadLimit caps the maximum allowed payload size (bytes) on the read
	// side. Zero means no limit.
	ReadLimit int

	// RetryDelay controls how the framer handles ErrWouldBlock from the
	// underlying transport:
	//   - negative: nonblock, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	RetryDelay time.Duration
}

var defaultOptions = Options{
	ByteOrder:  binary.BigEndian,
	ReadLimit:  0,
	RetryDelay: -1, // default: nonblock
}

type Option func(*Options)

// WithByteOrder sets the byte order used to encode the extended length
// prefix. Network transports use BigEndian (the package default); local
// IPC transports may prefer the host's native order via WithLocal.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *Options) { o.ByteOrder = order }
}

// WithReadLimit caps the maximum accepted payload size.
func WithReadLimit(limit int) Option {
	return func(o *Options) { o.ReadLimit = limit }
}

// WithRetryDelay sets the retry/wait policy used when the underlying transport returns ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1 }
}
