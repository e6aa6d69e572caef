// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package writer implements the writer task: it owns the write half of the
// transport, a bounded outbound mailbox, and heartbeat synthesis.
package writer

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/amqp091/amqp091-go-core/internal/frame"
)

// ErrTransportWriteFailed reports that a flush to the transport failed; the
// writer is no longer usable once this is returned.
var ErrTransportWriteFailed = errors.New("writer: transport write failed")

// ErrClosed reports that the writer has been closed and no longer accepts
// envelopes.
var ErrClosed = errors.New("writer: closed")

// Envelope is one outbound frame addressed to a channel, exactly as produced
// by a channel facade or the Connection Orchestrator.
type Envelope struct {
	Channel int16
	Frame   frame.Frame
}

const mailboxCapacity = 256

// Writer owns the write half of the transport. Envelopes are submitted via
// Send and flushed in the order they were accepted; no frame is ever
// partially written.
type Writer struct {
	dst               io.Writer
	heartbeatInterval time.Duration

	mailbox chan Envelope
	closing chan struct{} // closed by Close to unblock pending Send calls
	done    chan struct{} // closed once Run has returned

	closeOnce sync.Once

	mu      sync.Mutex
	failErr error // first flush failure; sticky once set
}

// New constructs a Writer over dst. heartbeatInterval of zero disables
// heartbeat synthesis (used before the handshake negotiates one).
func New(dst io.Writer, heartbeatInterval time.Duration) *Writer {
	return &Writer{
		dst:               dst,
		heartbeatInterval: heartbeatInterval,
		mailbox:           make(chan Envelope, mailboxCapacity),
		closing:           make(chan struct{}),
		done:              make(chan struct{}),
	}
}

// Send enqueues an envelope for the writer loop, blocking if the mailbox is
// full. It returns an error if the writer has already stopped: ErrClosed
// after a plain Close, or the flush error that killed the loop.
func (w *Writer) Send(env Envelope) error {
	// Check the stopped state first: a buffered mailbox usually has free
	// capacity even after the loop has exited, and the enqueue case must not
	// win the select then.
	select {
	case <-w.closing:
		return w.err()
	case <-w.done:
		return w.err()
	default:
	}
	select {
	case w.mailbox <- env:
		return nil
	case <-w.closing:
		return w.err()
	case <-w.done:
		return w.err()
	}
}

// Run drives the writer loop until ctx-equivalent shutdown via Close, or
// until a flush fails. It is intended to run under an errgroup.Group
// alongside the reader and connection loop tasks.
func (w *Writer) Run() error {
	defer close(w.done)

	var timer *time.Timer
	var timerC <-chan time.Time
	if w.heartbeatInterval > 0 {
		timer = time.NewTimer(w.heartbeatInterval)
		timerC = timer.C
		defer timer.Stop()
	}

	for {
		select {
		case env := <-w.mailbox:
			if err := w.flush(frame.Encode(env.Frame)); err != nil {
				w.fail(err)
				return err
			}
			if timer != nil {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.heartbeatInterval)
			}
		case <-timerC:
			if err := w.flush(frame.Encode(frame.Heartbeat())); err != nil {
				w.fail(err)
				return err
			}
			timer.Reset(w.heartbeatInterval)
		case <-w.closing:
			return w.drain()
		}
	}
}

// drain flushes envelopes already accepted into the mailbox before Close was
// observed, so a successful Send is never silently dropped.
func (w *Writer) drain() error {
	for {
		select {
		case env := <-w.mailbox:
			if err := w.flush(frame.Encode(env.Frame)); err != nil {
				w.fail(err)
				return err
			}
		default:
			return nil
		}
	}
}

// Close stops the writer loop and unblocks any pending Send. Safe to call
// more than once.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.closing)
	})
}

func (w *Writer) flush(b []byte) error {
	_, err := w.dst.Write(b)
	if err != nil {
		return ErrTransportWriteFailed
	}
	return nil
}

func (w *Writer) fail(err error) {
	w.mu.Lock()
	if w.failErr == nil {
		w.failErr = err
	}
	w.mu.Unlock()
}

// Err returns the flush error that stopped the writer, or nil if it has not
// failed. Unlike a channel receive, reading it does not consume it: every
// caller observes the same cause.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failErr
}

func (w *Writer) err() error {
	if err := w.Err(); err != nil {
		return err
	}
	return ErrClosed
}
