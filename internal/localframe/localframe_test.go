// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package localframe

import (
	"bytes"
	"io"
	"testing"

	"github.com/amqp091/amqp091-go-core/internal/bo"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	messages := []string{"hello", "", "a longer progress line with kv pairs step=dialed channel_id=1"}
	for _, m := range messages {
		if _, err := w.Write([]byte(m)); err != nil {
			t.Fatalf("Write(%q): %v", m, err)
		}
	}

	r := NewReader(&buf)
	scratch := make([]byte, 4096)
	for _, want := range messages {
		n, err := r.Read(scratch)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got := string(scratch[:n]); got != want {
			t.Fatalf("Read() = %q, want %q", got, want)
		}
	}

	if _, err := r.Read(scratch); err != io.EOF {
		t.Fatalf("Read() after last message = %v, want io.EOF", err)
	}
}

func TestReaderRejectsUndersizedBuffer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if _, err := w.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := NewReader(&buf)
	if _, err := r.Read(make([]byte, 4)); err != io.ErrShortBuffer {
		t.Fatalf("Read() with undersized buffer = %v, want io.ErrShortBuffer", err)
	}
}

func TestWithLocalUsesNativeByteOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, WithLocal())
	payload := make([]byte, 300) // forces the 2-byte extended-length path
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var wantLen [2]byte
	bo.Native().PutUint16(wantLen[:], 300)
	if hdr := buf.Bytes()[:3]; hdr[0] != 0xFE || !bytes.Equal(hdr[1:], wantLen[:]) {
		t.Fatalf("header = %x, want fe%x", hdr, wantLen)
	}

	r := NewReader(&buf, WithLocal())
	got := make([]byte, 300)
	n, err := r.Read(got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("Read() n = %d, want %d", n, len(payload))
	}
}
