// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reader

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/amqp091/amqp091-go-core/internal/frame"
)

func TestReaderEmitsFramesInOrder(t *testing.T) {
	t.Parallel()

	frames := []frame.Frame{
		{Type: frame.TypeMethod, Channel: 0, Payload: []byte{1, 2, 3}},
		{Type: frame.TypeHeader, Channel: 1, Payload: []byte{4}},
		{Type: frame.TypeBody, Channel: 1, Payload: bytes.Repeat([]byte{7}, 5000)},
	}
	var wire []byte
	for _, fr := range frames {
		wire = append(wire, frame.Encode(fr)...)
	}

	r := New(bytes.NewReader(wire))
	for i, want := range frames {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got.Channel != want.Channel || got.Frame.Type != want.Type || !bytes.Equal(got.Frame.Payload, want.Payload) {
			t.Fatalf("frame %d mismatch: got %+v", i, got)
		}
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at stream end, got %v", err)
	}
}

// slowReader dribbles bytes one at a time to exercise the incomplete-frame
// retry path without ever returning a full frame's worth in one Read.
type slowReader struct {
	data []byte
	pos  int
}

func (s *slowReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	p[0] = s.data[s.pos]
	s.pos++
	return 1, nil
}

func TestReaderHandlesByteAtATimeTransport(t *testing.T) {
	t.Parallel()

	fr := frame.Frame{Type: frame.TypeMethod, Channel: 5, Payload: []byte("small payload")}
	encoded := frame.Encode(fr)

	r := New(&slowReader{data: encoded})
	got, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if got.Channel != fr.Channel || !bytes.Equal(got.Frame.Payload, fr.Payload) {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestReaderTruncatedStreamIsConnectionClosed(t *testing.T) {
	t.Parallel()

	fr := frame.Frame{Type: frame.TypeMethod, Channel: 2, Payload: []byte("payload")}
	encoded := frame.Encode(fr)
	truncated := encoded[:len(encoded)-3]

	r := New(bytes.NewReader(truncated))
	if _, err := r.Next(); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestReaderGrowsBufferForLargeFrames(t *testing.T) {
	t.Parallel()

	big := bytes.Repeat([]byte{0xAB}, initialBufCap*3)
	fr := frame.Frame{Type: frame.TypeBody, Channel: 9, Payload: big}
	encoded := frame.Encode(fr)

	r := New(bytes.NewReader(encoded))
	got, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Frame.Payload, big) {
		t.Fatal("large frame payload mismatch after buffer growth")
	}
}
