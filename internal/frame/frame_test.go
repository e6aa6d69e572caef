// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	t.Parallel()

	fr := Frame{Type: TypeMethod, Channel: 3, Payload: []byte("hello world")}
	encoded := Encode(fr)
	if encoded[len(encoded)-1] != End {
		t.Fatalf("encoded frame does not end in 0xCE")
	}

	n, decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed %d, want %d", n, len(encoded))
	}
	if decoded.Type != fr.Type || decoded.Channel != fr.Channel || !bytes.Equal(decoded.Payload, fr.Payload) {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, fr)
	}
}

func TestDecodeIncomplete(t *testing.T) {
	t.Parallel()

	fr := Frame{Type: TypeMethod, Channel: 1, Payload: []byte("payload")}
	full := Encode(fr)

	for n := 0; n < len(full); n++ {
		_, _, err := Decode(full[:n])
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("prefix len %d: expected ErrIncomplete, got %v", n, err)
		}
	}
}

func TestDecodeRejectsUnknownFrameType(t *testing.T) {
	t.Parallel()

	full := Encode(Frame{Type: TypeMethod, Channel: 1, Payload: []byte{1}})
	full[0] = 0x07 // not in {1,2,3,8}

	if _, _, err := Decode(full); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecodeMalformedTerminator(t *testing.T) {
	t.Parallel()

	fr := Frame{Type: TypeMethod, Channel: 1, Payload: []byte("x")}
	full := Encode(fr)
	full[len(full)-1] = 0x00

	if _, _, err := Decode(full); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

// TestStreamedDecodeSplitsAnywhere checks the streamed-decode property: for
// any byte split of a buffer containing N well-formed frames, the decoder
// emits exactly those N frames in order, never emits a partial frame, and
// reports incomplete on each prefix that does not yet contain a full frame.
func TestStreamedDecodeSplitsAnywhere(t *testing.T) {
	t.Parallel()

	frames := []Frame{
		{Type: TypeMethod, Channel: 0, Payload: []byte{1, 2, 3}},
		{Type: TypeHeader, Channel: 2, Payload: []byte{4, 5}},
		{Type: TypeBody, Channel: 2, Payload: bytes.Repeat([]byte{9}, 300)},
		{Type: TypeHeartbeat, Channel: 0, Payload: nil},
	}
	var whole []byte
	for _, fr := range frames {
		whole = append(whole, Encode(fr)...)
	}

	for split := 0; split <= len(whole); split++ {
		var got []Frame
		buf := append([]byte(nil), whole[:split]...)
		rest := whole[split:]

		for {
			n, fr, err := Decode(buf)
			if err != nil {
				if errors.Is(err, ErrIncomplete) {
					break
				}
				t.Fatalf("split %d: unexpected error %v", split, err)
			}
			got = append(got, fr)
			buf = buf[n:]
		}
		// Feed the remainder and drain fully to confirm eventual completeness.
		buf = append(buf, rest...)
		for {
			n, fr, err := Decode(buf)
			if errors.Is(err, ErrIncomplete) {
				break
			}
			if err != nil {
				t.Fatalf("split %d: unexpected error %v", split, err)
			}
			got = append(got, fr)
			buf = buf[n:]
		}
		if len(got) != len(frames) {
			t.Fatalf("split %d: got %d frames, want %d", split, len(got), len(frames))
		}
		for i := range frames {
			if got[i].Type != frames[i].Type || got[i].Channel != frames[i].Channel || !bytes.Equal(got[i].Payload, frames[i].Payload) {
				t.Fatalf("split %d: frame %d mismatch: got %+v want %+v", split, i, got[i], frames[i])
			}
		}
		if len(buf) != 0 {
			t.Fatalf("split %d: leftover bytes after full drain", split)
		}
	}
}
