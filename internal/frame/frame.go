// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"encoding/binary"
)

// Type codes for the outer Frame envelope.
const (
	TypeMethod    uint8 = 1
	TypeHeader    uint8 = 2
	TypeBody      uint8 = 3
	TypeHeartbeat uint8 = 8
)

// End is the mandatory frame terminator byte.
const End byte = 0xCE

// frameOverhead is the fixed envelope size: 1 (type) + 2 (channel) + 4 (size) + 1 (end).
const frameOverhead = 1 + 2 + 4 + 1

// Frame is the wire envelope: {type, channel, size, payload, end}.
type Frame struct {
	Type    uint8
	Channel int16
	Payload []byte
}

// Heartbeat returns the canonical zero-payload heartbeat frame on channel 0.
func Heartbeat() Frame { return Frame{Type: TypeHeartbeat, Channel: 0} }

// Decode attempts to parse one whole Frame from the head of buf.
//
// It returns the number of bytes consumed and the decoded frame. If fewer
// than 7+size+1 bytes are available, it returns (0, Frame{}, ErrIncomplete)
// without consuming anything. A type code outside {1,2,3,8} or a
// terminator byte other than 0xCE is ErrMalformedFrame.
func Decode(buf []byte) (consumed int, fr Frame, err error) {
	if len(buf) < 7 {
		return 0, Frame{}, ErrIncomplete
	}
	typ := buf[0]
	switch typ {
	case TypeMethod, TypeHeader, TypeBody, TypeHeartbeat:
	default:
		return 0, Frame{}, ErrMalformedFrame
	}
	channel := int16(binary.BigEndian.Uint16(buf[1:3]))
	size := binary.BigEndian.Uint32(buf[3:7])

	total := frameOverhead + int(size)
	if len(buf) < total {
		return 0, Frame{}, ErrIncomplete
	}
	if buf[total-1] != End {
		return 0, Frame{}, ErrMalformedFrame
	}

	payload := make([]byte, size)
	copy(payload, buf[7:7+size])

	return total, Frame{Type: typ, Channel: channel, Payload: payload}, nil
}

// Encode serializes fr into a freshly allocated byte slice ending in 0xCE.
func Encode(fr Frame) []byte {
	out := make([]byte, frameOverhead+len(fr.Payload))
	out[0] = fr.Type
	binary.BigEndian.PutUint16(out[1:3], uint16(fr.Channel))
	binary.BigEndian.PutUint32(out[3:7], uint32(len(fr.Payload)))
	copy(out[7:], fr.Payload)
	out[len(out)-1] = End
	return out
}
