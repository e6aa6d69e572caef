// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package connection

import (
	"fmt"
	"io"
	"time"

	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/internal/wire"
	"github.com/amqp091/amqp091-go-core/reader"
)

// protocolHeader is the 8-byte AMQP 0-9-1 preamble written before any
// frame.
var protocolHeader = []byte{0x41, 0x4D, 0x51, 0x50, 0x00, 0x00, 0x09, 0x01}

// tuned is the negotiated result of the Tune/TuneOk exchange: the server's proposed
// values, each optionally lowered (never raised) by the local ceilings in
// Config.
type tuned struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func encodeMethodFrame(channel int16, m frame.Method) []byte {
	return frame.Encode(frame.Frame{Type: frame.TypeMethod, Channel: channel, Payload: frame.EncodeMethod(m)})
}

// expectMethod reads the next frame from r and decodes it as a method frame,
// failing HandshakeFailedError if it isn't of the expected (class, method).
func expectMethod(r *reader.Reader, wantClass, wantMethod int16, wantName string) (frame.Method, error) {
	in, err := r.Next()
	if err != nil {
		return nil, err
	}
	if in.Frame.Type != frame.TypeMethod {
		return nil, &HandshakeFailedError{Expected: wantName, Got: fmt.Sprintf("frame type %d", in.Frame.Type)}
	}
	m, err := frame.DecodeMethodFrame(in.Frame.Payload)
	if err != nil {
		return nil, err
	}
	if m.ClassID() != wantClass || m.MethodID() != wantMethod {
		return nil, &HandshakeFailedError{Expected: wantName, Got: fmt.Sprintf("%T", m)}
	}
	return m, nil
}

func clampCeiling16(ceiling, server uint16) uint16 {
	if ceiling != 0 && ceiling < server {
		return ceiling
	}
	return server
}

func clampCeiling32(ceiling, server uint32) uint32 {
	if ceiling != 0 && ceiling < server {
		return ceiling
	}
	return server
}

// handshake drives the opening sequence (protocol header, Start/StartOk,
// Tune/TuneOk, Open/OpenOk) over conn using r for inbound frames. It
// returns the negotiated tuning values. w is written to directly since the
// steady-state Writer task (which needs the negotiated heartbeat interval)
// isn't spawned until after this returns.
func handshake(w io.Writer, r *reader.Reader, cfg Config) (tuned, error) {
	if _, err := w.Write(protocolHeader); err != nil {
		return tuned{}, err
	}

	if _, err := expectMethod(r, frame.ClassConnection, frame.MethodConnectionStart, "Connection.Start"); err != nil {
		return tuned{}, err
	}

	startOk := frame.ConnectionStartOk{
		ClientProperties: wire.Table{
			"product":     "amqp091-go-core",
			"platform":    "Go",
			"copyright":   "",
			"information": "",
		},
		Mechanism: "PLAIN",
		Response:  "\x00" + cfg.Login + "\x00" + cfg.Password,
		Locale:    "en_US",
	}
	if _, err := w.Write(encodeMethodFrame(0, startOk)); err != nil {
		return tuned{}, err
	}

	tune, err := expectMethod(r, frame.ClassConnection, frame.MethodConnectionTune, "Connection.Tune")
	if err != nil {
		return tuned{}, err
	}
	serverTune := tune.(frame.ConnectionTune)

	negotiated := tuned{
		ChannelMax: clampCeiling16(cfg.MaxChannels, serverTune.ChannelMax),
		FrameMax:   clampCeiling32(cfg.MaxFrameSize, serverTune.FrameMax),
		Heartbeat:  clampCeiling16(uint16(cfg.HeartbeatInterval/time.Second), serverTune.Heartbeat),
	}
	tuneOk := frame.ConnectionTuneOk{ChannelMax: negotiated.ChannelMax, FrameMax: negotiated.FrameMax, Heartbeat: negotiated.Heartbeat}
	if _, err := w.Write(encodeMethodFrame(0, tuneOk)); err != nil {
		return tuned{}, err
	}

	open := frame.ConnectionOpen{VHost: cfg.VHost, Reserved1: "", Reserved2: 0}
	if _, err := w.Write(encodeMethodFrame(0, open)); err != nil {
		return tuned{}, err
	}
	if _, err := expectMethod(r, frame.ClassConnection, frame.MethodConnectionOpenOk, "Connection.OpenOk"); err != nil {
		return tuned{}, err
	}

	cfg.Logger.Info("handshake complete",
		"vhost", cfg.VHost,
		"channel_max", negotiated.ChannelMax,
		"frame_max", negotiated.FrameMax,
		"heartbeat", negotiated.Heartbeat,
	)

	return negotiated, nil
}
