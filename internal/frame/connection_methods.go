// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

type ConnectionStart struct {
	VersionMajor, VersionMinor byte
	ServerProperties           wire.Table
	Mechanisms                 string
	Locales                    string
}

func (ConnectionStart) ClassID() int16  { return ClassConnection }
func (ConnectionStart) MethodID() int16 { return MethodConnectionStart }
func (m ConnectionStart) Write(buf *bytes.Buffer) {
	wire.PutByte(buf, m.VersionMajor)
	wire.PutByte(buf, m.VersionMinor)
	_ = wire.PutTable(buf, m.ServerProperties)
	wire.PutLongString(buf, m.Mechanisms)
	wire.PutLongString(buf, m.Locales)
}

func decodeConnectionStart(d *wire.Decoder) (ConnectionStart, error) {
	var m ConnectionStart
	var err error
	if m.VersionMajor, err = d.Byte(); err != nil {
		return m, err
	}
	if m.VersionMinor, err = d.Byte(); err != nil {
		return m, err
	}
	if m.ServerProperties, err = d.Table(); err != nil {
		return m, err
	}
	if m.Mechanisms, err = d.LongString(); err != nil {
		return m, err
	}
	if m.Locales, err = d.LongString(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionStartOk struct {
	ClientProperties wire.Table
	Mechanism        string
	Response         string
	Locale           string
}

func (ConnectionStartOk) ClassID() int16  { return ClassConnection }
func (ConnectionStartOk) MethodID() int16 { return MethodConnectionStartOk }
func (m ConnectionStartOk) Write(buf *bytes.Buffer) {
	_ = wire.PutTable(buf, m.ClientProperties)
	_ = wire.PutShortString(buf, m.Mechanism)
	wire.PutLongString(buf, m.Response)
	_ = wire.PutShortString(buf, m.Locale)
}

func decodeConnectionStartOk(d *wire.Decoder) (ConnectionStartOk, error) {
	var m ConnectionStartOk
	var err error
	if m.ClientProperties, err = d.Table(); err != nil {
		return m, err
	}
	if m.Mechanism, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Response, err = d.LongString(); err != nil {
		return m, err
	}
	if m.Locale, err = d.ShortString(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (ConnectionTune) ClassID() int16  { return ClassConnection }
func (ConnectionTune) MethodID() int16 { return MethodConnectionTune }
func (m ConnectionTune) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.ChannelMax)
	wire.PutUint(buf, m.FrameMax)
	wire.PutUshort(buf, m.Heartbeat)
}

func decodeConnectionTune(d *wire.Decoder) (ConnectionTune, error) {
	var m ConnectionTune
	var err error
	if m.ChannelMax, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.FrameMax, err = d.Uint(); err != nil {
		return m, err
	}
	if m.Heartbeat, err = d.Ushort(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionTuneOk struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (ConnectionTuneOk) ClassID() int16  { return ClassConnection }
func (ConnectionTuneOk) MethodID() int16 { return MethodConnectionTuneOk }
func (m ConnectionTuneOk) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.ChannelMax)
	wire.PutUint(buf, m.FrameMax)
	wire.PutUshort(buf, m.Heartbeat)
}

func decodeConnectionTuneOk(d *wire.Decoder) (ConnectionTuneOk, error) {
	var m ConnectionTuneOk
	var err error
	if m.ChannelMax, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.FrameMax, err = d.Uint(); err != nil {
		return m, err
	}
	if m.Heartbeat, err = d.Ushort(); err != nil {
		return m, err
	}
	return m, nil
}

// ConnectionOpen carries {vhost, reserved1="", reserved2=0}.
type ConnectionOpen struct {
	VHost     string
	Reserved1 string
	Reserved2 byte
}

func (ConnectionOpen) ClassID() int16  { return ClassConnection }
func (ConnectionOpen) MethodID() int16 { return MethodConnectionOpen }
func (m ConnectionOpen) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.VHost)
	_ = wire.PutShortString(buf, m.Reserved1)
	wire.PutByte(buf, m.Reserved2)
}

func decodeConnectionOpen(d *wire.Decoder) (ConnectionOpen, error) {
	var m ConnectionOpen
	var err error
	if m.VHost, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Reserved1, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Reserved2, err = d.Byte(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionOpenOk struct {
	Reserved1 string
}

func (ConnectionOpenOk) ClassID() int16  { return ClassConnection }
func (ConnectionOpenOk) MethodID() int16 { return MethodConnectionOpenOk }
func (m ConnectionOpenOk) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.Reserved1)
}

func decodeConnectionOpenOk(d *wire.Decoder) (ConnectionOpenOk, error) {
	var m ConnectionOpenOk
	var err error
	if m.Reserved1, err = d.ShortString(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionClose struct {
	ReplyCode       uint16
	ReplyText       string
	FailingClassID  int16
	FailingMethodID int16
}

func (ConnectionClose) ClassID() int16  { return ClassConnection }
func (ConnectionClose) MethodID() int16 { return MethodConnectionClose }
func (m ConnectionClose) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.ReplyCode)
	_ = wire.PutShortString(buf, m.ReplyText)
	wire.PutShort(buf, m.FailingClassID)
	wire.PutShort(buf, m.FailingMethodID)
}

func decodeConnectionClose(d *wire.Decoder) (ConnectionClose, error) {
	var m ConnectionClose
	var err error
	if m.ReplyCode, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.ReplyText, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.FailingClassID, err = d.Short(); err != nil {
		return m, err
	}
	if m.FailingMethodID, err = d.Short(); err != nil {
		return m, err
	}
	return m, nil
}

type ConnectionCloseOk struct{}

func (ConnectionCloseOk) ClassID() int16          { return ClassConnection }
func (ConnectionCloseOk) MethodID() int16         { return MethodConnectionCloseOk }
func (ConnectionCloseOk) Write(buf *bytes.Buffer) {}

func decodeConnectionCloseOk(d *wire.Decoder) (ConnectionCloseOk, error) {
	return ConnectionCloseOk{}, nil
}
