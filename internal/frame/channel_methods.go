// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

type ChannelOpen struct {
	Reserved1 string
}

func (ChannelOpen) ClassID() int16  { return ClassChannel }
func (ChannelOpen) MethodID() int16 { return MethodChannelOpen }
func (m ChannelOpen) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.Reserved1)
}

func decodeChannelOpen(d *wire.Decoder) (ChannelOpen, error) {
	var m ChannelOpen
	var err error
	if m.Reserved1, err = d.ShortString(); err != nil {
		return m, err
	}
	return m, nil
}

type ChannelOpenOk struct {
	Reserved1 string
}

func (ChannelOpenOk) ClassID() int16  { return ClassChannel }
func (ChannelOpenOk) MethodID() int16 { return MethodChannelOpenOk }
func (m ChannelOpenOk) Write(buf *bytes.Buffer) {
	wire.PutLongString(buf, m.Reserved1)
}

func decodeChannelOpenOk(d *wire.Decoder) (ChannelOpenOk, error) {
	var m ChannelOpenOk
	var err error
	if m.Reserved1, err = d.LongString(); err != nil {
		return m, err
	}
	return m, nil
}

type ChannelFlow struct {
	Active bool
}

func (ChannelFlow) ClassID() int16  { return ClassChannel }
func (ChannelFlow) MethodID() int16 { return MethodChannelFlow }
func (m ChannelFlow) Write(buf *bytes.Buffer) {
	wire.PutBool(buf, m.Active)
}

func decodeChannelFlow(d *wire.Decoder) (ChannelFlow, error) {
	var m ChannelFlow
	var err error
	if m.Active, err = d.Bool(); err != nil {
		return m, err
	}
	return m, nil
}

type ChannelFlowOk struct {
	Active bool
}

func (ChannelFlowOk) ClassID() int16  { return ClassChannel }
func (ChannelFlowOk) MethodID() int16 { return MethodChannelFlowOk }
func (m ChannelFlowOk) Write(buf *bytes.Buffer) {
	wire.PutBool(buf, m.Active)
}

func decodeChannelFlowOk(d *wire.Decoder) (ChannelFlowOk, error) {
	var m ChannelFlowOk
	var err error
	if m.Active, err = d.Bool(); err != nil {
		return m, err
	}
	return m, nil
}

type ChannelClose struct {
	ReplyCode       uint16
	ReplyText       string
	FailingClassID  int16
	FailingMethodID int16
}

func (ChannelClose) ClassID() int16  { return ClassChannel }
func (ChannelClose) MethodID() int16 { return MethodChannelClose }
func (m ChannelClose) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.ReplyCode)
	_ = wire.PutShortString(buf, m.ReplyText)
	wire.PutShort(buf, m.FailingClassID)
	wire.PutShort(buf, m.FailingMethodID)
}

func decodeChannelClose(d *wire.Decoder) (ChannelClose, error) {
	var m ChannelClose
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

type ChannelCloseOk struct{}

func (ChannelCloseOk) ClassID() int16          { return ClassChannel }
func (ChannelCloseOk) MethodID() int16         { return MethodChannelCloseOk }
func (ChannelCloseOk) Write(buf *bytes.Buffer) {}

func decodeChannelCloseOk(d *wire.Decoder) (ChannelCloseOk, error) {
	return ChannelCloseOk{}, nil
}
