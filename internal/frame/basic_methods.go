// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

const (
	BasicConsumeFlagNoLocal   byte = 1
	BasicConsumeFlagNoAck     byte = 2
	BasicConsumeFlagExclusive byte = 4
	BasicConsumeFlagNoWait    byte = 8

	BasicPublishFlagMandatory byte = 1
	BasicPublishFlagImmediate byte = 2
)

type BasicConsume struct {
	Reserved1   uint16
	Queue       string
	ConsumerTag string
	Flags       byte
	Arguments   wire.Table
}

func (BasicConsume) ClassID() int16  { return ClassBasic }
func (BasicConsume) MethodID() int16 { return MethodBasicConsume }
func (m BasicConsume) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Queue)
	_ = wire.PutShortString(buf, m.ConsumerTag)
	wire.PutByte(buf, m.Flags)
	_ = wire.PutTable(buf, m.Arguments)
}

func decodeBasicConsume(d *wire.Decoder) (BasicConsume, error) {
	var m BasicConsume
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Queue, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.ConsumerTag, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Flags, err = d.Byte(); err != nil {
		return m, err
	}
	if m.Arguments, err = d.Table(); err != nil {
		return m, err
	}
	return m, nil
}

type BasicConsumeOk struct {
	ConsumerTag string
}

func (BasicConsumeOk) ClassID() int16  { return ClassBasic }
func (BasicConsumeOk) MethodID() int16 { return MethodBasicConsumeOk }
func (m BasicConsumeOk) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.ConsumerTag)
}

func decodeBasicConsumeOk(d *wire.Decoder) (BasicConsumeOk, error) {
	var m BasicConsumeOk
	var err error
	if m.ConsumerTag, err = d.ShortString(); err != nil {
		return m, err
	}
	return m, nil
}

type BasicPublish struct {
	Reserved1  uint16
	Exchange   string
	RoutingKey string
	Flags      byte
}

func (BasicPublish) ClassID() int16  { return ClassBasic }
func (BasicPublish) MethodID() int16 { return MethodBasicPublish }
func (m BasicPublish) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Exchange)
	_ = wire.PutShortString(buf, m.RoutingKey)
	wire.PutByte(buf, m.Flags)
}

func decodeBasicPublish(d *wire.Decoder) (BasicPublish, error) {
	var m BasicPublish
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.RoutingKey, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Flags, err = d.Byte(); err != nil {
		return m, err
	}
	return m, nil
}

// BasicDeliver is content-bearing: it is always followed by a content-header
// and one or more content-body frames on the same channel.
type BasicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (BasicDeliver) ClassID() int16  { return ClassBasic }
func (BasicDeliver) MethodID() int16 { return MethodBasicDeliver }
func (m BasicDeliver) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.ConsumerTag)
	wire.PutUlong(buf, m.DeliveryTag)
	wire.PutBool(buf, m.Redelivered)
	_ = wire.PutShortString(buf, m.Exchange)
	_ = wire.PutShortString(buf, m.RoutingKey)
}

func decodeBasicDeliver(d *wire.Decoder) (BasicDeliver, error) {
	var m BasicDeliver
	var err error
	if m.ConsumerTag, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.DeliveryTag, err = d.Ulong(); err != nil {
		return m, err
	}
	if m.Redelivered, err = d.Bool(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.RoutingKey, err = d.ShortString(); err != nil {
		return m, err
	}
	return m, nil
}

type BasicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (BasicAck) ClassID() int16  { return ClassBasic }
func (BasicAck) MethodID() int16 { return MethodBasicAck }
func (m BasicAck) Write(buf *bytes.Buffer) {
	wire.PutUlong(buf, m.DeliveryTag)
	wire.PutBool(buf, m.Multiple)
}

func decodeBasicAck(d *wire.Decoder) (BasicAck, error) {
	var m BasicAck
	var err error
	if m.DeliveryTag, err = d.Ulong(); err != nil {
		return m, err
	}
	if m.Multiple, err = d.Bool(); err != nil {
		return m, err
	}
	return m, nil
}

type BasicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (BasicReject) ClassID() int16  { return ClassBasic }
func (BasicReject) MethodID() int16 { return MethodBasicReject }
func (m BasicReject) Write(buf *bytes.Buffer) {
	wire.PutUlong(buf, m.DeliveryTag)
	wire.PutBool(buf, m.Requeue)
}

func decodeBasicReject(d *wire.Decoder) (BasicReject, error) {
	var m BasicReject
	var err error
	if m.DeliveryTag, err = d.Ulong(); err != nil {
		return m, err
	}
	if m.Requeue, err = d.Bool(); err != nil {
		return m, err
	}
	return m, nil
}
