// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

// Queue.Declare flag bits.
const (
	QueueFlagPassive    byte = 1
	QueueFlagDurable    byte = 2
	QueueFlagExclusive  byte = 4
	QueueFlagAutoDelete byte = 8
	QueueFlagNoWait     byte = 16
)

type QueueDeclare struct {
	Reserved1 uint16
	Queue     string
	Flags     byte
	Arguments wire.Table
}

func (QueueDeclare) ClassID() int16  { return ClassQueue }
func (QueueDeclare) MethodID() int16 { return MethodQueueDeclare }
func (m QueueDeclare) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Queue)
	wire.PutByte(buf, m.Flags)
	_ = wire.PutTable(buf, m.Arguments)
}

func decodeQueueDeclare(d *wire.Decoder) (QueueDeclare, error) {
	var m QueueDeclare
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Queue, err = d.ShortString(); err != nil {
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

type QueueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (QueueDeclareOk) ClassID() int16  { return ClassQueue }
func (QueueDeclareOk) MethodID() int16 { return MethodQueueDeclareOk }
func (m QueueDeclareOk) Write(buf *bytes.Buffer) {
	_ = wire.PutShortString(buf, m.Queue)
	wire.PutUint(buf, m.MessageCount)
	wire.PutUint(buf, m.ConsumerCount)
}

func decodeQueueDeclareOk(d *wire.Decoder) (QueueDeclareOk, error) {
	var m QueueDeclareOk
	var err error
	if m.Queue, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.MessageCount, err = d.Uint(); err != nil {
		return m, err
	}
	if m.ConsumerCount, err = d.Uint(); err != nil {
		return m, err
	}
	return m, nil
}

type QueueBind struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  wire.Table
}

func (QueueBind) ClassID() int16  { return ClassQueue }
func (QueueBind) MethodID() int16 { return MethodQueueBind }
func (m QueueBind) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Queue)
	_ = wire.PutShortString(buf, m.Exchange)
	_ = wire.PutShortString(buf, m.RoutingKey)
	wire.PutBool(buf, m.NoWait)
	_ = wire.PutTable(buf, m.Arguments)
}

func decodeQueueBind(d *wire.Decoder) (QueueBind, error) {
	var m QueueBind
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Queue, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.RoutingKey, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.NoWait, err = d.Bool(); err != nil {
		return m, err
	}
	if m.Arguments, err = d.Table(); err != nil {
		return m, err
	}
	return m, nil
}

type QueueBindOk struct{}

func (QueueBindOk) ClassID() int16          { return ClassQueue }
func (QueueBindOk) MethodID() int16         { return MethodQueueBindOk }
func (QueueBindOk) Write(buf *bytes.Buffer) {}

func decodeQueueBindOk(d *wire.Decoder) (QueueBindOk, error) {
	return QueueBindOk{}, nil
}

type QueueUnbind struct {
	Reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  wire.Table
}

func (QueueUnbind) ClassID() int16  { return ClassQueue }
func (QueueUnbind) MethodID() int16 { return MethodQueueUnbind }
func (m QueueUnbind) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Queue)
	_ = wire.PutShortString(buf, m.Exchange)
	_ = wire.PutShortString(buf, m.RoutingKey)
	_ = wire.PutTable(buf, m.Arguments)
}

func decodeQueueUnbind(d *wire.Decoder) (QueueUnbind, error) {
	var m QueueUnbind
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Queue, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.RoutingKey, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Arguments, err = d.Table(); err != nil {
		return m, err
	}
	return m, nil
}

type QueueUnbindOk struct{}

func (QueueUnbindOk) ClassID() int16          { return ClassQueue }
func (QueueUnbindOk) MethodID() int16         { return MethodQueueUnbindOk }
func (QueueUnbindOk) Write(buf *bytes.Buffer) {}

func decodeQueueUnbindOk(d *wire.Decoder) (QueueUnbindOk, error) {
	return QueueUnbindOk{}, nil
}
