// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

// Exchange.Declare flag bits. Selected bits OR together into the flag
// byte.
const (
	ExchangeFlagPassive    byte = 1
	ExchangeFlagDurable    byte = 2
	ExchangeFlagAutoDelete byte = 4
	ExchangeFlagInternal   byte = 8
	ExchangeFlagNoWait     byte = 16
)

type ExchangeDeclare struct {
	Reserved1 uint16
	Exchange  string
	Type      string
	Flags     byte
	Arguments wire.Table
}

func (ExchangeDeclare) ClassID() int16  { return ClassExchange }
func (ExchangeDeclare) MethodID() int16 { return MethodExchangeDeclare }
func (m ExchangeDeclare) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Exchange)
	_ = wire.PutShortString(buf, m.Type)
	wire.PutByte(buf, m.Flags)
	_ = wire.PutTable(buf, m.Arguments)
}

func decodeExchangeDeclare(d *wire.Decoder) (ExchangeDeclare, error) {
	var m ExchangeDeclare
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Type, err = d.ShortString(); err != nil {
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

type ExchangeDeclareOk struct{}

func (ExchangeDeclareOk) ClassID() int16          { return ClassExchange }
func (ExchangeDeclareOk) MethodID() int16         { return MethodExchangeDeclareOk }
func (ExchangeDeclareOk) Write(buf *bytes.Buffer) {}

func decodeExchangeDeclareOk(d *wire.Decoder) (ExchangeDeclareOk, error) {
	return ExchangeDeclareOk{}, nil
}

const (
	ExchangeDeleteFlagIfUnused byte = 1
	ExchangeDeleteFlagNoWait   byte = 2
)

type ExchangeDelete struct {
	Reserved1 uint16
	Exchange  string
	Flags     byte
}

func (ExchangeDelete) ClassID() int16  { return ClassExchange }
func (ExchangeDelete) MethodID() int16 { return MethodExchangeDelete }
func (m ExchangeDelete) Write(buf *bytes.Buffer) {
	wire.PutUshort(buf, m.Reserved1)
	_ = wire.PutShortString(buf, m.Exchange)
	wire.PutByte(buf, m.Flags)
}

func decodeExchangeDelete(d *wire.Decoder) (ExchangeDelete, error) {
	var m ExchangeDelete
	var err error
	if m.Reserved1, err = d.Ushort(); err != nil {
		return m, err
	}
	if m.Exchange, err = d.ShortString(); err != nil {
		return m, err
	}
	if m.Flags, err = d.Byte(); err != nil {
		return m, err
	}
	return m, nil
}

type ExchangeDeleteOk struct{}

func (ExchangeDeleteOk) ClassID() int16          { return ClassExchange }
func (ExchangeDeleteOk) MethodID() int16         { return MethodExchangeDeleteOk }
func (ExchangeDeleteOk) Write(buf *bytes.Buffer) {}

func decodeExchangeDeleteOk(d *wire.Decoder) (ExchangeDeleteOk, error) {
	return ExchangeDeleteOk{}, nil
}
