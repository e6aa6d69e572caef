// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package message implements the received-message value delivered to
// consumers, and the at-most-once disposition guard over Ack/Reject.
package message

import (
	"errors"
	"sync/atomic"

	"github.com/amqp091/amqp091-go-core/internal/frame"
)

// ErrAlreadyDisposed reports that a message was already ack'd or rejected.
var ErrAlreadyDisposed = errors.New("message: already disposed")

// Sender delivers an outbound method frame on the message's channel. It is
// satisfied by the Connection Orchestrator's outbound path.
type Sender interface {
	Send(channel int16, m frame.Method) error
}

// Metadata mirrors the fields carried by Basic.Deliver.
type Metadata struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

// Message is one reassembled content message: channel id, an
// outbound-frame sender handle, decoded properties, delivery metadata, and
// the reassembled body.
type Message struct {
	Channel    int16
	Properties frame.Properties
	Metadata   Metadata
	Body       []byte

	sender   Sender
	disposed uint32
}

// New constructs a Message ready for Ack/Reject. Consumers never construct a
// Message directly; the Channel Manager does once content assembly
// completes.
func New(channel int16, props frame.Properties, meta Metadata, body []byte, sender Sender) *Message {
	return &Message{
		Channel:    channel,
		Properties: props,
		Metadata:   meta,
		Body:       body,
		sender:     sender,
	}
}

// Ack sends Basic.Ack{delivery_tag, multiple}. It fails ErrAlreadyDisposed if
// the message was already ack'd or rejected.
func (m *Message) Ack(multiple bool) error {
	if !atomic.CompareAndSwapUint32(&m.disposed, 0, 1) {
		return ErrAlreadyDisposed
	}
	return m.sender.Send(m.Channel, frame.BasicAck{
		DeliveryTag: m.Metadata.DeliveryTag,
		Multiple:    multiple,
	})
}

// Reject sends Basic.Reject{delivery_tag, requeue}. It fails
// ErrAlreadyDisposed if the message was already ack'd or rejected.
func (m *Message) Reject(requeue bool) error {
	if !atomic.CompareAndSwapUint32(&m.disposed, 0, 1) {
		return ErrAlreadyDisposed
	}
	return m.sender.Send(m.Channel, frame.BasicReject{
		DeliveryTag: m.Metadata.DeliveryTag,
		Requeue:     requeue,
	})
}
