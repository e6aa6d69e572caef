// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

// Property-flag bits, high bit first. Each set bit means its field
// is present in the content header in this declared order.
const (
	flagContentType byte = iota
	flagContentEncoding
	flagHeaders
	flagDeliveryMode
	flagPriority
	flagCorrelationID
	flagReplyTo
	flagExpiration
	flagMessageID
	flagTimestamp
	flagType
	flagUserID
	flagAppID
	numPropertyBits
)

func propertyBit(flags uint16, idx byte) bool {
	return flags&(1<<(15-idx)) != 0
}

func setPropertyBit(flags *uint16, idx byte) {
	*flags |= 1 << (15 - idx)
}

// Properties is the content-header property-list.
type Properties struct {
	ContentType     string
	ContentEncoding string
	Headers         wire.Table
	DeliveryMode    byte // 1=non-persistent, 2=persistent
	Priority        byte
	CorrelationID   string
	ReplyTo         string
	Expiration      string
	MessageID       string
	Timestamp       uint64 // seconds
	Type            string
	UserID          string
	AppID           string

	HasContentType     bool
	HasContentEncoding bool
	HasHeaders         bool
	HasDeliveryMode    bool
	HasPriority        bool
	HasCorrelationID   bool
	HasReplyTo         bool
	HasExpiration      bool
	HasMessageID       bool
	HasTimestamp       bool
	HasType            bool
	HasUserID          bool
	HasAppID           bool
}

func (p Properties) flags() uint16 {
	var f uint16
	if p.HasContentType {
		setPropertyBit(&f, flagContentType)
	}
	if p.HasContentEncoding {
		setPropertyBit(&f, flagContentEncoding)
	}
	if p.HasHeaders {
		setPropertyBit(&f, flagHeaders)
	}
	if p.HasDeliveryMode {
		setPropertyBit(&f, flagDeliveryMode)
	}
	if p.HasPriority {
		setPropertyBit(&f, flagPriority)
	}
	if p.HasCorrelationID {
		setPropertyBit(&f, flagCorrelationID)
	}
	if p.HasReplyTo {
		setPropertyBit(&f, flagReplyTo)
	}
	if p.HasExpiration {
		setPropertyBit(&f, flagExpiration)
	}
	if p.HasMessageID {
		setPropertyBit(&f, flagMessageID)
	}
	if p.HasTimestamp {
		setPropertyBit(&f, flagTimestamp)
	}
	if p.HasType {
		setPropertyBit(&f, flagType)
	}
	if p.HasUserID {
		setPropertyBit(&f, flagUserID)
	}
	if p.HasAppID {
		setPropertyBit(&f, flagAppID)
	}
	return f
}

func (p Properties) write(buf *bytes.Buffer) {
	if p.HasContentType {
		wire.PutLongString(buf, p.ContentType)
	}
	if p.HasContentEncoding {
		wire.PutLongString(buf, p.ContentEncoding)
	}
	if p.HasHeaders {
		_ = wire.PutTable(buf, p.Headers)
	}
	if p.HasDeliveryMode {
		wire.PutByte(buf, p.DeliveryMode)
	}
	if p.HasPriority {
		wire.PutByte(buf, p.Priority)
	}
	if p.HasCorrelationID {
		wire.PutLongString(buf, p.CorrelationID)
	}
	if p.HasReplyTo {
		wire.PutLongString(buf, p.ReplyTo)
	}
	if p.HasExpiration {
		wire.PutLongString(buf, p.Expiration)
	}
	if p.HasMessageID {
		wire.PutLongString(buf, p.MessageID)
	}
	if p.HasTimestamp {
		wire.PutUlong(buf, p.Timestamp)
	}
	if p.HasType {
		wire.PutLongString(buf, p.Type)
	}
	if p.HasUserID {
		wire.PutLongString(buf, p.UserID)
	}
	if p.HasAppID {
		wire.PutLongString(buf, p.AppID)
	}
}

func decodeProperties(flags uint16, d *wire.Decoder) (Properties, error) {
	var p Properties
	var err error
	if propertyBit(flags, flagContentType) {
		p.HasContentType = true
		if p.ContentType, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagContentEncoding) {
		p.HasContentEncoding = true
		if p.ContentEncoding, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagHeaders) {
		p.HasHeaders = true
		if p.Headers, err = d.Table(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagDeliveryMode) {
		p.HasDeliveryMode = true
		if p.DeliveryMode, err = d.Byte(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagPriority) {
		p.HasPriority = true
		if p.Priority, err = d.Byte(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagCorrelationID) {
		p.HasCorrelationID = true
		if p.CorrelationID, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagReplyTo) {
		p.HasReplyTo = true
		if p.ReplyTo, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagExpiration) {
		p.HasExpiration = true
		if p.Expiration, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagMessageID) {
		p.HasMessageID = true
		if p.MessageID, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagTimestamp) {
		p.HasTimestamp = true
		if p.Timestamp, err = d.Ulong(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagType) {
		p.HasType = true
		if p.Type, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagUserID) {
		p.HasUserID = true
		if p.UserID, err = d.LongString(); err != nil {
			return p, err
		}
	}
	if propertyBit(flags, flagAppID) {
		p.HasAppID = true
		if p.AppID, err = d.LongString(); err != nil {
			return p, err
		}
	}
	return p, nil
}

// ContentHeader is the content-header frame payload:
// {class_id, weight (reserved, 0), body_length, property-flags, property-fields...}.
type ContentHeader struct {
	ClassID    int16
	Weight     int16
	BodyLength int64
	Properties Properties
}

// EncodeContentHeader serializes a content-header frame payload.
func EncodeContentHeader(h ContentHeader) []byte {
	var buf bytes.Buffer
	wire.PutShort(&buf, h.ClassID)
	wire.PutShort(&buf, h.Weight)
	wire.PutLong(&buf, h.BodyLength)
	wire.PutUshort(&buf, h.Properties.flags())
	h.Properties.write(&buf)
	return buf.Bytes()
}

// DecodeContentHeader parses a content-header frame payload.
func DecodeContentHeader(payload []byte) (ContentHeader, error) {
	d := wire.NewDecoder(payload)
	var h ContentHeader
	var err error
	if h.ClassID, err = d.Short(); err != nil {
		return h, err
	}
	if h.Weight, err = d.Short(); err != nil {
		return h, err
	}
	if h.BodyLength, err = d.Long(); err != nil {
		return h, err
	}
	flags, err := d.Ushort()
	if err != nil {
		return h, err
	}
	if h.Properties, err = decodeProperties(flags, d); err != nil {
		return h, err
	}
	return h, nil
}
