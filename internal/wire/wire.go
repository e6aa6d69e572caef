// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Table is a property-table: an ordered-on-the-wire, heterogeneous map of
// short-string keys to tagged values. Supported value types are the closed
// set of the AMQP 0-9-1 field-table grammar: bool, byte (uint8), int16,
// uint16, int32, uint32, int64, uint64, float32, float64, string (encoded
// as long-string by default), ShortString (forces the short-string tag),
// and nested Table.
type Table map[string]interface{}

// ShortString forces a table value to be encoded with the short-string tag
// ('s') instead of the long-string tag ('S') used for plain Go strings.
type ShortString string

// Field-table tag bytes, per the wire format's closed tag alphabet.
const (
	TagBool        byte = 't'
	TagByte        byte = 'b'
	TagShort       byte = 'U'
	TagUshort      byte = 'u'
	TagInt         byte = 'I'
	TagUint        byte = 'i'
	TagLong        byte = 'L'
	TagUlong       byte = 'l'
	TagFloat       byte = 'f'
	TagDouble      byte = 'd'
	TagShortString byte = 's'
	TagLongString  byte = 'S'
	TagTable       byte = 'F'
)

const maxShortStringLen = 255

// --- encoding ---

func PutBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func PutByte(buf *bytes.Buffer, v byte) { buf.WriteByte(v) }

func PutShort(buf *bytes.Buffer, v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func PutUshort(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func PutInt(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func PutUint(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func PutLong(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func PutUlong(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func PutFloat(buf *bytes.Buffer, v float32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
}

func PutDouble(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

// PutShortString writes a u8-length-prefixed UTF-8 string. Values longer
// than 255 bytes are rejected with ErrStringTooLong.
func PutShortString(buf *bytes.Buffer, s string) error {
	if len(s) > maxShortStringLen {
		return ErrStringTooLong
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

// PutLongString writes a u32-length-prefixed UTF-8 string.
func PutLongString(buf *bytes.Buffer, s string) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(s)))
	buf.Write(b[:])
	buf.WriteString(s)
}

// PutTable writes a property-table: a u32 byte-length prefix followed by the
// (short-string key, tag byte, value) sequence. Map iteration order is not
// wire-stable; callers that need deterministic frames for tests should
// compare decoded Tables, not raw bytes.
func PutTable(buf *bytes.Buffer, t Table) error {
	var body bytes.Buffer
	for k, v := range t {
		if err := PutShortString(&body, k); err != nil {
			return err
		}
		if err := putTaggedValue(&body, v); err != nil {
			return err
		}
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(body.Len()))
	buf.Write(lenBuf[:])
	buf.Write(body.Bytes())
	return nil
}

func putTaggedValue(buf *bytes.Buffer, v interface{}) error {
	switch x := v.(type) {
	case bool:
		buf.WriteByte(TagBool)
		PutBool(buf, x)
	case byte:
		buf.WriteByte(TagByte)
		PutByte(buf, x)
	case int16:
		buf.WriteByte(TagShort)
		PutShort(buf, x)
	case uint16:
		buf.WriteByte(TagUshort)
		PutUshort(buf, x)
	case int32:
		buf.WriteByte(TagInt)
		PutInt(buf, x)
	case uint32:
		buf.WriteByte(TagUint)
		PutUint(buf, x)
	case int64:
		buf.WriteByte(TagLong)
		PutLong(buf, x)
	case uint64:
		buf.WriteByte(TagUlong)
		PutUlong(buf, x)
	case float32:
		buf.WriteByte(TagFloat)
		PutFloat(buf, x)
	case float64:
		buf.WriteByte(TagDouble)
		PutDouble(buf, x)
	case ShortString:
		buf.WriteByte(TagShortString)
		return PutShortString(buf, string(x))
	case string:
		buf.WriteByte(TagLongString)
		PutLongString(buf, x)
	case Table:
		buf.WriteByte(TagTable)
		return PutTable(buf, x)
	default:
		return fmt.Errorf("wire: unsupported field-table value type %T", v)
	}
	return nil
}

// --- decoding ---

// Decoder is a cursor over a byte slice used to decode wire primitives in
// sequence. It never copies the underlying slice itself; short-string and
// long-string decodes copy their bytes into new Go strings, so decoded
// values do not alias it.
type Decoder struct {
	b   []byte
	off int
}

func NewDecoder(b []byte) *Decoder { return &Decoder{b: b} }

// Len reports the number of unread bytes.
func (d *Decoder) Len() int { return len(d.b) - d.off }

func (d *Decoder) need(n int) error {
	if d.Len() < n {
		return ErrShortBuffer
	}
	return nil
}

func (d *Decoder) Bool() (bool, error) {
	if err := d.need(1); err != nil {
		return false, err
	}
	v := d.b[d.off] != 0
	d.off++
	return v, nil
}

func (d *Decoder) Byte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.b[d.off]
	d.off++
	return v, nil
}

func (d *Decoder) Short() (int16, error) {
	v, err := d.Ushort()
	return int16(v), err
}

func (d *Decoder) Ushort() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.b[d.off:])
	d.off += 2
	return v, nil
}

func (d *Decoder) Int() (int32, error) {
	v, err := d.Uint()
	return int32(v), err
}

func (d *Decoder) Uint() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.b[d.off:])
	d.off += 4
	return v, nil
}

func (d *Decoder) Long() (int64, error) {
	v, err := d.Ulong()
	return int64(v), err
}

func (d *Decoder) Ulong() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.b[d.off:])
	d.off += 8
	return v, nil
}

func (d *Decoder) Float() (float32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(d.b[d.off:]))
	d.off += 4
	return v, nil
}

func (d *Decoder) Double() (float64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.BigEndian.Uint64(d.b[d.off:]))
	d.off += 8
	return v, nil
}

func (d *Decoder) ShortString() (string, error) {
	if err := d.need(1); err != nil {
		return "", err
	}
	n := int(d.b[d.off])
	d.off++
	if err := d.need(n); err != nil {
		return "", err
	}
	s := d.b[d.off : d.off+n]
	d.off += n
	if !utf8.Valid(s) {
		return "", ErrInvalidUTF8
	}
	return string(s), nil
}

func (d *Decoder) LongString() (string, error) {
	if err := d.need(4); err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint32(d.b[d.off:]))
	d.off += 4
	if err := d.need(n); err != nil {
		return "", err
	}
	s := d.b[d.off : d.off+n]
	d.off += n
	if !utf8.Valid(s) {
		return "", ErrInvalidUTF8
	}
	return string(s), nil
}

// Table decodes a property-table: a u32 byte-length prefix followed by the
// declared number of bytes of (short-string key, tag byte, value) entries.
// Decoding must consume exactly the declared length; any shortfall or
// trailing byte is ErrMalformedTable.
func (d *Decoder) Table() (Table, error) {
	if err := d.need(4); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint32(d.b[d.off:]))
	d.off += 4
	if err := d.need(n); err != nil {
		return nil, ErrMalformedTable
	}
	sub := NewDecoder(d.b[d.off : d.off+n])
	d.off += n

	t := make(Table)
	for sub.Len() > 0 {
		key, err := sub.ShortString()
		if err != nil {
			if errors.Is(err, ErrShortBuffer) {
				return nil, ErrMalformedTable
			}
			return nil, err
		}
		tag, err := sub.Byte()
		if err != nil {
			return nil, ErrMalformedTable
		}
		v, err := sub.taggedValue(tag)
		if err != nil {
			if errors.Is(err, ErrShortBuffer) {
				return nil, ErrMalformedTable
			}
			return nil, err
		}
		t[key] = v
	}
	return t, nil
}

func (d *Decoder) taggedValue(tag byte) (interface{}, error) {
	switch tag {
	case TagBool:
		return d.Bool()
	case TagByte:
		return d.Byte()
	case TagShort:
		return d.Short()
	case TagUshort:
		return d.Ushort()
	case TagInt:
		return d.Int()
	case TagUint:
		return d.Uint()
	case TagLong:
		return d.Long()
	case TagUlong:
		return d.Ulong()
	case TagFloat:
		return d.Float()
	case TagDouble:
		return d.Double()
	case TagShortString:
		s, err := d.ShortString()
		return ShortString(s), err
	case TagLongString:
		return d.LongString()
	case TagTable:
		return d.Table()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
}
