// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

// Method is implemented by every typed (class, method) struct in the
// catalog. Write appends the method's argument bytes (everything after
// class_id/method_id) to buf in declaration order.
type Method interface {
	ClassID() int16
	MethodID() int16
	Write(buf *bytes.Buffer)
}

// Class/method ids of the supported catalog.
const (
	ClassConnection int16 = 10
	ClassChannel    int16 = 20
	ClassExchange   int16 = 40
	ClassQueue      int16 = 50
	ClassBasic      int16 = 60

	MethodConnectionStart   int16 = 10
	MethodConnectionStartOk int16 = 11
	MethodConnectionTune    int16 = 30
	MethodConnectionTuneOk  int16 = 31
	MethodConnectionOpen    int16 = 40
	MethodConnectionOpenOk  int16 = 41
	MethodConnectionClose   int16 = 50
	MethodConnectionCloseOk int16 = 51

	MethodChannelOpen    int16 = 10
	MethodChannelOpenOk  int16 = 11
	MethodChannelFlow    int16 = 20
	MethodChannelFlowOk  int16 = 21
	MethodChannelClose   int16 = 40
	MethodChannelCloseOk int16 = 41

	MethodExchangeDeclare   int16 = 10
	MethodExchangeDeclareOk int16 = 11
	MethodExchangeDelete    int16 = 20
	MethodExchangeDeleteOk  int16 = 21

	MethodQueueDeclare   int16 = 10
	MethodQueueDeclareOk int16 = 11
	MethodQueueBind      int16 = 20
	MethodQueueBindOk    int16 = 21
	MethodQueueUnbind    int16 = 50
	MethodQueueUnbindOk  int16 = 51

	MethodBasicConsume   int16 = 20
	MethodBasicConsumeOk int16 = 21
	MethodBasicPublish   int16 = 40
	MethodBasicDeliver   int16 = 60
	MethodBasicAck       int16 = 80
	MethodBasicReject    int16 = 90
)

// classMethod is the catalog lookup key.
type classMethod struct{ class, method int16 }

// methodSpec describes one catalog entry: the decoder for its argument bytes
// and whether the method is content-bearing, i.e. is immediately followed by
// a content-header and one or more content-body frames on the same channel.
type methodSpec struct {
	decode         func(d *wire.Decoder) (Method, error)
	contentBearing bool
}

var catalog = map[classMethod]methodSpec{}

func register(class, method int16, contentBearing bool, decode func(d *wire.Decoder) (Method, error)) {
	catalog[classMethod{class, method}] = methodSpec{decode: decode, contentBearing: contentBearing}
}

// IsContentBearing reports whether the catalog classifies (class, method) as
// a content-bearing method. Unknown pairs report false.
func IsContentBearing(classID, methodID int16) bool {
	spec, ok := catalog[classMethod{classID, methodID}]
	return ok && spec.contentBearing
}

// DecodeMethod looks up (classID, methodID) in the closed catalog and
// decodes the argument bytes into the corresponding typed struct.
func DecodeMethod(classID, methodID int16, args []byte) (Method, error) {
	spec, ok := catalog[classMethod{classID, methodID}]
	if !ok {
		return nil, &UnknownMethodError{ClassID: classID, MethodID: methodID}
	}
	return spec.decode(wire.NewDecoder(args))
}

// EncodeMethod writes class_id, method_id, then m's field sequence, as one
// method-frame payload.
func EncodeMethod(m Method) []byte {
	var buf bytes.Buffer
	wire.PutShort(&buf, m.ClassID())
	wire.PutShort(&buf, m.MethodID())
	m.Write(&buf)
	return buf.Bytes()
}

// DecodeMethodFrame reads class_id and method_id off the front of a
// method-frame payload and decodes the rest via DecodeMethod.
func DecodeMethodFrame(payload []byte) (Method, error) {
	d := wire.NewDecoder(payload)
	classID, err := d.Short()
	if err != nil {
		return nil, err
	}
	methodID, err := d.Short()
	if err != nil {
		return nil, err
	}
	return DecodeMethod(classID, methodID, payload[4:])
}

func init() {
	register(ClassConnection, MethodConnectionStart, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionStart(d) })
	register(ClassConnection, MethodConnectionStartOk, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionStartOk(d) })
	register(ClassConnection, MethodConnectionTune, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionTune(d) })
	register(ClassConnection, MethodConnectionTuneOk, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionTuneOk(d) })
	register(ClassConnection, MethodConnectionOpen, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionOpen(d) })
	register(ClassConnection, MethodConnectionOpenOk, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionOpenOk(d) })
	register(ClassConnection, MethodConnectionClose, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionClose(d) })
	register(ClassConnection, MethodConnectionCloseOk, false, func(d *wire.Decoder) (Method, error) { return decodeConnectionCloseOk(d) })

	register(ClassChannel, MethodChannelOpen, false, func(d *wire.Decoder) (Method, error) { return decodeChannelOpen(d) })
	register(ClassChannel, MethodChannelOpenOk, false, func(d *wire.Decoder) (Method, error) { return decodeChannelOpenOk(d) })
	register(ClassChannel, MethodChannelFlow, false, func(d *wire.Decoder) (Method, error) { return decodeChannelFlow(d) })
	register(ClassChannel, MethodChannelFlowOk, false, func(d *wire.Decoder) (Method, error) { return decodeChannelFlowOk(d) })
	register(ClassChannel, MethodChannelClose, false, func(d *wire.Decoder) (Method, error) { return decodeChannelClose(d) })
	register(ClassChannel, MethodChannelCloseOk, false, func(d *wire.Decoder) (Method, error) { return decodeChannelCloseOk(d) })

	register(ClassExchange, MethodExchangeDeclare, false, func(d *wire.Decoder) (Method, error) { return decodeExchangeDeclare(d) })
	register(ClassExchange, MethodExchangeDeclareOk, false, func(d *wire.Decoder) (Method, error) { return decodeExchangeDeclareOk(d) })
	register(ClassExchange, MethodExchangeDelete, false, func(d *wire.Decoder) (Method, error) { return decodeExchangeDelete(d) })
	register(ClassExchange, MethodExchangeDeleteOk, false, func(d *wire.Decoder) (Method, error) { return decodeExchangeDeleteOk(d) })

	register(ClassQueue, MethodQueueDeclare, false, func(d *wire.Decoder) (Method, error) { return decodeQueueDeclare(d) })
	register(ClassQueue, MethodQueueDeclareOk, false, func(d *wire.Decoder) (Method, error) { return decodeQueueDeclareOk(d) })
	register(ClassQueue, MethodQueueBind, false, func(d *wire.Decoder) (Method, error) { return decodeQueueBind(d) })
	register(ClassQueue, MethodQueueBindOk, false, func(d *wire.Decoder) (Method, error) { return decodeQueueBindOk(d) })
	register(ClassQueue, MethodQueueUnbind, false, func(d *wire.Decoder) (Method, error) { return decodeQueueUnbind(d) })
	register(ClassQueue, MethodQueueUnbindOk, false, func(d *wire.Decoder) (Method, error) { return decodeQueueUnbindOk(d) })

	register(ClassBasic, MethodBasicConsume, false, func(d *wire.Decoder) (Method, error) { return decodeBasicConsume(d) })
	register(ClassBasic, MethodBasicConsumeOk, false, func(d *wire.Decoder) (Method, error) { return decodeBasicConsumeOk(d) })
	register(ClassBasic, MethodBasicPublish, false, func(d *wire.Decoder) (Method, error) { return decodeBasicPublish(d) })
	register(ClassBasic, MethodBasicDeliver, true, func(d *wire.Decoder) (Method, error) { return decodeBasicDeliver(d) })
	register(ClassBasic, MethodBasicAck, false, func(d *wire.Decoder) (Method, error) { return decodeBasicAck(d) })
	register(ClassBasic, MethodBasicReject, false, func(d *wire.Decoder) (Method, error) { return decodeBasicReject(d) })
}
