// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"reflect"
	"testing"

	"github.com/amqp091/amqp091-go-core/internal/wire"
)

func TestMethodRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []Method{
		ConnectionStart{VersionMajor: 0, VersionMinor: 9, ServerProperties: wire.Table{"product": "amqp091-go-core"}, Mechanisms: "PLAIN", Locales: "en_US"},
		ConnectionStartOk{ClientProperties: wire.Table{"platform": "Go"}, Mechanism: "PLAIN", Response: "\x00guest\x00guest", Locale: "en_US"},
		ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		ConnectionTuneOk{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
		ConnectionOpen{VHost: "/", Reserved1: "", Reserved2: 0},
		ConnectionOpenOk{Reserved1: ""},
		ConnectionClose{ReplyCode: 200, ReplyText: "bye", FailingClassID: 0, FailingMethodID: 0},
		ConnectionCloseOk{},
		ChannelOpen{Reserved1: ""},
		ChannelOpenOk{Reserved1: ""},
		ChannelFlow{Active: true},
		ChannelFlowOk{Active: false},
		ChannelClose{ReplyCode: 320, ReplyText: "closed", FailingClassID: 60, FailingMethodID: 40},
		ChannelCloseOk{},
		ExchangeDeclare{Exchange: "ex", Type: "direct", Flags: ExchangeFlagDurable, Arguments: wire.Table{}},
		ExchangeDeclareOk{},
		ExchangeDelete{Exchange: "ex", Flags: ExchangeDeleteFlagIfUnused},
		ExchangeDeleteOk{},
		QueueDeclare{Queue: "q1", Flags: QueueFlagDurable, Arguments: wire.Table{}},
		QueueDeclareOk{Queue: "q1", MessageCount: 5, ConsumerCount: 1},
		QueueBind{Queue: "q1", Exchange: "ex", RoutingKey: "rk", Arguments: wire.Table{}},
		QueueBindOk{},
		QueueUnbind{Queue: "q1", Exchange: "ex", RoutingKey: "rk", Arguments: wire.Table{}},
		QueueUnbindOk{},
		BasicConsume{Queue: "q1", ConsumerTag: "c1", Flags: 0, Arguments: wire.Table{}},
		BasicConsumeOk{ConsumerTag: "c1"},
		BasicPublish{Exchange: "ex", RoutingKey: "rk", Flags: 0},
		BasicDeliver{ConsumerTag: "c1", DeliveryTag: 42, Redelivered: false, Exchange: "ex", RoutingKey: "rk"},
		BasicAck{DeliveryTag: 7, Multiple: true},
		BasicReject{DeliveryTag: 7, Requeue: true},
	}

	for _, m := range cases {
		args := EncodeMethod(m)
		d := wire.NewDecoder(args)
		classID, err := d.Short()
		if err != nil {
			t.Fatal(err)
		}
		methodID, err := d.Short()
		if err != nil {
			t.Fatal(err)
		}
		if classID != m.ClassID() || methodID != m.MethodID() {
			t.Fatalf("%T: class/method mismatch: got (%d,%d) want (%d,%d)", m, classID, methodID, m.ClassID(), m.MethodID())
		}

		decoded, err := DecodeMethod(classID, methodID, args[4:])
		if err != nil {
			t.Fatalf("%T: decode error: %v", m, err)
		}
		if !reflect.DeepEqual(decoded, m) {
			t.Fatalf("%T: round trip mismatch: got %+v want %+v", m, decoded, m)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	t.Parallel()
	_, err := DecodeMethod(999, 999, nil)
	var target *UnknownMethodError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnknownMethodError, got %v", err)
	}
}

func TestContentBearingClassification(t *testing.T) {
	t.Parallel()

	if !IsContentBearing(ClassBasic, MethodBasicDeliver) {
		t.Fatal("Basic.Deliver should be content-bearing")
	}
	if IsContentBearing(ClassBasic, MethodBasicPublish) {
		t.Fatal("Basic.Publish (outbound) is not classified content-bearing; the client drives its own publish sequence")
	}
	if IsContentBearing(ClassConnection, MethodConnectionStart) {
		t.Fatal("Connection.Start is not content-bearing")
	}
}

func TestContentHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	h := ContentHeader{
		ClassID:    ClassBasic,
		Weight:     0,
		BodyLength: 11,
		Properties: Properties{
			HasContentType:  true,
			ContentType:     "text/plain",
			HasDeliveryMode: true,
			DeliveryMode:    2,
			HasTimestamp:    true,
			Timestamp:       1700000000,
		},
	}

	encoded := EncodeContentHeader(h)
	decoded, err := DecodeContentHeader(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.ClassID != h.ClassID || decoded.BodyLength != h.BodyLength {
		t.Fatalf("header mismatch: %+v", decoded)
	}
	if decoded.Properties.ContentType != "text/plain" || !decoded.Properties.HasContentType {
		t.Fatalf("content-type not round-tripped: %+v", decoded.Properties)
	}
	if decoded.Properties.HasCorrelationID {
		t.Fatal("unset property flag should not decode as present")
	}
}
