// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package chanmgr

import (
	"errors"
	"testing"

	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/message"
)

type nopSender struct{}

func (nopSender) Send(int16, frame.Method) error { return nil }

func TestWaiterFIFOOrder(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	a := mgr.RegisterWaiter(1)
	b := mgr.RegisterWaiter(1)

	got, err := mgr.TakeWaiter(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != a {
		t.Fatal("expected FIFO head to be the first-registered waiter")
	}

	got, err = mgr.TakeWaiter(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != b {
		t.Fatal("expected FIFO head to advance to the second-registered waiter")
	}

	if _, err := mgr.TakeWaiter(1); !errors.Is(err, ErrNoWaiter) {
		t.Fatalf("expected ErrNoWaiter on empty FIFO, got %v", err)
	}
}

func TestBeginContentRejectsReentry(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	if err := mgr.RegisterChannel(1, make(chan frame.Frame, 1)); err != nil {
		t.Fatal(err)
	}

	if err := mgr.BeginContent(1, frame.BasicDeliver{ConsumerTag: "c1"}); err != nil {
		t.Fatal(err)
	}

	err := mgr.BeginContent(1, frame.BasicDeliver{ConsumerTag: "c1"})
	var violation *ProtocolViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ProtocolViolationError, got %v", err)
	}
	if violation.State != "WithMethod" || violation.Event != "begin_content" {
		t.Fatalf("unexpected violation detail: %+v", violation)
	}
}

func TestAttachHeaderRequiresWithMethod(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	if err := mgr.RegisterChannel(1, make(chan frame.Frame, 1)); err != nil {
		t.Fatal(err)
	}

	err := mgr.AttachHeader(1, frame.ContentHeader{})
	var violation *ProtocolViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ProtocolViolationError, got %v", err)
	}
	if violation.State != "Empty" {
		t.Fatalf("expected Empty state, got %s", violation.State)
	}
}

func TestAppendBodyCompletesDeliveryToConsumer(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	if err := mgr.RegisterChannel(1, make(chan frame.Frame, 1)); err != nil {
		t.Fatal(err)
	}
	sink := make(chan *message.Message, 1)
	mgr.RegisterConsumer(1, "c1", sink)

	deliver := frame.BasicDeliver{ConsumerTag: "c1", DeliveryTag: 1, Exchange: "ex", RoutingKey: "rk"}
	if err := mgr.BeginContent(1, deliver); err != nil {
		t.Fatal(err)
	}
	header := frame.ContentHeader{BodyLength: 5, Properties: frame.Properties{HasContentType: true, ContentType: "text/plain"}}
	if err := mgr.AttachHeader(1, header); err != nil {
		t.Fatal(err)
	}
	if err := mgr.AppendBody(1, []byte("hel")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-sink:
		t.Fatal("message dispatched before body complete")
	default:
	}

	if err := mgr.AppendBody(1, []byte("lo")); err != nil {
		t.Fatal(err)
	}

	msg := <-sink
	if string(msg.Body) != "hello" {
		t.Fatalf("body mismatch: %q", msg.Body)
	}
	if msg.Metadata.DeliveryTag != 1 || msg.Metadata.Exchange != "ex" {
		t.Fatalf("metadata mismatch: %+v", msg.Metadata)
	}
	if !msg.Properties.HasContentType || msg.Properties.ContentType != "text/plain" {
		t.Fatalf("properties not carried through: %+v", msg.Properties)
	}
}

func TestAppendBodyRejectsWithoutHeader(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	if err := mgr.RegisterChannel(1, make(chan frame.Frame, 1)); err != nil {
		t.Fatal(err)
	}

	err := mgr.AppendBody(1, []byte("x"))
	var violation *ProtocolViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ProtocolViolationError, got %v", err)
	}
}

func TestRegisterChannelEnforcesLimit(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 1)
	if err := mgr.RegisterChannel(1, make(chan frame.Frame, 1)); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RegisterChannel(2, make(chan frame.Frame, 1)); !errors.Is(err, ErrChannelLimitExceeded) {
		t.Fatalf("expected ErrChannelLimitExceeded, got %v", err)
	}

	mgr.DeregisterChannel(1)
	if err := mgr.RegisterChannel(2, make(chan frame.Frame, 1)); err != nil {
		t.Fatalf("expected slot to be reusable after deregister, got %v", err)
	}
}

func TestDeregisterChannelClearsState(t *testing.T) {
	t.Parallel()

	mgr := New(nopSender{}, 2048)
	inbox := make(chan frame.Frame, 1)
	if err := mgr.RegisterChannel(1, inbox); err != nil {
		t.Fatal(err)
	}
	mgr.RegisterWaiter(1)

	mgr.DeregisterChannel(1)

	if _, ok := mgr.Inbox(1); ok {
		t.Fatal("expected inbox to be removed")
	}
	if _, err := mgr.TakeWaiter(1); !errors.Is(err, ErrNoWaiter) {
		t.Fatal("expected waiters to be cleared")
	}
}
