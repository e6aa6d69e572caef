// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package chanmgr implements the Channel Manager: process-local state owned
// exclusively by the Connection Orchestrator's loop task. No method on
// Manager is safe to call from more than one goroutine at a time; the
// Connection loop is the sole caller.
package chanmgr

import (
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/message"
)

// ErrNoWaiter reports that TakeWaiter was called against an empty FIFO.
var ErrNoWaiter = errors.New("chanmgr: no waiter registered")

// ErrChannelLimitExceeded reports that RegisterChannel was called while
// max_channels channel slots were already allocated.
var ErrChannelLimitExceeded = errors.New("chanmgr: channel limit exceeded")

// ProtocolViolationError reports a content-assembly transition outside the
// legal set: begin content, attach header, append body.
type ProtocolViolationError struct {
	Channel int16
	State   string
	Event   string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("chanmgr: protocol violation on channel %d: state=%s event=%s", e.Channel, e.State, e.Event)
}

type assemblyState int

const (
	stateEmpty assemblyState = iota
	stateWithMethod
	stateWithHeader
	stateWithBody
)

func (s assemblyState) String() string {
	switch s {
	case stateEmpty:
		return "Empty"
	case stateWithMethod:
		return "WithMethod"
	case stateWithHeader:
		return "WithHeader"
	case stateWithBody:
		return "WithBody"
	default:
		return "Unknown"
	}
}

type assemblySlot struct {
	state  assemblyState
	method frame.Method
	header frame.ContentHeader
	body   []byte
}

// Manager holds the Channel Manager's three maps and one assembly slot per
// channel.
type Manager struct {
	waiters   map[int16][]chan frame.Frame
	inboxes   map[int16]chan<- frame.Frame
	consumers map[int16]map[string]chan *message.Message
	assembly  map[int16]*assemblySlot

	sender message.Sender
	slots  *semaphore.Weighted
}

// New constructs an empty Manager bounded to maxChannels lazily-allocated
// channel slots. sender is handed to every assembled Message so Ack/Reject
// can address the owning channel.
func New(sender message.Sender, maxChannels int64) *Manager {
	return &Manager{
		waiters:   make(map[int16][]chan frame.Frame),
		inboxes:   make(map[int16]chan<- frame.Frame),
		consumers: make(map[int16]map[string]chan *message.Message),
		assembly:  make(map[int16]*assemblySlot),
		sender:    sender,
		slots:     semaphore.NewWeighted(maxChannels),
	}
}

// RegisterWaiter pushes a new single-use reply slot to the FIFO tail for
// channel and returns it.
func (m *Manager) RegisterWaiter(channel int16) chan frame.Frame {
	slot := make(chan frame.Frame, 1)
	m.waiters[channel] = append(m.waiters[channel], slot)
	return slot
}

// TakeWaiter pops the FIFO head for channel. It fails ErrNoWaiter if none are
// registered.
func (m *Manager) TakeWaiter(channel int16) (chan frame.Frame, error) {
	q := m.waiters[channel]
	if len(q) == 0 {
		return nil, ErrNoWaiter
	}
	slot := q[0]
	m.waiters[channel] = q[1:]
	return slot, nil
}

// RegisterChannel records the inbox used to deliver asynchronous
// channel-level methods (e.g. Channel.Flow) to a facade. It
// fails ErrChannelLimitExceeded if max_channels slots are already in use.
func (m *Manager) RegisterChannel(id int16, inbox chan<- frame.Frame) error {
	if !m.slots.TryAcquire(1) {
		return ErrChannelLimitExceeded
	}
	m.inboxes[id] = inbox
	m.assembly[id] = &assemblySlot{}
	return nil
}

// DeregisterChannel tears down all state associated with a closed channel:
// every outstanding waiter is closed (unblocking any facade awaiting a
// reply with ConnectionClosed/ChannelClosed), every consumer sink
// is closed, the async inbox is closed, and the channel's slot is released.
// Safe to call more than once; the second call is a no-op.
func (m *Manager) DeregisterChannel(id int16) {
	inbox, ok := m.inboxes[id]
	if !ok {
		return
	}
	for _, slot := range m.waiters[id] {
		close(slot)
	}
	delete(m.waiters, id)

	for _, sink := range m.consumers[id] {
		close(sink)
	}
	delete(m.consumers, id)

	close(inbox)
	delete(m.inboxes, id)
	delete(m.assembly, id)
	m.slots.Release(1)
}

// CloseAll tears down every registered channel on connection teardown;
// every outstanding waiter and consumer stream observes it.
func (m *Manager) CloseAll() {
	for id := range m.inboxes {
		m.DeregisterChannel(id)
	}
}

// Inbox returns the registered async inbox for channel, if any.
func (m *Manager) Inbox(channel int16) (chan<- frame.Frame, bool) {
	inbox, ok := m.inboxes[channel]
	return inbox, ok
}

// RegisterConsumer binds a consumer tag on a channel to the sink that
// receives reassembled messages for Basic.Deliver.
func (m *Manager) RegisterConsumer(channel int16, tag string, sink chan *message.Message) {
	byTag, ok := m.consumers[channel]
	if !ok {
		byTag = make(map[string]chan *message.Message)
		m.consumers[channel] = byTag
	}
	byTag[tag] = sink
}

// DeregisterConsumer removes a consumer tag's binding, closing its sink.
func (m *Manager) DeregisterConsumer(channel int16, tag string) {
	byTag, ok := m.consumers[channel]
	if !ok {
		return
	}
	if sink, ok := byTag[tag]; ok {
		close(sink)
		delete(byTag, tag)
	}
}

// BeginContent sets channel's assembly slot to WithMethod(method). It fails
// ProtocolViolationError if a prior assembly is not Empty.
func (m *Manager) BeginContent(channel int16, method frame.Method) error {
	slot := m.assemblySlotFor(channel)
	if slot.state != stateEmpty {
		return &ProtocolViolationError{Channel: channel, State: slot.state.String(), Event: "begin_content"}
	}
	slot.method = method
	slot.header = frame.ContentHeader{}
	slot.body = nil
	slot.state = stateWithMethod
	return nil
}

// AttachHeader transitions channel's assembly slot from WithMethod to
// WithHeader. It fails ProtocolViolationError unless the slot is WithMethod.
func (m *Manager) AttachHeader(channel int16, header frame.ContentHeader) error {
	slot := m.assemblySlotFor(channel)
	if slot.state != stateWithMethod {
		return &ProtocolViolationError{Channel: channel, State: slot.state.String(), Event: "attach_header"}
	}
	slot.header = header
	slot.state = stateWithHeader
	return nil
}

// AppendBody appends b to channel's in-flight body. It fails
// ProtocolViolationError unless the slot is WithHeader or WithBody. Once the
// accumulated length reaches the declared body length, it forms a Message
// and dispatches it to the consumer registered for the method, then resets
// the slot to Empty.
func (m *Manager) AppendBody(channel int16, b []byte) error {
	slot := m.assemblySlotFor(channel)
	if slot.state != stateWithHeader && slot.state != stateWithBody {
		return &ProtocolViolationError{Channel: channel, State: slot.state.String(), Event: "append_body"}
	}
	slot.body = append(slot.body, b...)
	slot.state = stateWithBody
	if int64(len(slot.body)) < slot.header.BodyLength {
		return nil
	}

	msg := message.New(channel, slot.header.Properties, metadataFor(slot.method), slot.body, m.sender)
	m.dispatch(channel, slot.method, msg)

	slot.state = stateEmpty
	slot.method = nil
	slot.header = frame.ContentHeader{}
	slot.body = nil
	return nil
}

func (m *Manager) assemblySlotFor(channel int16) *assemblySlot {
	slot, ok := m.assembly[channel]
	if !ok {
		slot = &assemblySlot{}
		m.assembly[channel] = slot
	}
	return slot
}

func metadataFor(method frame.Method) message.Metadata {
	switch v := method.(type) {
	case frame.BasicDeliver:
		return message.Metadata{
			ConsumerTag: v.ConsumerTag,
			DeliveryTag: v.DeliveryTag,
			Redelivered: v.Redelivered,
			Exchange:    v.Exchange,
			RoutingKey:  v.RoutingKey,
		}
	default:
		return message.Metadata{}
	}
}

func (m *Manager) dispatch(channel int16, method frame.Method, msg *message.Message) {
	switch v := method.(type) {
	case frame.BasicDeliver:
		if sink, ok := m.consumers[channel][v.ConsumerTag]; ok {
			sink <- msg
		}
	}
}
