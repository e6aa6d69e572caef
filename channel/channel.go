// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package channel implements the channel facade. User-visible operations
// translate to the synchronous invocation protocol or to a fire-and-forget
// publish sequence.
package channel

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/message"
)

// frameOverheadReserve is subtracted from the negotiated frame-size ceiling
// when splitting a publish body into content-body frames: the 7-byte frame
// header plus the end byte.
const frameOverheadReserve = 8

// consumerSinkCapacity buffers deliveries so the Connection loop's dispatch
// to a consumer never blocks on a slow reader for long.
const consumerSinkCapacity = 64

// invoker is the subset of *connection.Connection a Channel needs: outbound
// sends, the command-submission surface chanmgr.Manager sits behind, and
// connection-lifetime observability. Defined here, not imported from
// connection, so tests can supply a double without an import cycle.
type invoker interface {
	AllocateChannelID() (int16, error)
	RegisterChannel(id int16, inbox chan<- frame.Frame) error
	DeregisterChannel(id int16) error
	RegisterWaiter(channel int16) (chan frame.Frame, error)
	RegisterConsumer(channel int16, tag string, sink chan *message.Message) error
	DeregisterConsumer(channel int16, tag string) error
	Send(channel int16, m frame.Method) error
	SendFrame(channel int16, fr frame.Frame) error
	MaxFrameSize() uint32
	Done() <-chan struct{}
}

// QueueInfo is Queue.DeclareOk's result.
type QueueInfo struct {
	Name          string
	MessageCount  uint32
	ConsumerCount uint32
}

// Channel is one multiplexed AMQP channel over a Connection.
type Channel struct {
	id    int16
	conn  invoker
	inbox chan frame.Frame

	// flowActive caches the channel's last-known flow state (1=active).
	// Written by both the caller's Flow and the inbox goroutine, so access
	// is atomic.
	flowActive uint32
}

// Open allocates a channel id, registers it with conn, and performs the
// Channel.Open/OpenOk handshake.
func Open(conn invoker) (*Channel, error) {
	id, err := conn.AllocateChannelID()
	if err != nil {
		return nil, err
	}
	inbox := make(chan frame.Frame, 8)
	if err := conn.RegisterChannel(id, inbox); err != nil {
		return nil, err
	}

	ch := &Channel{id: id, conn: conn, inbox: inbox, flowActive: 1}
	reply, err := ch.invokeSync(frame.ChannelOpen{})
	if err != nil {
		conn.DeregisterChannel(id)
		return nil, err
	}
	if _, ok := reply.(frame.ChannelOpenOk); !ok {
		conn.DeregisterChannel(id)
		return nil, unexpectedReply("Channel.OpenOk", reply)
	}
	go ch.serveInbox()
	return ch, nil
}

// serveInbox drains the asynchronous channel-level methods the connection
// loop routes to this facade. Server-initiated Channel.Flow is answered with
// FlowOk and recorded in the cached flow flag. The goroutine exits once the
// channel is deregistered and its inbox closed.
func (ch *Channel) serveInbox() {
	for fr := range ch.inbox {
		m, err := frame.DecodeMethodFrame(fr.Payload)
		if err != nil {
			continue
		}
		switch v := m.(type) {
		case frame.ChannelFlow:
			ch.setFlowState(v.Active)
			_ = ch.conn.Send(ch.id, frame.ChannelFlowOk{Active: v.Active})
		}
	}
}

func (ch *Channel) flowState() bool { return atomic.LoadUint32(&ch.flowActive) == 1 }

func (ch *Channel) setFlowState(active bool) {
	var v uint32
	if active {
		v = 1
	}
	atomic.StoreUint32(&ch.flowActive, v)
}

// ID returns the channel's wire id.
func (ch *Channel) ID() int16 { return ch.id }

// invokeSync drives the synchronous invocation contract: register a waiter,
// send the frame, await the reply.
func (ch *Channel) invokeSync(m frame.Method) (frame.Method, error) {
	waiter, err := ch.conn.RegisterWaiter(ch.id)
	if err != nil {
		return nil, ErrConnectionClosed
	}
	if err := ch.conn.Send(ch.id, m); err != nil {
		return nil, err
	}
	select {
	case fr, ok := <-waiter:
		if !ok {
			return nil, ErrChannelClosed
		}
		return frame.DecodeMethodFrame(fr.Payload)
	case <-ch.conn.Done():
		return nil, ErrConnectionClosed
	}
}

// ExchangeDeclare declares an exchange.
func (ch *Channel) ExchangeDeclare(name, kind string, opts ...ExchangeOption) error {
	o := defaultExchangeOptions
	for _, opt := range opts {
		opt(&o)
	}
	reply, err := ch.invokeSync(frame.ExchangeDeclare{
		Exchange:  name,
		Type:      kind,
		Flags:     exchangeFlags(o),
		Arguments: o.Arguments,
	})
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.ExchangeDeclareOk); !ok {
		return unexpectedReply("Exchange.DeclareOk", reply)
	}
	return nil
}

func exchangeFlags(o ExchangeOptions) byte {
	var f byte
	if o.Passive {
		f |= frame.ExchangeFlagPassive
	}
	if o.Durable {
		f |= frame.ExchangeFlagDurable
	}
	if o.AutoDelete {
		f |= frame.ExchangeFlagAutoDelete
	}
	if o.Internal {
		f |= frame.ExchangeFlagInternal
	}
	return f
}

// ExchangeDelete deletes an exchange. ifUnused restricts the deletion to
// exchanges with no bindings.
func (ch *Channel) ExchangeDelete(name string, ifUnused bool) error {
	var flags byte
	if ifUnused {
		flags |= frame.ExchangeDeleteFlagIfUnused
	}
	reply, err := ch.invokeSync(frame.ExchangeDelete{Exchange: name, Flags: flags})
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.ExchangeDeleteOk); !ok {
		return unexpectedReply("Exchange.DeleteOk", reply)
	}
	return nil
}

// QueueDeclare declares a queue.
func (ch *Channel) QueueDeclare(name string, opts ...QueueOption) (QueueInfo, error) {
	o := defaultQueueOptions
	for _, opt := range opts {
		opt(&o)
	}
	reply, err := ch.invokeSync(frame.QueueDeclare{
		Queue:     name,
		Flags:     queueFlags(o),
		Arguments: o.Arguments,
	})
	if err != nil {
		return QueueInfo{}, err
	}
	ok, match := reply.(frame.QueueDeclareOk)
	if !match {
		return QueueInfo{}, unexpectedReply("Queue.DeclareOk", reply)
	}
	return QueueInfo{Name: ok.Queue, MessageCount: ok.MessageCount, ConsumerCount: ok.ConsumerCount}, nil
}

func queueFlags(o QueueOptions) byte {
	var f byte
	if o.Passive {
		f |= frame.QueueFlagPassive
	}
	if o.Durable {
		f |= frame.QueueFlagDurable
	}
	if o.Exclusive {
		f |= frame.QueueFlagExclusive
	}
	if o.AutoDelete {
		f |= frame.QueueFlagAutoDelete
	}
	return f
}

// QueueBind binds queue to exchange under routingKey.
func (ch *Channel) QueueBind(queue, exchange, routingKey string, opts ...BindOption) error {
	o := defaultBindOptions
	for _, opt := range opts {
		opt(&o)
	}
	reply, err := ch.invokeSync(frame.QueueBind{
		Queue: queue, Exchange: exchange, RoutingKey: routingKey, Arguments: o.Arguments,
	})
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.QueueBindOk); !ok {
		return unexpectedReply("Queue.BindOk", reply)
	}
	return nil
}

// QueueUnbind removes a binding.
func (ch *Channel) QueueUnbind(queue, exchange, routingKey string, opts ...BindOption) error {
	o := defaultBindOptions
	for _, opt := range opts {
		opt(&o)
	}
	reply, err := ch.invokeSync(frame.QueueUnbind{
		Queue: queue, Exchange: exchange, RoutingKey: routingKey, Arguments: o.Arguments,
	})
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.QueueUnbindOk); !ok {
		return unexpectedReply("Queue.UnbindOk", reply)
	}
	return nil
}

// Consume starts a server-push subscription on queue and returns the stream
// of reassembled messages. A blank consumer tag is replaced with a
// client-generated uuid, per the supplemented client-chosen-tag behavior.
func (ch *Channel) Consume(queue string, opts ...ConsumeOption) (<-chan *message.Message, string, error) {
	o := defaultConsumeOptions
	for _, opt := range opts {
		opt(&o)
	}
	tag := o.ConsumerTag
	if tag == "" {
		tag = uuid.NewString()
	}

	sink := make(chan *message.Message, consumerSinkCapacity)
	if err := ch.conn.RegisterConsumer(ch.id, tag, sink); err != nil {
		return nil, "", err
	}

	reply, err := ch.invokeSync(frame.BasicConsume{
		Queue:       queue,
		ConsumerTag: tag,
		Flags:       consumeFlags(o),
		Arguments:   o.Arguments,
	})
	if err != nil {
		ch.conn.DeregisterConsumer(ch.id, tag)
		return nil, "", err
	}
	ok, match := reply.(frame.BasicConsumeOk)
	if !match {
		ch.conn.DeregisterConsumer(ch.id, tag)
		return nil, "", unexpectedReply("Basic.ConsumeOk", reply)
	}
	return sink, ok.ConsumerTag, nil
}

func consumeFlags(o ConsumeOptions) byte {
	var f byte
	if o.NoLocal {
		f |= frame.BasicConsumeFlagNoLocal
	}
	if o.NoAck {
		f |= frame.BasicConsumeFlagNoAck
	}
	if o.Exclusive {
		f |= frame.BasicConsumeFlagExclusive
	}
	return f
}

// Cancel stops a consumer and closes its delivery stream.
func (ch *Channel) Cancel(tag string) error {
	return ch.conn.DeregisterConsumer(ch.id, tag)
}

// Publish sends body to exchange under routingKey: Basic.Publish, then a
// content-header, then one or more content-body frames bounded by
// frame_max minus the 8 envelope bytes. It is fire-and-forget; there is no reply.
func (ch *Channel) Publish(exchange, routingKey string, body []byte, opts ...PublishOption) error {
	var st publishState
	for _, opt := range opts {
		opt(&st)
	}

	var flags byte
	if st.Mandatory {
		flags |= frame.BasicPublishFlagMandatory
	}
	if st.Immediate {
		flags |= frame.BasicPublishFlagImmediate
	}
	if err := ch.conn.Send(ch.id, frame.BasicPublish{Exchange: exchange, RoutingKey: routingKey, Flags: flags}); err != nil {
		return err
	}

	header := frame.ContentHeader{ClassID: frame.ClassBasic, BodyLength: int64(len(body)), Properties: st.Properties}
	if err := ch.conn.SendFrame(ch.id, frame.Frame{Type: frame.TypeHeader, Payload: frame.EncodeContentHeader(header)}); err != nil {
		return err
	}

	maxChunk := int(ch.conn.MaxFrameSize()) - frameOverheadReserve
	if maxChunk <= 0 {
		maxChunk = len(body)
		if maxChunk == 0 {
			maxChunk = 1
		}
	}
	for _, chunk := range splitBody(body, maxChunk) {
		if err := ch.conn.SendFrame(ch.id, frame.Frame{Type: frame.TypeBody, Payload: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func splitBody(body []byte, maxChunk int) [][]byte {
	if len(body) == 0 {
		return [][]byte{{}}
	}
	chunks := make([][]byte, 0, (len(body)+maxChunk-1)/maxChunk)
	for offset := 0; offset < len(body); offset += maxChunk {
		end := offset + maxChunk
		if end > len(body) {
			end = len(body)
		}
		chunks = append(chunks, body[offset:end])
	}
	return chunks
}

// Flow asks the peer to start or stop delivering messages on this channel.
// Idempotent: if active already matches the channel's cached flow state, it
// returns without a wire operation.
func (ch *Channel) Flow(active bool) error {
	if active == ch.flowState() {
		return nil
	}
	reply, err := ch.invokeSync(frame.ChannelFlow{Active: active})
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.ChannelFlowOk); !ok {
		return unexpectedReply("Channel.FlowOk", reply)
	}
	ch.setFlowState(active)
	return nil
}

// Close performs a client-initiated Channel.Close/CloseOk exchange and
// deregisters the channel's Channel Manager state. A channel is never
// reopened after this; callers must Open a new one.
func (ch *Channel) Close() error {
	reply, err := ch.invokeSync(frame.ChannelClose{ReplyCode: 200, ReplyText: "bye"})
	ch.conn.DeregisterChannel(ch.id)
	if err != nil {
		return err
	}
	if _, ok := reply.(frame.ChannelCloseOk); !ok {
		return unexpectedReply("Channel.CloseOk", reply)
	}
	return nil
}
