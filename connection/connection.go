// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package connection implements the Connection Orchestrator. It drives
// the opening handshake, then owns the Reader task, the Writer task, and the
// steady-state event loop as one errgroup.Group, per the domain-stack
// decision to mirror the pack's goroutine-group lifecycle pattern.
package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amqp091/amqp091-go-core/amqpuri"
	"github.com/amqp091/amqp091-go-core/chanmgr"
	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/log"
	"github.com/amqp091/amqp091-go-core/message"
	"github.com/amqp091/amqp091-go-core/reader"
	"github.com/amqp091/amqp091-go-core/writer"
)

// closeTimeout bounds how long a client-initiated Close waits for the
// peer's Connection.CloseOk before forcing the transport shut, per the
// "finite timeout via context.WithTimeout" open-question decision.
const closeTimeout = 5 * time.Second

// ErrChannelIDSpaceExhausted reports that every int16 channel id has been
// allocated over this connection's lifetime.
var ErrChannelIDSpaceExhausted = errors.New("connection: channel id space exhausted")

// command is a closure submitted to the loop task, the only goroutine
// allowed to touch the Channel Manager. Submitting a command and waiting on
// done establishes the happens-before synchronous invocation needs: the
// mutation is visible before the submitter proceeds to write a frame.
type command struct {
	run  func(*chanmgr.Manager)
	done chan struct{}
}

// Connection is a live AMQP connection: the transport, the negotiated
// tuning values, the Channel Manager, the outbound Writer, and the command
// mailbox the loop task drains.
type Connection struct {
	conn  net.Conn
	cfg   Config
	tuned tuned

	mgr  *chanmgr.Manager
	w    *writer.Writer
	cmdc chan command

	nextChannelID int32

	closed   chan struct{}
	closeErr error
}

// Dial parses uri (see amqpuri), opens a TCP connection,
// drives the handshake, and spawns the steady-state tasks.
func Dial(uri string, opts ...Option) (*Connection, error) {
	addr, err := amqpuri.Parse(uri)
	if err != nil {
		return nil, err
	}
	cfg := defaultOptions
	cfg.Login, cfg.Password, cfg.VHost = addr.Login, addr.Password, addr.VHost
	for _, opt := range opts {
		opt(&cfg)
	}

	conn, err := net.Dial("tcp", addr.HostPort())
	if err != nil {
		return nil, err
	}
	return dial(conn, cfg)
}

// dial drives the handshake over an already-established conn and spawns the
// steady-state tasks. Split out of Dial so tests can supply a net.Pipe.
func dial(conn net.Conn, cfg Config) (*Connection, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Nop
	}
	r := reader.New(conn)
	negotiated, err := handshake(conn, r, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &Connection{
		conn:   conn,
		cfg:    cfg,
		tuned:  negotiated,
		w:      writer.New(conn, time.Duration(negotiated.Heartbeat)*time.Second),
		cmdc:   make(chan command),
		closed: make(chan struct{}),
	}
	c.mgr = chanmgr.New(c, int64(negotiated.ChannelMax))

	inbound := make(chan reader.Inbound)
	eg, ctx := errgroup.WithContext(context.Background())
	var readErr error
	eg.Go(func() error {
		defer close(inbound)
		readErr = runReaderTask(ctx, r, inbound)
		return readErr
	})
	eg.Go(c.w.Run)

	var loopErr error
	eg.Go(func() error {
		loopErr = c.loop(ctx, inbound, &readErr)
		return loopErr
	})

	go func() {
		_ = eg.Wait()
		c.mgr.CloseAll()
		// loopErr, not eg.Wait's aggregate, is the authoritative teardown
		// reason: the loop is the only task that classifies *why* the
		// connection ended (heartbeat timeout, protocol violation, graceful
		// Close), whereas the reader/writer tasks merely observe the
		// resulting closed transport.
		c.closeErr = loopErr
		close(c.closed)
	}()

	return c, nil
}

// runReaderTask adapts the pull-based Reader into a channel producer,
// bounded by ctx so it never blocks forever once the loop has stopped
// draining out.
func runReaderTask(ctx context.Context, r *reader.Reader, out chan<- reader.Inbound) error {
	for {
		in, err := r.Next()
		if err != nil {
			return err
		}
		select {
		case out <- in:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// loop implements the steady state: a single select over inbound frames,
// facade commands, and the heartbeat check timer. Closing conn and w on
// every exit path unblocks the Reader task's blocking Read and stops the
// Writer task, regardless of which case triggered shutdown.
// readErr points at the Reader task's terminal error; the close of inbound
// happens-before the !ok receive below, so the read is safe.
func (c *Connection) loop(ctx context.Context, inbound <-chan reader.Inbound, readErr *error) error {
	defer c.conn.Close()
	defer c.w.Close()

	lastHeartbeat := time.Now()

	var tickerC <-chan time.Time
	if c.tuned.Heartbeat > 0 {
		ticker := time.NewTicker(time.Duration(c.tuned.Heartbeat) * time.Second)
		defer ticker.Stop()
		tickerC = ticker.C
	}

	for {
		select {
		case in, ok := <-inbound:
			if !ok {
				// A codec error (malformed frame, unknown method) is the real
				// teardown reason; a bare EOF or cancellation is just the
				// transport going away. A writer flush failure likewise beats
				// the generic cause: its cancellation is what unblocked the
				// reader in the first place.
				if err := *readErr; err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) && !errors.Is(err, reader.ErrConnectionClosed) {
					return err
				}
				if err := c.w.Err(); err != nil {
					return err
				}
				return reader.ErrConnectionClosed
			}
			lastHeartbeat = time.Now()
			shutdown, err := c.classify(in)
			if err != nil {
				c.cfg.Logger.Error("protocol violation", "channel", in.Channel, "error", err)
				return err
			}
			if shutdown {
				return nil
			}

		case cmd := <-c.cmdc:
			cmd.run(c.mgr)
			close(cmd.done)

		case <-tickerC:
			if time.Since(lastHeartbeat) > 2*time.Duration(c.tuned.Heartbeat)*time.Second {
				c.cfg.Logger.Warn("heartbeat timeout", "last_heartbeat", lastHeartbeat, "interval_seconds", c.tuned.Heartbeat)
				return ErrHeartbeatTimeout
			}

		case <-ctx.Done():
			// A writer flush failure cancels the group; surface it as the
			// teardown reason rather than the bare cancellation.
			if err := c.w.Err(); err != nil {
				return err
			}
			return ctx.Err()
		}
	}
}

// classify dispatches one inbound frame by frame type.
func (c *Connection) classify(in reader.Inbound) (shutdown bool, err error) {
	switch in.Frame.Type {
	case frame.TypeHeartbeat:
		return false, nil

	case frame.TypeMethod:
		m, err := frame.DecodeMethodFrame(in.Frame.Payload)
		if err != nil {
			return false, err
		}
		return c.classifyMethod(in.Channel, m)

	case frame.TypeHeader:
		h, err := frame.DecodeContentHeader(in.Frame.Payload)
		if err != nil {
			return false, err
		}
		return false, c.mgr.AttachHeader(in.Channel, h)

	case frame.TypeBody:
		return false, c.mgr.AppendBody(in.Channel, in.Frame.Payload)

	default:
		return false, nil
	}
}

func (c *Connection) classifyMethod(channel int16, m frame.Method) (shutdown bool, err error) {
	switch v := m.(type) {
	case frame.ConnectionClose:
		c.cfg.Logger.Info("connection closed by peer", "reply_code", v.ReplyCode, "reply_text", v.ReplyText)
		_ = c.Send(0, frame.ConnectionCloseOk{})
		return true, nil

	case frame.ConnectionCloseOk:
		return true, nil

	case frame.ChannelClose:
		_ = c.Send(channel, frame.ChannelCloseOk{})
		c.mgr.DeregisterChannel(channel)
		return false, nil

	case frame.ChannelFlow:
		// Server-initiated flow control is asynchronous, not a reply; it
		// must never consume a sync waiter. The facade answers FlowOk.
		c.toInbox(channel, m)
		return false, nil
	}

	if frame.IsContentBearing(m.ClassID(), m.MethodID()) {
		return false, c.mgr.BeginContent(channel, m)
	}

	fr := frame.Frame{Type: frame.TypeMethod, Channel: channel, Payload: frame.EncodeMethod(m)}
	if waiter, err := c.mgr.TakeWaiter(channel); err == nil {
		waiter <- fr
		return false, nil
	}
	c.toInbox(channel, m)
	return false, nil
}

func (c *Connection) toInbox(channel int16, m frame.Method) {
	inbox, ok := c.mgr.Inbox(channel)
	if !ok {
		return
	}
	select {
	case inbox <- frame.Frame{Type: frame.TypeMethod, Channel: channel, Payload: frame.EncodeMethod(m)}:
	default:
	}
}

// submit hands run to the loop task and blocks until it has executed,
// establishing the happens-before sync invocation requires. It fails ErrConnectionClosed
// if the loop has already torn down.
func (c *Connection) submit(run func(*chanmgr.Manager)) error {
	cmd := command{run: run, done: make(chan struct{})}
	select {
	case c.cmdc <- cmd:
	case <-c.closed:
		return ErrConnectionClosed
	}
	select {
	case <-cmd.done:
		return nil
	case <-c.closed:
		return ErrConnectionClosed
	}
}

// RegisterWaiter registers a single-use reply slot for channel via the loop
// task, step 1 of the synchronous invocation contract.
func (c *Connection) RegisterWaiter(channel int16) (chan frame.Frame, error) {
	var slot chan frame.Frame
	if err := c.submit(func(m *chanmgr.Manager) { slot = m.RegisterWaiter(channel) }); err != nil {
		return nil, err
	}
	return slot, nil
}

// RegisterChannel records channel's async inbox and allocates a channel
// slot, failing chanmgr.ErrChannelLimitExceeded once max_channels is in use.
func (c *Connection) RegisterChannel(channel int16, inbox chan<- frame.Frame) error {
	var regErr error
	if err := c.submit(func(m *chanmgr.Manager) { regErr = m.RegisterChannel(channel, inbox) }); err != nil {
		return err
	}
	return regErr
}

// DeregisterChannel tears down channel's Channel Manager state.
func (c *Connection) DeregisterChannel(channel int16) error {
	return c.submit(func(m *chanmgr.Manager) { m.DeregisterChannel(channel) })
}

// RegisterConsumer binds a consumer tag on channel to sink.
func (c *Connection) RegisterConsumer(channel int16, tag string, sink chan *message.Message) error {
	return c.submit(func(m *chanmgr.Manager) { m.RegisterConsumer(channel, tag, sink) })
}

// DeregisterConsumer removes a consumer tag's binding.
func (c *Connection) DeregisterConsumer(channel int16, tag string) error {
	return c.submit(func(m *chanmgr.Manager) { m.DeregisterConsumer(channel, tag) })
}

// AllocateChannelID hands out the next unused channel id. Ids are never
// reused within a connection's lifetime; a channel closed by the server is
// dead, not reopened.
func (c *Connection) AllocateChannelID() (int16, error) {
	id := atomic.AddInt32(&c.nextChannelID, 1)
	if id > int32(^uint16(0)>>1) {
		return 0, ErrChannelIDSpaceExhausted
	}
	return int16(id), nil
}

// Send implements message.Sender and is the outbound path every channel
// facade sends method frames through.
func (c *Connection) Send(channel int16, m frame.Method) error {
	return c.w.Send(writer.Envelope{
		Channel: channel,
		Frame:   frame.Frame{Type: frame.TypeMethod, Channel: channel, Payload: frame.EncodeMethod(m)},
	})
}

// SendFrame submits a raw content-header or content-body frame on channel.
func (c *Connection) SendFrame(channel int16, fr frame.Frame) error {
	fr.Channel = channel
	return c.w.Send(writer.Envelope{Channel: channel, Frame: fr})
}

// MaxFrameSize returns the negotiated frame-size ceiling, used by channel
// facades to split a publish body into content-body frames.
func (c *Connection) MaxFrameSize() uint32 {
	return c.tuned.FrameMax
}

// Done returns a channel closed once the connection has fully torn down.
func (c *Connection) Done() <-chan struct{} {
	return c.closed
}

// Err returns the reason the connection tore down. It is only meaningful
// after Done is closed.
func (c *Connection) Err() error {
	return c.closeErr
}

// Close drives a graceful, client-initiated shutdown: it sends
// Connection.Close and waits for teardown, forcing the transport shut if
// the peer doesn't reply with Connection.CloseOk within closeTimeout.
func (c *Connection) Close() error {
	select {
	case <-c.closed:
		return c.closeErr
	default:
	}

	_ = c.Send(0, frame.ConnectionClose{ReplyCode: 200, ReplyText: "goodbye"})

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	select {
	case <-c.closed:
	case <-ctx.Done():
		c.conn.Close()
		<-c.closed
	}
	return nil
}
