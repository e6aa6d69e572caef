// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package connection

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/amqp091/amqp091-go-core/internal/frame"
	"github.com/amqp091/amqp091-go-core/reader"
)

// fakeServer plays the peer side of the opening handshake over one half of a
// net.Pipe: read the protocol header, send Start, read StartOk, send tune,
// read TuneOk (handing it to onTuneOk), read Open, send OpenOk.
func fakeServer(t *testing.T, conn net.Conn, tune frame.ConnectionTune, onTuneOk func(frame.ConnectionTuneOk)) *reader.Reader {
	t.Helper()
	r := reader.New(conn)

	hdr := make([]byte, 8)
	if _, err := readFull(conn, hdr); err != nil {
		t.Errorf("fakeServer: read protocol header: %v", err)
		return r
	}

	if _, err := conn.Write(encodeMethodFrame(0, frame.ConnectionStart{
		VersionMajor: 0, VersionMinor: 9,
		Mechanisms: "PLAIN", Locales: "en_US",
	})); err != nil {
		t.Errorf("fakeServer: write Start: %v", err)
		return r
	}

	if _, err := r.Next(); err != nil {
		t.Errorf("fakeServer: read StartOk: %v", err)
		return r
	}

	if _, err := conn.Write(encodeMethodFrame(0, tune)); err != nil {
		t.Errorf("fakeServer: write Tune: %v", err)
		return r
	}

	in, err := r.Next()
	if err != nil {
		t.Errorf("fakeServer: read TuneOk: %v", err)
		return r
	}
	m, err := frame.DecodeMethodFrame(in.Frame.Payload)
	if err != nil {
		t.Errorf("fakeServer: decode TuneOk: %v", err)
		return r
	}
	if onTuneOk != nil {
		onTuneOk(m.(frame.ConnectionTuneOk))
	}

	if _, err := r.Next(); err != nil { // Connection.Open
		t.Errorf("fakeServer: read Open: %v", err)
		return r
	}
	if _, err := conn.Write(encodeMethodFrame(0, frame.ConnectionOpenOk{})); err != nil {
		t.Errorf("fakeServer: write OpenOk: %v", err)
		return r
	}

	return r
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestDialHandshakeRoundTrip(t *testing.T) {
	t.Parallel()
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fakeServer(t, serverConn, frame.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60}, nil)
	}()

	c, err := dial(clientConn, Config{Login: "guest", Password: "guest", VHost: "/"})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-done

	if c.tuned.ChannelMax != 2047 || c.tuned.FrameMax != 131072 || c.tuned.Heartbeat != 60 {
		t.Fatalf("unexpected negotiated values: %+v", c.tuned)
	}

	// No peer is reading anymore once fakeServer returns, so close the
	// transport from the server side and confirm the connection tears
	// down cleanly rather than exercising the 5s graceful-Close timeout.
	serverConn.Close()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("connection never tore down after transport close")
	}
}

func TestDialTuneOkEchoesWhenCeilingsDoNotBind(t *testing.T) {
	t.Parallel()
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	var gotTuneOk frame.ConnectionTuneOk
	done := make(chan struct{})
	go func() {
		defer close(done)
		fakeServer(t, serverConn, frame.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60}, func(tuneOk frame.ConnectionTuneOk) {
			gotTuneOk = tuneOk
		})
	}()

	cfg := Config{
		Login: "guest", Password: "guest", VHost: "/",
		MaxChannels: 4096, MaxFrameSize: 262144, HeartbeatInterval: 120 * time.Second,
	}
	c, err := dial(clientConn, cfg)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-done

	if gotTuneOk.ChannelMax != 2047 || gotTuneOk.FrameMax != 131072 || gotTuneOk.Heartbeat != 60 {
		t.Fatalf("TuneOk was not a pure echo: %+v", gotTuneOk)
	}
	serverConn.Close()
	<-c.Done()
}

func TestSynchronousWaitersResolveInFIFOOrder(t *testing.T) {
	t.Parallel()
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	handshakeDone := make(chan struct{})
	go func() {
		defer close(handshakeDone)
		fakeServer(t, serverConn, frame.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 0}, nil)
	}()

	c, err := dial(clientConn, Config{Login: "guest", Password: "guest", VHost: "/"})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-handshakeDone

	inbox := make(chan frame.Frame, 1)
	if err := c.RegisterChannel(1, inbox); err != nil {
		t.Fatalf("RegisterChannel: %v", err)
	}

	waiterA, err := c.RegisterWaiter(1)
	if err != nil {
		t.Fatalf("RegisterWaiter A: %v", err)
	}
	waiterB, err := c.RegisterWaiter(1)
	if err != nil {
		t.Fatalf("RegisterWaiter B: %v", err)
	}

	go func() {
		serverConn.Write(encodeMethodFrame(1, frame.ChannelOpenOk{Reserved1: "first"}))
		serverConn.Write(encodeMethodFrame(1, frame.ChannelOpenOk{Reserved1: "second"}))
	}()

	var gotA, gotB frame.Frame
	select {
	case gotA = <-waiterA:
	case <-time.After(2 * time.Second):
		t.Fatal("waiterA never resolved")
	}
	select {
	case gotB = <-waiterB:
	case <-time.After(2 * time.Second):
		t.Fatal("waiterB never resolved")
	}

	mA, err := frame.DecodeMethodFrame(gotA.Payload)
	if err != nil {
		t.Fatalf("decode A: %v", err)
	}
	mB, err := frame.DecodeMethodFrame(gotB.Payload)
	if err != nil {
		t.Fatalf("decode B: %v", err)
	}
	if mA.(frame.ChannelOpenOk).Reserved1 != "first" || mB.(frame.ChannelOpenOk).Reserved1 != "second" {
		t.Fatalf("waiters resolved out of order: A=%+v B=%+v", mA, mB)
	}
}

func TestInboundChannelFlowRoutesToInboxNotWaiter(t *testing.T) {
	t.Parallel()
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	handshakeDone := make(chan struct{})
	go func() {
		defer close(handshakeDone)
		fakeServer(t, serverConn, frame.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 0}, nil)
	}()

	c, err := dial(clientConn, Config{Login: "guest", Password: "guest", VHost: "/"})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-handshakeDone

	inbox := make(chan frame.Frame, 1)
	if err := c.RegisterChannel(1, inbox); err != nil {
		t.Fatalf("RegisterChannel: %v", err)
	}
	waiter, err := c.RegisterWaiter(1)
	if err != nil {
		t.Fatalf("RegisterWaiter: %v", err)
	}

	go serverConn.Write(encodeMethodFrame(1, frame.ChannelFlow{Active: false}))

	select {
	case fr := <-inbox:
		m, err := frame.DecodeMethodFrame(fr.Payload)
		if err != nil {
			t.Fatalf("decode inbox frame: %v", err)
		}
		if flow, ok := m.(frame.ChannelFlow); !ok || flow.Active {
			t.Fatalf("inbox got %+v, want ChannelFlow{Active: false}", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Channel.Flow never reached the channel inbox")
	}

	select {
	case <-waiter:
		t.Fatal("Channel.Flow must not consume a sync waiter")
	default:
	}

	go serverConn.Write(encodeMethodFrame(1, frame.ChannelOpenOk{}))
	select {
	case <-waiter:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never resolved by the actual reply")
	}
}

func TestHeartbeatTimeoutTearsDownConnection(t *testing.T) {
	t.Parallel()
	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()

	handshakeDone := make(chan struct{})
	go func() {
		defer close(handshakeDone)
		fakeServer(t, serverConn, frame.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 1}, nil)
	}()

	c, err := dial(clientConn, Config{Login: "guest", Password: "guest", VHost: "/", HeartbeatInterval: time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-handshakeDone

	inbox := make(chan frame.Frame, 1)
	if err := c.RegisterChannel(1, inbox); err != nil {
		t.Fatalf("RegisterChannel: %v", err)
	}
	waiter, err := c.RegisterWaiter(1)
	if err != nil {
		t.Fatalf("RegisterWaiter: %v", err)
	}

	select {
	case <-c.Done():
	case <-time.After(4 * time.Second):
		t.Fatal("connection never tore down after heartbeat silence")
	}

	if !errors.Is(c.Err(), ErrHeartbeatTimeout) {
		t.Fatalf("Err() = %v, want ErrHeartbeatTimeout", c.Err())
	}
	if _, ok := <-waiter; ok {
		t.Fatal("waiter should have been closed, not resolved with a value")
	}
}
