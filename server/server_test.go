package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-nexio/buf"
	"github.com/joeycumines/go-nexio/netio"
	"github.com/joeycumines/go-nexio/reactor"
	"github.com/joeycumines/go-nexio/server"
)

// echoTask is a minimal in-test echo task: it
// copies whatever the Recv stream produces straight back out via Sender,
// closing the Session on EOF once every byte has been flushed.
type echoTask struct {
	sess *server.Session
	recv *netio.Recv
	send *netio.Sender
	out  *buf.ByteBuf
	eof  bool
}

func (t *echoTask) Poll(cx *reactor.Context) (reactor.Poll, error) {
	for {
		if !t.out.IsEmpty() {
			p, err := t.send.PollSend(cx, t.out)
			if err != nil {
				_ = t.sess.Close(cx)
				return reactor.Complete, err
			}
			if p == reactor.Pending {
				return reactor.Pending, nil
			}
		}
		if t.eof {
			_ = t.sess.Close(cx)
			return reactor.Complete, nil
		}
		sp, chunk, err := t.recv.Poll(cx)
		if err != nil {
			_ = t.sess.Close(cx)
			return reactor.Complete, err
		}
		switch sp {
		case reactor.StreamPending:
			return reactor.Pending, nil
		case reactor.StreamDone:
			t.eof = true
		case reactor.StreamReady:
			t.out.Extend(chunk)
		}
	}
}

func echoHandler(_ *reactor.Context, sess *server.Session) (reactor.Task, error) {
	recv, send := netio.Split(sess.Stream)
	return &echoTask{sess: sess, recv: recv, send: send, out: buf.New()}, nil
}

// waitForAddr polls Addr until Run has bound the listener (or the deadline
// passes), since Run binds asynchronously from the caller's perspective
// (it returns only at shutdown).
func waitForAddr(t *testing.T, srv *server.Server) net.Addr {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a := srv.Addr(); a != nil {
			return a
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("server never bound a listener")
	return nil
}

func TestServerEchoesOverRealLoopbackSocket(t *testing.T) {
	srv := server.New(
		server.HandlerFunc(echoHandler),
		server.WithListener(netio.WithAddr("127.0.0.1"), netio.WithPort(0)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	addr := waitForAddr(t, srv)

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	const payload = "the quick brown fox jumps over the lazy dog"
	_, err = conn.Write([]byte(payload))
	require.NoError(t, err)

	got := make([]byte, len(payload))
	_, err = io.ReadFull(conn, got)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))

	_ = conn.Close()

	cancel()
	select {
	case err := <-runErr:
		assert.True(t, err == nil || errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("server.Run did not return after context cancellation")
	}
}

func TestServerDropsConnectionWhenWorkersSaturated(t *testing.T) {
	holdHandler := func(held chan *server.Session) server.HandlerFunc {
		return func(_ *reactor.Context, sess *server.Session) (reactor.Task, error) {
			held <- sess
			// never spawn a Task: the connection stays open, consuming
			// the single worker's one slot of capacity; the Session is
			// handed out on the channel and nothing in the test closes it.
			return nil, nil
		}
	}

	held := make(chan *server.Session, 1)
	srv := server.New(
		server.HandlerFunc(holdHandler(held)),
		server.WithListener(netio.WithAddr("127.0.0.1"), netio.WithPort(0)),
		server.WithWorkers(1),
		server.WithWorkerConns(1),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	addr := waitForAddr(t, srv)

	first, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	select {
	case <-held:
	case <-time.After(2 * time.Second):
		t.Fatal("first connection was never handed to the handler")
	}

	// The single worker is now at capacity; a second connection must be
	// accepted (it's a real TCP handshake against the listen backlog) and
	// then promptly closed by the acceptor without reaching the handler.
	second, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	scratch := make([]byte, 1)
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = second.Read(scratch)
	assert.ErrorIs(t, err, io.EOF)

	cancel()
	select {
	case err := <-runErr:
		assert.True(t, err == nil || errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("server.Run did not return after context cancellation")
	}
}

func TestRunTwiceReturnsErrAlreadyRunning(t *testing.T) {
	srv := server.New(
		server.HandlerFunc(echoHandler),
		server.WithListener(netio.WithAddr("127.0.0.1"), netio.WithPort(0)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = srv.Run(ctx) }()
	waitForAddr(t, srv)
	defer cancel()

	err := srv.Run(context.Background())
	assert.ErrorIs(t, err, server.ErrAlreadyRunning)
}
