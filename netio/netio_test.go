package netio

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-nexio/buf"
	"github.com/joeycumines/go-nexio/reactor"
)

func appendString(b *buf.ByteBuf, s string) {
	b.Append(func(a *buf.Appender) {
		dst := a.Reserve(len(s))
		n := copy(dst, s)
		a.Commit(n)
	})
}

func readAllString(t *testing.T, b *buf.ByteBuf) string {
	t.Helper()
	var sb strings.Builder
	b.Read(func(it *buf.ReadIter) {
		for {
			chunk, ok := it.Next()
			if !ok {
				return
			}
			sb.Write(chunk)
		}
	})
	return sb.String()
}

// echoRoundTrip drives a listener, a connector, one accept, a send, and a
// recv through a single reactor main task's repeated Poll calls, end to end
// over a real loopback TCP socket.
type echoRoundTrip struct {
	ln        *TcpListener
	incoming  *Incoming
	connector *Connector

	phase    int
	client   *TcpStream
	server   *TcpStream
	sender   *Sender
	recv     *Recv
	payload  *buf.ByteBuf
	got      *buf.ByteBuf
	doneChan chan struct{}
}

const (
	phaseConnect = iota
	phaseAccept
	phaseSend
	phaseRecv
)

func (e *echoRoundTrip) Poll(cx *reactor.Context) (reactor.Poll, error) {
	for {
		switch e.phase {
		case phaseConnect:
			p, err := e.connector.Poll(cx)
			if err != nil {
				return reactor.Complete, err
			}
			if p == reactor.Pending {
				return reactor.Pending, nil
			}
			e.client = e.connector.Stream()
			e.phase = phaseAccept
		case phaseAccept:
			sp, accepted, err := e.incoming.Poll(cx)
			if err != nil {
				return reactor.Complete, err
			}
			if sp == reactor.StreamPending {
				return reactor.Pending, nil
			}
			e.server = accepted.Stream
			_, e.sender = Split(e.client)
			e.phase = phaseSend
		case phaseSend:
			p, err := e.sender.PollSend(cx, e.payload)
			if err != nil {
				return reactor.Complete, err
			}
			if p == reactor.Pending {
				return reactor.Pending, nil
			}
			e.recv = NewRecv(e.server)
			e.phase = phaseRecv
		case phaseRecv:
			sp, got, err := e.recv.Poll(cx)
			if err != nil {
				return reactor.Complete, err
			}
			if sp == reactor.StreamPending {
				return reactor.Pending, nil
			}
			e.got = got
			close(e.doneChan)
			return reactor.Complete, nil
		}
	}
}

func TestEchoRoundTripOverLoopback(t *testing.T) {
	r, err := reactor.New()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	cx := reactor.NewContext(r)

	ln, err := NewTcpListener(cx, WithAddr("127.0.0.1"), WithPort(0))
	require.NoError(t, err)
	defer func() { _ = ln.Close(cx) }()

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)

	connector, err := NewConnector(cx, addr)
	require.NoError(t, err)

	payload := buf.New()
	appendString(payload, "hello, echo")

	task := &echoRoundTrip{
		ln:        ln,
		incoming:  ln.Incoming(),
		connector: connector,
		payload:   payload,
		doneChan:  make(chan struct{}),
	}

	require.NoError(t, r.Run(task))

	select {
	case <-task.doneChan:
	default:
		t.Fatal("round trip task never completed")
	}
	assert.Equal(t, "hello, echo", readAllString(t, task.got))
}
