package netio

import (
	"net"

	"github.com/pkg/errors"

	"github.com/joeycumines/go-nexio/reactor"
)

// TcpListener is a non-blocking TCP listener bound to a Reactor. Build one
// with NewTcpListener.
type TcpListener struct {
	io   *reactor.PollableIO
	addr net.Addr
}

// NewTcpListener parses addr/port from opts, picks v4 or v6, sets
// SO_REUSEADDR, binds, listens, sets the socket non-blocking, and
// registers it with cx's Reactor.
func NewTcpListener(cx *reactor.Context, opts ...ListenerOption) (*TcpListener, error) {
	o := resolveListenerOptions(opts)
	fd, addr, err := newListenSocket(o)
	if err != nil {
		return nil, errors.Wrap(err, "netio: build listener")
	}
	io, err := reactor.NewPollableIO(cx, fd, reactor.OpRead)
	if err != nil {
		_ = closeHandle(fd)
		return nil, errors.Wrap(err, "netio: register listener")
	}
	return &TcpListener{io: io, addr: addr}, nil
}

// Addr returns the address the listener is bound to.
func (l *TcpListener) Addr() net.Addr { return l.addr }

// Incoming returns a Stream yielding one Accepted per connection.
func (l *TcpListener) Incoming() *Incoming { return &Incoming{l: l} }

// Close deregisters and closes the listening socket.
func (l *TcpListener) Close(cx *reactor.Context) error {
	fd := l.io.Handle()
	err1 := l.io.Close(cx)
	err2 := closeHandle(fd)
	if err1 != nil {
		return err1
	}
	return err2
}
