package server

import (
	"net"
	"sync/atomic"

	"github.com/joeycumines/go-nexio/netio"
	"github.com/joeycumines/go-nexio/reactor"
)

// Session is one accepted connection handed to a Handler, already adopted
// onto the worker Reactor that will drive it. It carries a back-reference
// to the worker's live-connection counter so Close can decrement it.
type Session struct {
	Stream *netio.TcpStream
	Addr   net.Addr

	count  *atomic.Int64
	closed bool
}

// Close closes the underlying stream and decrements the owning worker's
// connection count. Idempotent. A Handler that returns a Task from Handle
// must eventually call Close (directly, or by having its Task call it on
// completion) — nothing else will, since Go has no destructor to stand in
// for the source's Session drop.
func (s *Session) Close(cx *reactor.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.count.Add(-1)
	return s.Stream.Close(cx)
}
