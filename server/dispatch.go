package server

import "net"

// dispatched is one accepted connection crossing the acceptor-to-worker
// SPSC channel: a raw, already non-blocking socket handle (detached from
// the acceptor's Reactor, not yet adopted by the worker's) plus the
// address it came from. Only plain values cross threads here — the fd is
// just an int, never a *netio.TcpStream, since a TcpStream is bound to one
// Reactor for its life.
type dispatched struct {
	fd   int
	addr net.Addr
}
