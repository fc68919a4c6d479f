//go:build linux || darwin

package netio

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// errWouldBlock is the sentinel acceptOne/rawConn.read/rawConn.write return
// in place of the platform's WouldBlock errno, so callers never need to
// import golang.org/x/sys/unix themselves to detect it.
var errWouldBlock = errors.New("netio: would block")

func closeHandle(fd int) error { return unix.Close(fd) }

// newListenSocket builds a listening socket: parse addr, pick v4/v6,
// SO_REUSEADDR, bind, listen, set non-blocking.
func newListenSocket(o *listenerOptions) (int, net.Addr, error) {
	ip := net.ParseIP(o.addr)
	if ip == nil {
		return 0, nil, fmt.Errorf("netio: invalid address %q", o.addr)
	}
	v4 := ip.To4() != nil

	domain := unix.AF_INET
	if !v4 {
		domain = unix.AF_INET6
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return 0, nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return 0, nil, err
	}
	if o.onlyV6 != nil && !v4 {
		v := 0
		if *o.onlyV6 {
			v = 1
		}
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, v); err != nil {
			_ = unix.Close(fd)
			return 0, nil, err
		}
	}
	if o.ttl != nil {
		opt := unix.IP_TTL
		level := unix.IPPROTO_IP
		if !v4 {
			opt = unix.IPV6_UNICAST_HOPS
			level = unix.IPPROTO_IPV6
		}
		if err := unix.SetsockoptInt(fd, level, opt, int(*o.ttl)); err != nil {
			_ = unix.Close(fd)
			return 0, nil, err
		}
	}

	var sa unix.Sockaddr
	if v4 {
		var a unix.SockaddrInet4
		a.Port = int(o.port)
		copy(a.Addr[:], ip.To4())
		sa = &a
	} else {
		var a unix.SockaddrInet6
		a.Port = int(o.port)
		copy(a.Addr[:], ip.To16())
		sa = &a
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return 0, nil, err
	}
	if err := unix.Listen(fd, int(o.backlog)); err != nil {
		_ = unix.Close(fd)
		return 0, nil, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return 0, nil, err
	}

	local, err := unix.Getsockname(fd)
	if err != nil {
		_ = unix.Close(fd)
		return 0, nil, err
	}
	return fd, sockaddrToTCPAddr(local), nil
}

func sockaddrToTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		ip := make(net.IP, net.IPv4len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	case *unix.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	default:
		return nil
	}
}

// rawConn is the platform-specific read/write/close surface TcpStream is
// built on; the unix implementation is a thin non-blocking fd wrapper.
type rawConn struct{ fd int }

func newRawConn(fd int) (*rawConn, error) { return &rawConn{fd: fd}, nil }

// Read implements io.Reader so buf.ByteBuf.ReadIn can read directly into
// a Block's appendable tail without an intermediate copy.
func (c *rawConn) Read(p []byte) (int, error) {
	n, err := unix.Read(c.fd, p)
	if err == unix.EAGAIN {
		return 0, errWouldBlock
	}
	return n, err
}

// Write implements io.Writer so buf.ByteBuf.WriteOut can write directly
// from a Block chain. rawConn is not a net.Conn, so WriteOut's net.Buffers
// calls Write once per Block; no single vectored write(v) is made.
func (c *rawConn) Write(p []byte) (int, error) {
	n, err := unix.Write(c.fd, p)
	if err == unix.EAGAIN {
		return 0, errWouldBlock
	}
	return n, err
}

// ReadVec implements buf.VectoredReader with a single readv(2) call: the
// kernel fills bufs[0] before spilling into bufs[1], so a read that crosses
// from one pre-allocated receive block into the next costs no extra
// syscall.
func (c *rawConn) ReadVec(bufs [][]byte) (int, error) {
	iovs := make([]unix.Iovec, 0, len(bufs))
	for i := range bufs {
		if len(bufs[i]) == 0 {
			continue
		}
		var iov unix.Iovec
		iov.Base = &bufs[i][0]
		iov.SetLen(len(bufs[i]))
		iovs = append(iovs, iov)
	}
	if len(iovs) == 0 {
		return 0, nil
	}
	n, err := unix.Readv(c.fd, iovs)
	if err == unix.EAGAIN {
		return 0, errWouldBlock
	}
	return n, err
}

func (c *rawConn) close() error { return unix.Close(c.fd) }
