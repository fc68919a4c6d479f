//go:build windows

package netio

import (
	"errors"
	"fmt"
	"net"
	"unsafe"

	"golang.org/x/sys/windows"
)

// errWouldBlock is the sentinel returned in place of ERROR_IO_PENDING /
// WSAEWOULDBLOCK, mirroring the Unix build's errno translation.
var errWouldBlock = errors.New("netio: would block")

func closeHandle(fd int) error { return windows.Closesocket(windows.Handle(fd)) }

func newOverlappedSocket(domain int) (windows.Handle, error) {
	return windows.WSASocket(int32(domain), windows.SOCK_STREAM, windows.IPPROTO_TCP, nil, 0, windows.WSA_FLAG_OVERLAPPED)
}

// newListenSocket builds a listening socket for
// Windows: parse addr, pick v4/v6, SO_REUSEADDR, bind, listen. The socket
// is left in overlapped mode; non-blocking readiness is driven entirely
// through AcceptEx completions rather than FIONBIO, per the IOCP model.
func newListenSocket(o *listenerOptions) (int, net.Addr, error) {
	ip := net.ParseIP(o.addr)
	if ip == nil {
		return 0, nil, fmt.Errorf("netio: invalid address %q", o.addr)
	}
	v4 := ip.To4() != nil
	domain := windows.AF_INET
	if !v4 {
		domain = windows.AF_INET6
	}
	h, err := newOverlappedSocket(domain)
	if err != nil {
		return 0, nil, err
	}
	if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1); err != nil {
		_ = windows.Closesocket(h)
		return 0, nil, err
	}
	if o.onlyV6 != nil && !v4 {
		v := 0
		if *o.onlyV6 {
			v = 1
		}
		if err := windows.SetsockoptInt(h, windows.IPPROTO_IPV6, windows.IPV6_V6ONLY, v); err != nil {
			_ = windows.Closesocket(h)
			return 0, nil, err
		}
	}

	var sa windows.Sockaddr
	if v4 {
		var a windows.SockaddrInet4
		a.Port = int(o.port)
		copy(a.Addr[:], ip.To4())
		sa = &a
	} else {
		var a windows.SockaddrInet6
		a.Port = int(o.port)
		copy(a.Addr[:], ip.To16())
		sa = &a
	}
	if err := windows.Bind(h, sa); err != nil {
		_ = windows.Closesocket(h)
		return 0, nil, err
	}
	if err := windows.Listen(h, int(o.backlog)); err != nil {
		_ = windows.Closesocket(h)
		return 0, nil, err
	}

	local, err := windows.Getsockname(h)
	if err != nil {
		_ = windows.Closesocket(h)
		return 0, nil, err
	}
	return int(h), sockaddrToTCPAddr(local), nil
}

func sockaddrToTCPAddr(sa windows.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *windows.SockaddrInet4:
		ip := make(net.IP, net.IPv4len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	case *windows.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	default:
		return nil
	}
}

// rawConn is the Windows TcpStream backing: an overlapped socket handle
// with at most one outstanding WSARecv and one outstanding WSASend at a
// time. Completions are delivered through the Reactor's IOCP poller, which
// (per poller_windows.go) reports any completion on a token as both
// directions ready — Read/Write each re-check their own overlapped
// structure's actual state via GetOverlappedResult rather than trusting
// the event's direction bits.
type rawConn struct {
	h windows.Handle

	readPending  bool
	readOv       windows.Overlapped
	writePending bool
	writeOv      windows.Overlapped
}

func newRawConn(fd int) (*rawConn, error) { return &rawConn{h: windows.Handle(fd)}, nil }

// Read implements io.Reader. On a fresh call it issues WSARecv; a
// synchronous completion returns immediately, otherwise it reports
// errWouldBlock and the caller is expected to retry (via the Reactor's
// schedule/ready-queue mechanism) once notified.
func (c *rawConn) Read(p []byte) (int, error) {
	if c.readPending {
		var transferred, flags uint32
		err := windows.GetOverlappedResult(c.h, &c.readOv, &transferred, false)
		if err == windows.ERROR_IO_INCOMPLETE {
			return 0, errWouldBlock
		}
		c.readPending = false
		_ = flags
		if err != nil {
			return 0, err
		}
		return int(transferred), nil
	}

	var transferred, flags uint32
	c.readOv = windows.Overlapped{}
	buf := windows.WSABuf{Len: uint32(len(p)), Buf: bufPtr(p)}
	err := windows.WSARecv(c.h, &buf, 1, &transferred, &flags, &c.readOv, nil)
	if err == nil {
		return int(transferred), nil
	}
	if err == windows.WSAEWOULDBLOCK || err == windows.ERROR_IO_PENDING {
		c.readPending = true
		return 0, errWouldBlock
	}
	return 0, err
}

// Write implements io.Writer, mirroring Read's pending/retry contract.
func (c *rawConn) Write(p []byte) (int, error) {
	if c.writePending {
		var transferred, flags uint32
		err := windows.GetOverlappedResult(c.h, &c.writeOv, &transferred, false)
		if err == windows.ERROR_IO_INCOMPLETE {
			return 0, errWouldBlock
		}
		c.writePending = false
		_ = flags
		if err != nil {
			return 0, err
		}
		return int(transferred), nil
	}

	var transferred uint32
	c.writeOv = windows.Overlapped{}
	buf := windows.WSABuf{Len: uint32(len(p)), Buf: bufPtr(p)}
	err := windows.WSASend(c.h, &buf, 1, &transferred, 0, &c.writeOv, nil)
	if err == nil {
		return int(transferred), nil
	}
	if err == windows.WSAEWOULDBLOCK || err == windows.ERROR_IO_PENDING {
		c.writePending = true
		return 0, errWouldBlock
	}
	return 0, err
}

// ReadVec implements buf.VectoredReader with a single WSARecv carrying one
// WSABuf per non-empty slice, so a receive that fills bufs[0] and spills
// into bufs[1] completes as one overlapped operation instead of two. It
// shares readPending/readOv with Read — at most one of the two is ever
// outstanding on a rawConn at a time.
func (c *rawConn) ReadVec(bufs [][]byte) (int, error) {
	if c.readPending {
		var transferred, flags uint32
		err := windows.GetOverlappedResult(c.h, &c.readOv, &transferred, false)
		if err == windows.ERROR_IO_INCOMPLETE {
			return 0, errWouldBlock
		}
		c.readPending = false
		_ = flags
		if err != nil {
			return 0, err
		}
		return int(transferred), nil
	}

	wsabufs := make([]windows.WSABuf, 0, len(bufs))
	for i := range bufs {
		if len(bufs[i]) == 0 {
			continue
		}
		wsabufs = append(wsabufs, windows.WSABuf{Len: uint32(len(bufs[i])), Buf: bufPtr(bufs[i])})
	}
	if len(wsabufs) == 0 {
		return 0, nil
	}

	var transferred, flags uint32
	c.readOv = windows.Overlapped{}
	err := windows.WSARecv(c.h, &wsabufs[0], uint32(len(wsabufs)), &transferred, &flags, &c.readOv, nil)
	if err == nil {
		return int(transferred), nil
	}
	if err == windows.WSAEWOULDBLOCK || err == windows.ERROR_IO_PENDING {
		c.readPending = true
		return 0, errWouldBlock
	}
	return 0, err
}

func (c *rawConn) close() error { return windows.Closesocket(c.h) }

func bufPtr(p []byte) *byte {
	if len(p) == 0 {
		return nil
	}
	return (*byte)(unsafe.Pointer(&p[0]))
}
