//go:build windows

package netio

import (
	"net"
	"sync"

	"golang.org/x/sys/windows"
)

// connectOverlapped tracks the ConnectEx overlapped structure for sockets
// with an outstanding connect, keyed by handle. ConnectEx's OVERLAPPED must
// stay alive until GetOverlappedResult observes completion, and dialSocket
// has no later hook to stash it on besides this table — ConnectEx runs
// before the caller's rawConn even exists.
var connectOverlapped sync.Map // windows.Handle -> *windows.Overlapped

// dialSocket implements the Windows connect path: bind the
// overlapped socket to a wildcard local address (ConnectEx requires a bound
// socket) then issue ConnectEx. inProgress is always true on success, since
// ConnectEx is inherently asynchronous; socketError observes completion.
func dialSocket(addr *net.TCPAddr) (int, bool, error) {
	v4 := addr.IP.To4() != nil
	domain := windows.AF_INET
	if !v4 {
		domain = windows.AF_INET6
	}
	h, err := newOverlappedSocket(domain)
	if err != nil {
		return 0, false, err
	}

	var local windows.Sockaddr
	if v4 {
		local = &windows.SockaddrInet4{}
	} else {
		local = &windows.SockaddrInet6{}
	}
	if err := windows.Bind(h, local); err != nil {
		_ = windows.Closesocket(h)
		return 0, false, err
	}

	var remote windows.Sockaddr
	if v4 {
		var a windows.SockaddrInet4
		a.Port = addr.Port
		copy(a.Addr[:], addr.IP.To4())
		remote = &a
	} else {
		var a windows.SockaddrInet6
		a.Port = addr.Port
		copy(a.Addr[:], addr.IP.To16())
		remote = &a
	}

	ov := &windows.Overlapped{}
	var sent uint32
	err = windows.ConnectEx(h, remote, nil, 0, &sent, ov)
	if err == nil {
		// Completed synchronously; socketError's first GetOverlappedResult
		// call will observe it immediately.
		connectOverlapped.Store(h, ov)
		return int(h), true, nil
	}
	if err == windows.ERROR_IO_PENDING {
		connectOverlapped.Store(h, ov)
		return int(h), true, nil
	}
	_ = windows.Closesocket(h)
	return 0, false, err
}

// socketError reports whether fd's outstanding ConnectEx has completed, and
// if so, whether it succeeded. A still-pending connect reports errWouldBlock
// so the Connector's Finishing state keeps waiting.
func socketError(fd int) error {
	h := windows.Handle(fd)
	v, ok := connectOverlapped.Load(h)
	if !ok {
		return nil
	}
	ov := v.(*windows.Overlapped)
	var transferred uint32
	err := windows.GetOverlappedResult(h, ov, &transferred, false)
	if err == windows.ERROR_IO_INCOMPLETE {
		return errWouldBlock
	}
	connectOverlapped.Delete(h)
	if err != nil {
		return err
	}
	return windows.Setsockopt(h, windows.SOL_SOCKET, windows.SO_UPDATE_CONNECT_CONTEXT, nil, 0)
}
