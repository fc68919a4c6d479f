//go:build windows

package netio

import (
	"net"
	"unsafe"

	"golang.org/x/sys/windows"
)

// sockaddrBufSize must be at least sizeof(sockaddr_in6)+16 per AcceptEx's
// documented buffer requirement; padded generously.
const sockaddrBufSize = 64

// winAcceptState is the per-Incoming, in-flight AcceptEx bookkeeping: a
// pre-created accept socket, its overlapped structure, and the address
// buffer AcceptEx writes local/remote sockaddrs into.
type winAcceptState struct {
	accept  windows.Handle
	ov      windows.Overlapped
	addrBuf [2 * sockaddrBufSize]byte
	pending bool
}

// acceptOne drives the Windows accept path: AcceptEx against a
// pre-created socket; on completion, SO_UPDATE_ACCEPT_CONTEXT then
// GetAcceptExSockaddrs recovers the peer address.
func acceptOne(in *Incoming) (int, net.Addr, error) {
	st, _ := in.state.(*winAcceptState)
	if st == nil {
		st = &winAcceptState{}
		in.state = st
	}
	listenFD := windows.Handle(in.l.io.Handle())

	if st.pending {
		var transferred uint32
		err := windows.GetOverlappedResult(listenFD, &st.ov, &transferred, false)
		if err == windows.ERROR_IO_INCOMPLETE {
			return 0, nil, errWouldBlock
		}
		st.pending = false
		if err != nil {
			_ = windows.Closesocket(st.accept)
			return 0, nil, err
		}
		return finishAccept(st, listenFD)
	}

	// No AcceptEx outstanding: create the pre-accept socket and issue one.
	domain := windows.AF_INET
	if a, ok := in.l.Addr().(*net.TCPAddr); ok && a.IP.To4() == nil {
		domain = windows.AF_INET6
	}
	h, err := newOverlappedSocket(domain)
	if err != nil {
		return 0, nil, err
	}
	st.accept = h
	st.ov = windows.Overlapped{}
	var recvd uint32
	err = windows.AcceptEx(listenFD, h, &st.addrBuf[0], 0, sockaddrBufSize, sockaddrBufSize, &recvd, &st.ov)
	if err == nil {
		// Completed synchronously; no need to wait for a later Poll.
		return finishAccept(st, listenFD)
	}
	if err == windows.ERROR_IO_PENDING {
		st.pending = true
		return 0, nil, errWouldBlock
	}
	_ = windows.Closesocket(h)
	return 0, nil, err
}

// finishAccept applies SO_UPDATE_ACCEPT_CONTEXT (required before the
// accepted socket supports getsockname/getpeername and most setsockopts)
// and parses the peer address out of AcceptEx's address buffer.
func finishAccept(st *winAcceptState, listenFD windows.Handle) (int, net.Addr, error) {
	if err := windows.Setsockopt(st.accept, windows.SOL_SOCKET, windows.SO_UPDATE_ACCEPT_CONTEXT,
		(*byte)(unsafe.Pointer(&listenFD)), int32(unsafe.Sizeof(listenFD))); err != nil {
		_ = windows.Closesocket(st.accept)
		return 0, nil, err
	}

	var local, remote *windows.RawSockaddrAny
	var localLen, remoteLen int32
	windows.GetAcceptExSockaddrs(&st.addrBuf[0], 0, sockaddrBufSize, sockaddrBufSize, &local, &localLen, &remote, &remoteLen)
	var addr net.Addr
	if sa, err := remote.Sockaddr(); err == nil {
		addr = sockaddrToTCPAddr(sa)
	}
	return int(st.accept), addr, nil
}
