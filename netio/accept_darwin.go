//go:build darwin

package netio

import (
	"net"

	"golang.org/x/sys/unix"
)

// acceptOne accepts one connection off in's listener. Darwin has no
// accept4, so the accepted fd is set non-blocking and close-on-exec
// immediately after.
func acceptOne(in *Incoming) (int, net.Addr, error) {
	nfd, sa, err := unix.Accept(in.l.io.Handle())
	if err == unix.EAGAIN {
		return 0, nil, errWouldBlock
	}
	if err != nil {
		return 0, nil, err
	}
	if err := unix.SetNonblock(nfd, true); err != nil {
		_ = unix.Close(nfd)
		return 0, nil, err
	}
	if _, err := unix.FcntlInt(uintptr(nfd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		_ = unix.Close(nfd)
		return 0, nil, err
	}
	return nfd, sockaddrToTCPAddr(sa), nil
}
