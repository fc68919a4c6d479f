//go:build linux

package netio

import (
	"net"

	"golang.org/x/sys/unix"
)

// acceptOne accepts one connection off in's listener using accept4 with
// SOCK_NONBLOCK|SOCK_CLOEXEC in one syscall. Linux needs no cross-call
// state, unlike the Windows AcceptEx path.
func acceptOne(in *Incoming) (int, net.Addr, error) {
	nfd, sa, err := unix.Accept4(in.l.io.Handle(), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err == unix.EAGAIN {
		return 0, nil, errWouldBlock
	}
	if err != nil {
		return 0, nil, err
	}
	return nfd, sockaddrToTCPAddr(sa), nil
}
