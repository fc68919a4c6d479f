//go:build linux || darwin

package netio

import (
	"net"

	"golang.org/x/sys/unix"
)

// dialSocket creates a non-blocking socket and issues the OS connect call,
// reporting whether it completed synchronously.
func dialSocket(addr *net.TCPAddr) (fd int, inProgress bool, err error) {
	v4 := addr.IP.To4() != nil
	domain := unix.AF_INET
	if !v4 {
		domain = unix.AF_INET6
	}
	fd, err = unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return 0, false, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return 0, false, err
	}

	var sa unix.Sockaddr
	if v4 {
		var a unix.SockaddrInet4
		a.Port = addr.Port
		copy(a.Addr[:], addr.IP.To4())
		sa = &a
	} else {
		var a unix.SockaddrInet6
		a.Port = addr.Port
		copy(a.Addr[:], addr.IP.To16())
		sa = &a
	}

	err = unix.Connect(fd, sa)
	if err == nil {
		return fd, false, nil
	}
	if err == unix.EINPROGRESS {
		return fd, true, nil
	}
	_ = unix.Close(fd)
	return 0, false, err
}

// socketError reads SO_ERROR off fd, the deferred-error check a
// write-ready transition during a non-blocking connect requires.
func socketError(fd int) error {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if errno != 0 {
		return unix.Errno(errno)
	}
	return nil
}
