//go:build linux

package reactor

import "golang.org/x/sys/unix"

// eventfdAwakener is the Linux awakener. A single eventfd serves as both
// ends: writing any non-zero 8-byte value increments its internal counter
// and makes it readable, reading drains the counter back to zero.
type eventfdAwakener struct {
	fd int
}

func newAwakener(p poller) (awakener, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	if err := p.register(fd, OpRead, wakeToken); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return &eventfdAwakener{fd: fd}, nil
}

func (a *eventfdAwakener) wakeup() error {
	var buf [8]byte
	buf[7] = 1
	_, err := unix.Write(a.fd, buf[:])
	if err == unix.EAGAIN {
		// Counter is already non-zero: a wakeup is already pending.
		return nil
	}
	return err
}

func (a *eventfdAwakener) drain() error {
	var buf [8]byte
	for {
		_, err := unix.Read(a.fd, buf[:])
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *eventfdAwakener) close() error {
	return unix.Close(a.fd)
}
