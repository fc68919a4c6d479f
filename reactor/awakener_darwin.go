//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package reactor

import "golang.org/x/sys/unix"

// selfPipeAwakener is the BSD/macOS awakener: a non-blocking self-pipe.
// kqueue has no eventfd equivalent, so a byte written to the pipe's write
// end is what makes the read end readable under EVFILT_READ.
type selfPipeAwakener struct {
	readFD, writeFD int
}

func newAwakener(p poller) (awakener, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	readFD, writeFD := fds[0], fds[1]
	if err := unix.SetNonblock(readFD, true); err != nil {
		_ = unix.Close(readFD)
		_ = unix.Close(writeFD)
		return nil, err
	}
	if err := unix.SetNonblock(writeFD, true); err != nil {
		_ = unix.Close(readFD)
		_ = unix.Close(writeFD)
		return nil, err
	}
	if err := p.register(readFD, OpRead, wakeToken); err != nil {
		_ = unix.Close(readFD)
		_ = unix.Close(writeFD)
		return nil, err
	}
	return &selfPipeAwakener{readFD: readFD, writeFD: writeFD}, nil
}

func (a *selfPipeAwakener) wakeup() error {
	var b [1]byte
	_, err := unix.Write(a.writeFD, b[:])
	if err == unix.EAGAIN {
		// Pipe buffer already holds an unread wakeup byte.
		return nil
	}
	return err
}

func (a *selfPipeAwakener) drain() error {
	var buf [64]byte
	for {
		_, err := unix.Read(a.readFD, buf[:])
		if err == unix.EAGAIN {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *selfPipeAwakener) close() error {
	_ = unix.Close(a.writeFD)
	return unix.Close(a.readFD)
}
