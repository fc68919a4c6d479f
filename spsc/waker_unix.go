//go:build linux || darwin

package spsc

import (
	"golang.org/x/sys/unix"

	"github.com/joeycumines/go-nexio/reactor"
)

// waker is the cross-thread signal a Sender uses to interrupt a Reactor
// blocked in its poll, bound to exactly one Receiver — a self-pipe
// registered as ordinary readable I/O rather than the reactor's own
// reserved wake token, so any number of channels can each have one without
// colliding.
type waker struct {
	readFD, writeFD int
	io              *reactor.PollableIO
}

func newWaker() (*waker, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(fds[0])
			_ = unix.Close(fds[1])
			return nil, err
		}
	}
	return &waker{readFD: fds[0], writeFD: fds[1]}, nil
}

// notify is safe to call from any goroutine, including ones with no Reactor
// of their own.
func (w *waker) notify() {
	var b [1]byte
	for {
		_, err := unix.Write(w.writeFD, b[:])
		if err == unix.EINTR {
			continue
		}
		return
	}
}

// reset binds the waker to cx's Reactor on first use and drains any
// pending signal. It must be called, and its drain observed, before the
// ring is checked for a park decision — draining after an empty pop (the
// original ordering this was ported from: Rust's `Receiving::poll` resets
// before `try_pop`, never after) can consume a notify byte for a value
// that was pushed in the gap between the empty pop and the drain, leaving
// nothing left to re-arm a level-triggered read on.
func (w *waker) reset(cx *reactor.Context) error {
	if w.io == nil {
		io, err := reactor.NewPollableIO(cx, w.readFD, reactor.OpRead)
		if err != nil {
			return err
		}
		w.io = io
	}
	if w.io.IsReadReady(cx) {
		w.drain()
	}
	return nil
}

// scheduleRead arms the current task to be resumed the next time notify
// is called. Only called once a post-reset pop still finds the ring empty.
func (w *waker) scheduleRead(cx *reactor.Context) error {
	return w.io.ScheduleRead(cx)
}

func (w *waker) drain() {
	var buf [64]byte
	for {
		n, err := unix.Read(w.readFD, buf[:])
		if err != nil || n <= 0 {
			return
		}
	}
}

// close releases the pipe fds. It does not deregister from the Reactor:
// Reactor.Close tears down the whole poller at once, and a Receiver dropped
// before that happens leaves no dangling Go-side state either way.
func (w *waker) close() error {
	err1 := unix.Close(w.readFD)
	err2 := unix.Close(w.writeFD)
	if err1 != nil {
		return err1
	}
	return err2
}
