//go:build windows

package spsc

import (
	"time"

	"github.com/joeycumines/go-nexio/reactor"
)

// waker on Windows degrades to short-interval polling of the ring rather
// than a true cross-thread wake primitive: IOCP has no overlapped-I/O-
// compatible anonymous pipe, and standing up a loopback socket pair just to
// carry one wakeup byte is more machinery than the signal is worth. A
// PeriodicTimer bounds both the cost and the added latency.
type waker struct {
	timer *reactor.PeriodicTimer
}

func newWaker() (*waker, error) {
	return &waker{timer: reactor.NewPeriodicTimer(2 * time.Millisecond)}, nil
}

// notify is a no-op: the polling timer finds newly pushed data on its own.
func (w *waker) notify() {}

// reset has nothing to drain: the timer tier carries no consumable signal,
// so there's no pre-pop step needed to avoid losing one.
func (w *waker) reset(cx *reactor.Context) error { return nil }

// scheduleRead arms the next tick of the polling timer.
func (w *waker) scheduleRead(cx *reactor.Context) error {
	_, _, err := w.timer.Poll(cx)
	return err
}

func (w *waker) close() error { return nil }
