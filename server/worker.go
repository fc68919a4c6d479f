package server

import (
	"sync/atomic"

	"github.com/joeycumines/go-nexio/internal/xlog"
	"github.com/joeycumines/go-nexio/netio"
	"github.com/joeycumines/go-nexio/reactor"
	"github.com/joeycumines/go-nexio/spsc"
)

// workerTask is the main task on one worker Reactor: it drains dispatched
// connections off its SPSC channel, adopts each onto this Reactor, and
// hands the resulting Session to the Handler.
type workerTask struct {
	recv    *spsc.Receiver[dispatched]
	handler Handler
	count   *atomic.Int64
	logger  xlog.Logger
}

func (t *workerTask) Poll(cx *reactor.Context) (reactor.Poll, error) {
	for {
		sp, d, err := t.recv.Poll(cx)
		if err != nil {
			if t.logger.IsEnabled(xlog.LevelError) {
				t.logger.Log(xlog.Entry{Level: xlog.LevelError, Category: "server", Message: "worker channel error", Err: err})
			}
			return reactor.Pending, nil
		}
		switch sp {
		case reactor.StreamPending:
			return reactor.Pending, nil
		case reactor.StreamDone:
			return reactor.Complete, nil
		case reactor.StreamReady:
			t.spawn(cx, d)
		}
	}
}

func (t *workerTask) spawn(cx *reactor.Context, d dispatched) {
	stream, err := netio.AdoptStream(cx, d.fd)
	if err != nil {
		t.count.Add(-1)
		_ = netio.CloseFd(d.fd)
		if t.logger.IsEnabled(xlog.LevelError) {
			t.logger.Log(xlog.Entry{Level: xlog.LevelError, Category: "server", Message: "adopt dispatched connection", Err: err})
		}
		return
	}

	sess := &Session{Stream: stream, Addr: d.addr, count: t.count}
	task, err := t.handler.Handle(cx, sess)
	if err != nil {
		if t.logger.IsEnabled(xlog.LevelWarn) {
			t.logger.Log(xlog.Entry{Level: xlog.LevelWarn, Category: "server", Message: "handler error", Err: err})
		}
		_ = sess.Close(cx)
		return
	}
	if task == nil {
		return
	}
	cx.Reactor().Spawn(cx, task)
}
