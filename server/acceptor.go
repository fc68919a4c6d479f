package server

import (
	"sync/atomic"

	"github.com/joeycumines/go-nexio/internal/xlog"
	"github.com/joeycumines/go-nexio/netio"
	"github.com/joeycumines/go-nexio/reactor"
	"github.com/joeycumines/go-nexio/spsc"
)

// acceptorTask is the Server's main task on the acceptor Reactor: it
// drains the listener's Incoming stream and round-robin dispatches each
// accepted connection to the next non-saturated worker. It never completes
// on its own — Server.Run stops it by flipping shutdown and waking the
// Reactor.
type acceptorTask struct {
	incoming *netio.Incoming

	senders     []*spsc.Sender[dispatched]
	connCounts  []*atomic.Int64
	workerConns int
	next        int

	logger   xlog.Logger
	shutdown *atomic.Bool
}

func (t *acceptorTask) Poll(cx *reactor.Context) (reactor.Poll, error) {
	for {
		if t.shutdown.Load() {
			for _, s := range t.senders {
				s.Close()
			}
			return reactor.Complete, nil
		}

		sp, accepted, err := t.incoming.Poll(cx)
		if err != nil {
			// A hard accept error (not WouldBlock) is logged; the listener
			// is left as-is and will be retried the next time something
			// wakes this Reactor (another accept readiness event, or
			// shutdown).
			if t.logger.IsEnabled(xlog.LevelError) {
				t.logger.Log(xlog.Entry{Level: xlog.LevelError, Category: "server", Message: "accept error", Err: err})
			}
			return reactor.Pending, nil
		}

		switch sp {
		case reactor.StreamPending:
			return reactor.Pending, nil
		case reactor.StreamDone:
			for _, s := range t.senders {
				s.Close()
			}
			return reactor.Complete, nil
		case reactor.StreamReady:
			t.dispatch(cx, accepted)
		}
	}
}

// dispatch hands one accepted connection to the next worker with spare
// capacity, in round-robin order starting after the last successfully
// dispatched worker. If every worker is saturated the connection is
// closed and a warning logged.
func (t *acceptorTask) dispatch(cx *reactor.Context, accepted netio.Accepted) {
	idx, ok := t.pickWorker()
	if !ok {
		if t.logger.IsEnabled(xlog.LevelWarn) {
			t.logger.Log(xlog.Entry{Level: xlog.LevelWarn, Category: "server", Message: "all workers saturated, dropping connection"})
		}
		_ = accepted.Stream.Close(cx)
		return
	}

	fd, err := accepted.Stream.Detach(cx)
	if err != nil {
		if t.logger.IsEnabled(xlog.LevelError) {
			t.logger.Log(xlog.Entry{Level: xlog.LevelError, Category: "server", Message: "detach accepted stream", Err: err})
		}
		return
	}

	t.connCounts[idx].Add(1)
	sent, err := t.senders[idx].Send(dispatched{fd: fd, addr: accepted.Addr})
	if err != nil || !sent {
		// Lost a race against the worker's own saturation bookkeeping
		// (or the channel was already closed); undo the reservation and
		// drop the handle rather than leak it.
		t.connCounts[idx].Add(-1)
		if t.logger.IsEnabled(xlog.LevelWarn) {
			t.logger.Log(xlog.Entry{Level: xlog.LevelWarn, Category: "server", Message: "dispatch to worker failed, dropping connection", Err: err})
		}
		_ = netio.CloseFd(fd)
		return
	}
	t.next = (idx + 1) % len(t.connCounts)
}

func (t *acceptorTask) pickWorker() (int, bool) {
	n := len(t.connCounts)
	for i := 0; i < n; i++ {
		idx := (t.next + i) % n
		if t.connCounts[idx].Load() < int64(t.workerConns) {
			return idx, true
		}
	}
	return 0, false
}
