//go:build windows

package reactor

// iocpAwakener posts a zero-byte completion tagged wakeToken directly to
// the completion port via PostQueuedCompletionStatus. IOCP needs no
// fd-based wake primitive: the port itself is the wakeup channel, so drain
// is a no-op, there is nothing left to consume once poll has returned the
// event.
type iocpAwakener struct {
	p *iocpPoller
}

func newAwakener(p poller) (awakener, error) {
	return &iocpAwakener{p: p.(*iocpPoller)}, nil
}

func (a *iocpAwakener) wakeup() error {
	return postCompletion(a.p.iocp, uintptr(wakeToken))
}

func (a *iocpAwakener) drain() error { return nil }

func (a *iocpAwakener) close() error { return nil }
