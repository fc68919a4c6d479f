package reactor

// PollableIO binds one OS handle (a raw fd on Unix, a SOCKET on Windows,
// represented as an int throughout this package per netio's platform
// shims) to a Reactor schedule slot. It tracks whether it
// has ever registered so Close is idempotent, and exposes the
// schedule/cancel/ready primitives every higher-level I/O future in netio
// and spsc is built on.
type PollableIO struct {
	r        *Reactor
	handle   int
	tok      Token
	interest Ops
	closed   bool
}

// NewPollableIO registers handle with interest, with the currently-polling
// task as the initial waiter for both directions.
func NewPollableIO(cx *Context, handle int, interest Ops) (*PollableIO, error) {
	tok, err := cx.r.RegisterIO(handle, interest)
	if err != nil {
		return nil, err
	}
	return &PollableIO{r: cx.r, handle: handle, tok: tok, interest: interest}, nil
}

// Handle returns the bound OS handle.
func (p *PollableIO) Handle() int { return p.handle }

// ScheduleRead arranges for the currently-polling task to be woken the next
// time handle becomes readable. A task that sees WouldBlock on a read MUST
// call this (directly or via a higher-level Recv) before returning
// Pending, or it parks forever.
func (p *PollableIO) ScheduleRead(cx *Context) error {
	p.interest |= OpRead
	return cx.r.ReregisterIO(p.handle, p.interest, p.tok, OpRead)
}

// ScheduleWrite is ScheduleRead's write-direction counterpart.
func (p *PollableIO) ScheduleWrite(cx *Context) error {
	p.interest |= OpWrite
	return cx.r.ReregisterIO(p.handle, p.interest, p.tok, OpWrite)
}

// CancelRead drops read interest: the handle is no longer polled for
// readability and no task is woken for it until ScheduleRead is called
// again.
func (p *PollableIO) CancelRead(cx *Context) error {
	p.interest &^= OpRead
	cx.r.CancelInterest(p.tok, OpRead)
	return cx.r.poller.reregister(p.handle, p.interest, p.tok)
}

// CancelWrite is CancelRead's write-direction counterpart.
func (p *PollableIO) CancelWrite(cx *Context) error {
	p.interest &^= OpWrite
	cx.r.CancelInterest(p.tok, OpWrite)
	return cx.r.poller.reregister(p.handle, p.interest, p.tok)
}

// IsReadReady reports whether the reactor has observed readability since
// the last WouldBlock-triggered ScheduleRead.
func (p *PollableIO) IsReadReady(cx *Context) bool { return cx.r.IsReady(p.tok, OpRead) }

// IsWriteReady is IsReadReady's write-direction counterpart.
func (p *PollableIO) IsWriteReady(cx *Context) bool { return cx.r.IsReady(p.tok, OpWrite) }

// Close deregisters the handle from the reactor. It does not close the
// underlying OS handle itself — that's the owning netio type's job — only
// the reactor-side bookkeeping.
func (p *PollableIO) Close(cx *Context) error {
	if p.closed {
		return nil
	}
	p.closed = true
	return cx.r.DeregisterIO(p.handle, p.tok)
}
