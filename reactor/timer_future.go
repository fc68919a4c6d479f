package reactor

import "time"

// wheelTier is the boundary below which Timer/PeriodicTimer use the precise
// heap instead of the coarse wheel: durations under one second have no
// representable wheel slot, and durations at or above it can tolerate the
// wheel's coarser [floor(d/1s)*1s, +2s) accuracy bound.
const wheelTier = time.Second

// Timer is a one-shot timer future: Poll returns Pending until its
// deadline, then Complete exactly once. It automatically uses the precise
// heap for sub-second durations and the coarse wheel otherwise.
type Timer struct {
	dur        time.Duration
	scheduled  bool
	heapEntry  *heapEntry
	wheelEntry *wheelEntry
}

// NewTimer returns a Timer that expires after d elapses from its first
// Poll call (not from construction — matching the source's lazy-arm
// futures, which only register with the reactor once actually polled).
func NewTimer(d time.Duration) *Timer { return &Timer{dur: d} }

func (t *Timer) Poll(cx *Context) (Poll, error) {
	r := cx.r
	if !t.scheduled {
		t.scheduled = true
		if t.dur < wheelTier {
			t.heapEntry = r.heap.scheduleOneshot(r.current, time.Now().Add(t.dur))
		} else {
			t.wheelEntry = r.wheel.schedule(r.current, t.dur)
		}
		return Pending, nil
	}
	if t.heapEntry != nil {
		if t.heapEntry.state == heapFired {
			return Complete, nil
		}
		return Pending, nil
	}
	if t.wheelEntry.fired {
		return Complete, nil
	}
	return Pending, nil
}

// Cancel deterministically removes the Timer's schedule entry. Go has no
// destructors, so callers that stop polling a Timer without an explicit
// Cancel leak its slot until it would have fired — harmless (it just
// resolves into a discarded Poll result) but best avoided for long-lived
// reactors with many outstanding timers.
func (t *Timer) Cancel(cx *Context) {
	if t.heapEntry != nil {
		cx.r.heap.cancel(t.heapEntry)
	} else if t.wheelEntry != nil {
		cx.r.wheel.cancel(t.wheelEntry)
	}
}

// PeriodicTimer is a Stream that yields an item on every tick of its
// period, forever, until Cancel is called — it never produces StreamDone on
// its own.
type PeriodicTimer struct {
	period       time.Duration
	armed        bool
	entry        *heapEntry
	lastDeadline time.Time
}

// NewPeriodicTimer returns a PeriodicTimer ticking every period. Periodic
// timers always use the precise heap (the wheel has no periodic-reinsert
// semantics distinct from its overflow-reinsert bookkeeping), so a short
// period stays accurate; a multi-second period simply means long gaps
// between heap pops, which is no more expensive than any other idle heap
// entry.
func NewPeriodicTimer(period time.Duration) *PeriodicTimer {
	return &PeriodicTimer{period: period}
}

func (t *PeriodicTimer) Poll(cx *Context) (StreamPoll, struct{}, error) {
	r := cx.r
	if !t.armed {
		t.armed = true
		t.entry = r.heap.schedulePeriodic(r.current, time.Now().Add(t.period), t.period)
		t.lastDeadline = t.entry.deadline
		return StreamPending, struct{}{}, nil
	}
	if t.entry.deadline.After(t.lastDeadline) {
		// fireHeapEntry bumped the deadline by one period and re-pushed the
		// same entry when it fired; observing a newer deadline than last
		// time is this Poll's only signal that a tick happened.
		t.lastDeadline = t.entry.deadline
		return StreamReady, struct{}{}, nil
	}
	return StreamPending, struct{}{}, nil
}

// Reschedule re-arms the timer for a fresh full period starting now,
// without waiting for the current period to finish — used by the Timeout
// Stream combinator to reset on every successfully produced element.
func (t *PeriodicTimer) Reschedule(cx *Context) {
	if t.entry != nil {
		cx.r.heap.cancel(t.entry)
	}
	t.armed = false
}

// Cancel stops the timer; subsequent Poll calls are not made.
func (t *PeriodicTimer) Cancel(cx *Context) {
	if t.entry != nil {
		cx.r.heap.cancel(t.entry)
	}
}

// Timeout wraps a Task with a deadline: if the inner Task has not completed
// by the time d elapses, Poll returns (Complete, ErrTimedOut). When the
// inner Task completes or fails, Poll cancels the timer; a Timeout that is
// simply no longer polled leaves its timer armed until it expires.
type Timeout struct {
	inner Task
	timer *Timer
}

// NewTimeout wraps inner with a deadline of d.
func NewTimeout(inner Task, d time.Duration) *Timeout {
	return &Timeout{inner: inner, timer: NewTimer(d)}
}

func (to *Timeout) Poll(cx *Context) (Poll, error) {
	p, err := to.inner.Poll(cx)
	if err != nil || p == Complete {
		to.timer.Cancel(cx)
		return p, err
	}
	tp, terr := to.timer.Poll(cx)
	if terr != nil {
		return Pending, terr
	}
	if tp == Complete {
		return Complete, ErrTimedOut
	}
	return Pending, nil
}

// TimeoutStream wraps a Stream with a per-element deadline: each
// successfully produced element resets the timer to the original interval;
// if the interval elapses with no element, Poll reports ErrTimedOut.
type TimeoutStream[T any] struct {
	inner    Stream[T]
	interval time.Duration
	timer    *PeriodicTimer
}

// NewTimeoutStream wraps inner, resetting a timer of length interval after
// every produced element.
func NewTimeoutStream[T any](inner Stream[T], interval time.Duration) *TimeoutStream[T] {
	return &TimeoutStream[T]{inner: inner, interval: interval, timer: NewPeriodicTimer(interval)}
}

func (ts *TimeoutStream[T]) Poll(cx *Context) (StreamPoll, T, error) {
	var zero T
	sp, v, err := ts.inner.Poll(cx)
	if err != nil || sp != StreamPending {
		if sp == StreamReady {
			ts.timer.Reschedule(cx)
		} else {
			ts.timer.Cancel(cx)
		}
		return sp, v, err
	}

	tp, _, _ := ts.timer.Poll(cx)
	if tp == StreamReady {
		ts.timer.Reschedule(cx)
		return StreamPending, zero, ErrTimedOut
	}
	return StreamPending, zero, nil
}
