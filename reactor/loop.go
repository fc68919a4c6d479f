package reactor

import (
	"fmt"
	"time"

	"github.com/eapache/queue"
	"github.com/joeycumines/go-nexio/internal/xlog"
	"github.com/joeycumines/go-nexio/slab"
)

// mainTaskID is the reserved sentinel TaskID meaning "the root main task",
// tracked as a dedicated Reactor field rather than a magic slab index. It
// is a legitimate waiter value (the main task
// may register I/O or await a Timer itself) — it is never a key into the
// tasks slab, but it IS a valid "who is waiting" value.
const mainTaskID TaskID = -1

// noTaskID is a second, purely internal sentinel meaning "nobody is
// currently waiting on this direction" — distinct from mainTaskID, which
// means the main task specifically is waiting. Never returned to callers.
const noTaskID TaskID = -2

// TaskID identifies a spawned Task by its stable index in the Reactor's
// task slab. mainTaskID is the one reserved, out-of-slab value meaning "the
// main task".
type TaskID int

// Schedule is the reactor-side record of which task(s) are waiting on which
// direction of one registered OS handle.
type Schedule struct {
	ReadTask, WriteTask   TaskID
	ReadReady, WriteReady bool
}

// Reactor is the thread-local, single-threaded event loop: it owns a task
// slab, a schedule slab, an OS readiness multiplexer, an Awakener, and the
// two-tier timer subsystem. A Reactor must be driven by exactly one
// goroutine for its entire life — nothing in this package or in netio/spsc
// synchronizes access to it; every field below is touched only by that one
// goroutine.
type Reactor struct {
	tasks     slab.Slab[Task]
	schedules slab.Slab[Schedule]
	current   TaskID

	poller poller
	wake   awakener
	events []Event

	ready *queue.Queue // FIFO of TaskID due for a re-poll this pass

	gate int
	main Task

	wheel *wheel
	heap  *timerHeap

	logger  xlog.Logger
	scratch map[any]any
}

// New constructs a Reactor bound to a freshly opened OS poller and
// Awakener. Callers run it with Run.
func New(opts ...Option) (*Reactor, error) {
	o := resolveOptions(opts)

	p, err := newPoller()
	if err != nil {
		return nil, fmt.Errorf("reactor: open poller: %w", err)
	}
	w, err := newAwakener(p)
	if err != nil {
		_ = p.close()
		return nil, fmt.Errorf("reactor: open awakener: %w", err)
	}

	r := &Reactor{
		current: mainTaskID,
		poller:  p,
		wake:    w,
		events:  make([]Event, 0, o.eventsCap),
		ready:   queue.New(),
		wheel:   newWheel(o.wheelSlots),
		heap:    newTimerHeap(),
		logger:  o.logger,
	}
	return r, nil
}

// Logger returns the Reactor's configured Logger.
func (r *Reactor) Logger() xlog.Logger { return r.logger }

// Scratch fetches the value stored under key, lazily creating it with
// create if absent. Since a Reactor is driven by exactly one goroutine for
// its entire life, this is the per-goroutine storage other packages (e.g.
// netio's receive buffer) use instead of a package-level map keyed by
// *Reactor: the resource's lifetime is tied to the Reactor itself, not to
// a process-wide cache that would otherwise have to be cleaned up by hand.
func (r *Reactor) Scratch(key any, create func() any) any {
	if v, ok := r.scratch[key]; ok {
		return v
	}
	v := create()
	if r.scratch == nil {
		r.scratch = make(map[any]any)
	}
	r.scratch[key] = v
	return v
}

// Close releases the poller and awakener. Call only after Run has
// returned.
func (r *Reactor) Close() error {
	err1 := r.poller.close()
	err2 := r.wake.close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Wake interrupts a Run loop blocked in poll from another goroutine. It is
// the only Reactor method safe to call off the Reactor's own goroutine.
func (r *Reactor) Wake() error { return r.wake.wakeup() }

// Run sets main as the root task and drives the event loop until it (and
// every outstanding gate) has completed.
func (r *Reactor) Run(main Task) error {
	r.main = main
	cx := &Context{r: r}

	for {
		r.runTask(cx, mainTaskID)
		if r.main == nil && r.gate == 0 {
			return nil
		}

		r.drainReady(cx)
		if r.main == nil && r.gate == 0 {
			return nil
		}

		timeout := r.nextTimeout()
		events, err := r.poller.poll(r.events[:0], timeout)
		if err != nil {
			// Every task's liveness depends on the poller; a failure here
			// can't be recovered from, so it's treated as fatal rather
			// than threaded back through every Task's Poll.
			panic(fmt.Errorf("reactor: poller.poll: %w", err))
		}
		r.events = events

		for _, ev := range events {
			if ev.Token == wakeToken {
				_ = r.wake.drain()
				continue
			}
			sched := r.schedules.Get(int(ev.Token))
			if sched == nil {
				continue
			}
			if ev.Ready.Has(OpRead) {
				sched.ReadReady = true
				if sched.ReadTask != noTaskID {
					r.ready.Add(sched.ReadTask)
				}
			}
			if ev.Ready.Has(OpWrite) {
				sched.WriteReady = true
				if sched.WriteTask != noTaskID {
					r.ready.Add(sched.WriteTask)
				}
			}
		}

		r.fireTimers()
	}
}

// drainReady runs every TaskID queued by the previous poll/timer pass,
// until empty: a plain FIFO of pending work items drained before the next
// blocking poll, backed here by github.com/eapache/queue since nothing in
// this path needs front-insertion (see DESIGN.md).
func (r *Reactor) drainReady(cx *Context) {
	for r.ready.Length() > 0 {
		id := r.ready.Remove().(TaskID)
		r.runTask(cx, id)
	}
}

// runTask polls the task named by id (mainTaskID included) and removes it
// from the slab if it has finished.
func (r *Reactor) runTask(cx *Context, id TaskID) {
	if id == mainTaskID {
		if r.main == nil {
			return
		}
		prev := r.current
		r.current = mainTaskID
		p, err := r.main.Poll(cx)
		r.current = prev
		if err != nil {
			r.logger.Log(xlog.Entry{Level: xlog.LevelError, Category: "reactor", Message: "main task error", Err: err})
			r.main = nil
		} else if p == Complete {
			r.main = nil
		}
		return
	}

	t := r.tasks.Get(int(id))
	if t == nil {
		// Already removed (e.g. both read and write woke the same task in
		// one pass); nothing to do.
		return
	}
	prev := r.current
	r.current = id
	p, err := (*t).Poll(cx)
	r.current = prev

	if err != nil {
		r.logger.Log(xlog.Entry{Level: xlog.LevelWarn, Category: "reactor", Message: "task error", Err: err, Fields: map[string]any{"task": int(id)}})
		r.tasks.Remove(int(id))
	} else if p == Complete {
		r.tasks.Remove(int(id))
	}
}

// Spawn inserts t into the task slab and polls it once immediately (an
// eager first poll, so that synchronously-Ready futures never occupy a
// slab slot). It returns the TaskID for tasks that
// remain Pending; a task that completed synchronously is not retrievable
// (it has already been dropped), matching the source's fire-and-forget
// spawn semantics.
func (r *Reactor) Spawn(cx *Context, t Task) TaskID {
	id := TaskID(r.tasks.Insert(t))
	prev := r.current
	r.current = id
	p, err := t.Poll(cx)
	r.current = prev

	if err != nil {
		r.logger.Log(xlog.Entry{Level: xlog.LevelWarn, Category: "reactor", Message: "spawned task error", Err: err})
		r.tasks.Remove(int(id))
	} else if p == Complete {
		r.tasks.Remove(int(id))
	}
	return id
}

// EnterGate increments the gate counter, extending the loop's lifetime past
// main-task completion. It fails once the main task has already finished:
// the loop is draining and rejects new holds.
func (r *Reactor) EnterGate() error {
	if r.main == nil {
		return ErrGateClosed
	}
	r.gate++
	return nil
}

// LeaveGate releases one hold acquired by EnterGate.
func (r *Reactor) LeaveGate() { r.gate-- }

// RegisterIO inserts a Schedule for handle, with both directions' waiter
// set to the currently-polling task, then registers it with the OS poller.
// On poller failure the Schedule insert is rolled back.
func (r *Reactor) RegisterIO(handle int, interest Ops) (Token, error) {
	idx := r.schedules.Insert(Schedule{ReadTask: r.current, WriteTask: r.current})
	tok := Token(idx)
	if err := r.poller.register(handle, interest, tok); err != nil {
		r.schedules.Remove(idx)
		return 0, err
	}
	return tok, nil
}

// ReregisterIO updates the poller's interest set for handle/tok, and
// reassigns the waiter for each direction named in reassign to the
// currently-polling task.
func (r *Reactor) ReregisterIO(handle int, interest Ops, tok Token, reassign Ops) error {
	sched := r.schedules.Get(int(tok))
	if sched == nil {
		return ErrUnknownSchedule
	}
	if reassign.Has(OpRead) {
		sched.ReadTask = r.current
		sched.ReadReady = false
	}
	if reassign.Has(OpWrite) {
		sched.WriteTask = r.current
		sched.WriteReady = false
	}
	return r.poller.reregister(handle, interest, tok)
}

// DeregisterIO removes handle from the poller and frees its Schedule slot.
func (r *Reactor) DeregisterIO(handle int, tok Token) error {
	err := r.poller.deregister(handle)
	r.schedules.Remove(int(tok))
	return err
}

// CancelInterest clears the waiter for the named directions of tok without
// touching the poller registration (used when a direction is satisfied and
// the task no longer wants to be woken for it, e.g. Sender.PollSend once
// its buffer drains).
func (r *Reactor) CancelInterest(tok Token, dir Ops) {
	sched := r.schedules.Get(int(tok))
	if sched == nil {
		return
	}
	if dir.Has(OpRead) {
		sched.ReadTask = noTaskID
	}
	if dir.Has(OpWrite) {
		sched.WriteTask = noTaskID
	}
}

// IsReady reports whether dir (a single direction) is currently marked
// ready for tok.
func (r *Reactor) IsReady(tok Token, dir Ops) bool {
	sched := r.schedules.Get(int(tok))
	if sched == nil {
		return false
	}
	if dir.Has(OpRead) && sched.ReadReady {
		return true
	}
	if dir.Has(OpWrite) && sched.WriteReady {
		return true
	}
	return false
}

// nextTimeout computes the poller timeout in whole milliseconds (ceil of
// any sub-millisecond remainder), combining the precise heap's next
// deadline and the wheel's next 1-second tick boundary.
func (r *Reactor) nextTimeout() int {
	deadline := r.wheel.nextTickAt()
	if d, ok := r.heap.nextDeadline(); ok && d.Before(deadline) {
		deadline = d
	}
	d := time.Until(deadline)
	if d <= 0 {
		return 0
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}

// fireTimers drains both timer tiers: every precise-heap entry whose
// deadline has passed, then however many whole 1-second wheel ticks have
// elapsed (coalescing if the loop was blocked in poll longer than 1s).
func (r *Reactor) fireTimers() {
	now := time.Now()
	for {
		e, ok := r.heap.popExpired(now)
		if !ok {
			break
		}
		r.fireHeapEntry(e)
	}

	for i := r.wheel.ticksDue(now); i > 0; i-- {
		for _, id := range r.wheel.tick() {
			if id != noTaskID {
				r.ready.Add(id)
			}
		}
	}
}
