package reactor

// Poll is the result of driving a Task (or Timer, or Stream) forward by one
// step: either it has more work to do (Pending) or it has produced its final
// value (Complete). This is the Go stand-in for the source's Future::poll
// return value, collapsed to two variants since Go has no enum payload to
// smuggle a result through — callers read the result (or error) out of
// whatever concrete type they polled.
type Poll int

const (
	// Pending means the Task is not finished; it has arranged (via Context,
	// a Timer, or an SPSC Stream) to be polled again once something changes.
	// It may still be polled before then: the Reactor polls its main task on
	// every loop iteration.
	Pending Poll = iota
	// Complete means the Task is finished and must be removed from the
	// Reactor's task slab; it is never polled again.
	Complete
)

// Task is an opaque unit of work the Reactor drives to completion. It is
// the Go analogue of the source's `Future<Output = ()>`: Poll is called
// repeatedly until it returns (Complete, nil) or a non-nil error, at which
// point the Reactor drops its reference.
type Task interface {
	Poll(cx *Context) (Poll, error)
}

// TaskFunc adapts a plain function to Task, for tasks with no state beyond
// what the closure captures.
type TaskFunc func(cx *Context) (Poll, error)

// Poll calls f.
func (f TaskFunc) Poll(cx *Context) (Poll, error) { return f(cx) }

// Context is the scoped handle a Task receives on every Poll call, standing
// in for the source's thread-local "current reactor". Rather than reach for
// ambient global state, every reactor-aware API (Spawn, registration,
// timers) takes a *Context explicitly, obtained only from inside a Poll
// call, so an implementation can never accidentally touch a Reactor it
// isn't currently being driven by.
type Context struct {
	r *Reactor
}

// NewContext wraps r for use by a single Poll call. Exported so tests (and
// packages that drive a Reactor directly, e.g. server) can construct one
// without reaching into Reactor internals.
func NewContext(r *Reactor) *Context { return &Context{r: r} }

// Reactor returns the Reactor this Context is bound to.
func (cx *Context) Reactor() *Reactor { return cx.r }

// StreamPoll is the result of polling a Stream for its next item, the
// multi-value analogue of Poll.
type StreamPoll int

const (
	// StreamPending means no item is available yet; the Stream has
	// arranged to be polled again.
	StreamPending StreamPoll = iota
	// StreamReady means an item was produced; it accompanies that value
	// (which may be the zero value of T) from the same Poll call.
	StreamReady
	// StreamDone means the Stream is exhausted and will never produce
	// another item.
	StreamDone
)

// Stream is a Task that produces a sequence of values instead of a single
// completion, the Go analogue of the source's `Stream<Item = T>`. Every
// streaming component in this module (SPSC receivers, framers, TCP
// Incoming, PeriodicTimer) implements this over its own item type.
type Stream[T any] interface {
	Poll(cx *Context) (StreamPoll, T, error)
}
