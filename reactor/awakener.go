package reactor

// wakeToken is the reserved Token used for wakeup events. It is never
// handed out by the schedule slab (index 0 there is a legitimate task), so
// a poll loop can distinguish a wakeup from a real I/O readiness event by
// comparing against this constant alone.
const wakeToken Token = -1

// awakener is the cross-thread wakeup primitive: the only way another
// goroutine may interrupt a Reactor's blocking poll call. wakeup is safe to
// call concurrently with itself and with the Reactor's own goroutine;
// idempotent repeated calls before the Reactor observes them must not block
// or panic. drain is called from the Reactor's own goroutine after a wakeup
// event to reset the primitive for the next one.
type awakener interface {
	wakeup() error
	drain() error
	close() error
}
