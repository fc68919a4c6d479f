// Package reactor implements the single-threaded, cooperative event loop
// that every connection and timer in this module runs on: one Reactor per
// OS thread, polling an OS readiness multiplexer and driving a slab of
// Tasks to completion without ever crossing a goroutine boundary itself.
// The only legal cross-thread conduits are the SPSC ring (see the spsc
// package) and the Awakener it is built on.
package reactor

// Ops is a bitset of the directions a registration is interested in.
type Ops uint8

const (
	// OpRead indicates interest in readability.
	OpRead Ops = 1 << iota
	// OpWrite indicates interest in writability.
	OpWrite
)

// Has reports whether o includes every bit set in other.
func (o Ops) Has(other Ops) bool { return o&other == other }

// Union returns o | other.
func (o Ops) Union(other Ops) Ops { return o | other }

// Intersect returns o & other.
func (o Ops) Intersect(other Ops) Ops { return o & other }

// Without returns o with other's bits cleared.
func (o Ops) Without(other Ops) Ops { return o &^ other }

// Token is an opaque handle a Poller hands back verbatim in Events; in this
// package it is always a schedule-slab index.
type Token int

// Event is one readiness notification: the directions that are ready, and
// the Token it was registered with.
type Event struct {
	Ready Ops
	Token Token
}

// poller abstracts the three OS readiness multiplexers (epoll, kqueue,
// IOCP) behind one interface. Every method is called only from the
// Reactor's own goroutine: no platform implementation needs internal
// locking, since a Reactor (and therefore its poller) is bound to a
// single OS thread for its entire lifetime.
type poller interface {
	// register begins monitoring handle for the directions in interest,
	// tagged with token.
	register(handle int, interest Ops, token Token) error
	// reregister changes the directions monitored for an already-registered
	// handle.
	reregister(handle int, interest Ops, token Token) error
	// deregister stops monitoring handle.
	deregister(handle int) error
	// poll blocks until at least one event is ready or timeout elapses (a
	// negative timeout waits forever), appending ready events to events and
	// returning the extended slice.
	poll(events []Event, timeoutMillis int) ([]Event, error)
	// close releases the underlying OS multiplexer handle.
	close() error
}

// newPoller constructs the platform poller. Exactly one of
// poller_linux.go/poller_darwin.go/poller_windows.go supplies this per
// build.
func newPoller() (poller, error) { return newPlatformPoller() }
