package spsc

import "github.com/joeycumines/go-nexio/reactor"

// New creates a bounded channel of capacity slots (rounded up to the next
// power of two), returning its two endpoints. Exactly one goroutine may use
// the Sender and exactly one Reactor, via the Receiver's Poll method, may
// drain it.
func New[T any](capacity int) (*Sender[T], *Receiver[T], error) {
	w, err := newWaker()
	if err != nil {
		return nil, nil, err
	}
	rg := newRing[T](capacity)
	return &Sender[T]{ring: rg, wake: w}, &Receiver[T]{ring: rg, wake: w}, nil
}

// Sender is the producer half of a channel. Send may be called from any
// goroutine, including ones with no Reactor of their own.
type Sender[T any] struct {
	ring   *ring[T]
	wake   *waker
	closed bool
}

// Send enqueues v, returning false if the channel is full. It is safe to
// call concurrently with the Receiver's Poll, but never from more than one
// goroutine itself (single-producer).
func (s *Sender[T]) Send(v T) (bool, error) {
	if s.closed {
		return false, ErrSendOnClosed
	}
	ok := s.ring.push(v)
	if ok {
		s.wake.notify()
	}
	return ok, nil
}

// Close marks the channel as finished: once the Receiver has drained every
// already-sent value, its Poll reports StreamDone. Close is idempotent.
func (s *Sender[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ring.closeSender()
	s.wake.notify()
}

// Receiver is the consumer half of a channel, implementing
// reactor.Stream[T]. It must only ever be polled by tasks running on one
// Reactor for its whole lifetime.
type Receiver[T any] struct {
	ring *ring[T]
	wake *waker
}

// Poll implements reactor.Stream[T]. It resets (drains) the waker before
// checking the ring, not after: the park decision is always made on a
// post-drain pop, so a Send racing the drain is never stranded behind a
// consumed notify byte.
func (r *Receiver[T]) Poll(cx *reactor.Context) (reactor.StreamPoll, T, error) {
	var zero T
	if err := r.wake.reset(cx); err != nil {
		return reactor.StreamPending, zero, err
	}
	if v, ok := r.ring.pop(); ok {
		return reactor.StreamReady, v, nil
	}
	if r.ring.drained() {
		return reactor.StreamDone, zero, nil
	}
	if err := r.wake.scheduleRead(cx); err != nil {
		return reactor.StreamPending, zero, err
	}
	return reactor.StreamPending, zero, nil
}

// Len reports how many values are currently buffered, for diagnostics.
func (r *Receiver[T]) Len() int { return r.ring.len() }

// Close releases the Receiver's reactor-side registration. It does not
// affect the Sender, which may still call Send (those values are simply
// never drained).
func (r *Receiver[T]) Close() error { return r.wake.close() }
