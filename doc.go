// Package nexio is a single-threaded, event-driven async networking
// runtime: one reactor per OS thread multiplexes many TCP connections,
// built on a segmented, zero-copy byte buffer tuned for scatter/gather I/O.
//
// Subpackages, leaves first:
//
//	slab      stable-index arena with free-list recycling
//	buf       Alloc/Block/ByteBuf: the segmented, refcounted byte buffer
//	buf/codec typed encode/decode over ByteBuf (fixed-width ints, varint, utf8, raw bytes)
//	reactor   the event loop: OS poller, awakener, task slab, timers
//	spsc      cross-thread single-producer/single-consumer channel integration
//	netio     non-blocking TCP listener/stream built on the reactor
//	framing   length-prefixed frame streams over a raw byte-chunk Stream
//	server    TCP acceptor + worker-reactor-pool scaffold
//
// A Reactor must be driven by exactly one goroutine for its entire life;
// nothing in this module synchronizes concurrent access to one. The only
// sanctioned way to move work across goroutines is spsc's bounded channel,
// or server's own acceptor-to-worker connection handoff.
package nexio
