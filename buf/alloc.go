package buf

import (
	"github.com/valyala/bytebufferpool"
)

// wordSize is the machine word size used to compute alignment padding for
// freshly acquired Allocs; keeping every region word-aligned avoids unaligned
// access penalties when a Block is reinterpreted as fixed-width integers.
const wordSize = 8 // uintptr is 8 bytes on every platform this repo targets

// alloc is an owned, shared-refcounted byte region. It is the sole owner of
// the memory backing every Block that points into it; the memory is returned
// to the pool only once the last referencing Block releases it.
//
// alloc is NOT thread-safe: Blocks (and therefore their Allocs) never cross a
// goroutine/thread boundary, so the refcount is a plain int rather than an
// atomic.
type alloc struct {
	buf    *bytebufferpool.ByteBuffer
	cap    int
	refs   int
	pooled bool // false for externally-adopted byte slices (BlockFromBytes)
}

// defaultPool is shared by every acquireAlloc call in this process. Pooling
// at process scope rather than per-Reactor keeps the pool effective even
// when connections migrate between worker reactors: one pool, many
// short-lived connections.
var defaultPool bytebufferpool.Pool

// acquireAlloc reserves a word-aligned region of at least cap bytes.
func acquireAlloc(cap int) *alloc {
	words := (cap + wordSize - 1) / wordSize
	if words == 0 {
		words = 1
	}
	aligned := words * wordSize

	b := defaultPool.Get()
	if c := cap2(b); c < aligned {
		b.B = append(b.B[:0], make([]byte, aligned)...)
	} else {
		b.B = b.B[:aligned]
	}

	return &alloc{buf: b, cap: aligned, refs: 1, pooled: true}
}

// wrapExternal adopts an externally-owned slice without copying; the region
// is never returned to defaultPool since bytebufferpool did not allocate it.
func wrapExternal(b []byte) *bytebufferpool.ByteBuffer {
	return &bytebufferpool.ByteBuffer{B: b}
}

// cap2 returns the capacity of the backing slice (not its length).
func cap2(b *bytebufferpool.ByteBuffer) int { return cap(b.B) }

func (a *alloc) bytes() []byte { return a.buf.B }

func (a *alloc) retain() { a.refs++ }

// release decrements the refcount, returning the region to the pool once it
// reaches zero. Calling release on an already-freed alloc is a programmer
// error (mirrors the source's "undefined to touch a released Block").
func (a *alloc) release() {
	a.refs--
	if a.refs == 0 {
		if a.pooled {
			defaultPool.Put(a.buf)
		}
		a.buf = nil
	}
}
