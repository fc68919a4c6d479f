package buf

import "io"

// RecvBlockSize is the capacity of each of RecvBuffer's two pre-allocated
// blocks.
const RecvBlockSize = 128 * 1024

// VectoredReader reads into multiple buffers with a single call, filling
// bufs[0] before spilling into bufs[1] and so on (readv/WSARecv scatter
// semantics). The return value is the total bytes landed across every
// buffer, in order.
type VectoredReader interface {
	ReadVec(bufs [][]byte) (int, error)
}

// RecvBuffer is a pair of pre-allocated blocks used as the target of a
// vectored receive. A read may fill the first block, spill into the
// second, or land entirely within one of the two; ReadIn always issues one
// scatter read across both regardless of how much data is actually
// pending, so a receive that happens to straddle the boundary costs no
// extra syscall.
//
// A RecvBuffer is meant to be shared by every connection driven by one
// Reactor (fetched lazily through Reactor.Scratch), standing in for a
// thread-local receive buffer: a Reactor is bound to exactly one goroutine
// for its life, so the buffer never needs its own locking.
type RecvBuffer struct {
	blocks [2]*Block
}

// NewRecvBuffer allocates a fresh RecvBuffer.
func NewRecvBuffer() *RecvBuffer {
	return &RecvBuffer{blocks: [2]*Block{NewBlock(RecvBlockSize), NewBlock(RecvBlockSize)}}
}

// ReadIn issues one vectored read against r and returns the bytes consumed
// as a new ByteBuf, splitting them off the two scratch blocks (zero-copy:
// the result shares the scratch blocks' Alloc refcounts). Whichever scratch
// block the read drained down to under a word of appendable room is
// replaced with a fresh RecvBlockSize block before returning, so the next
// call always has room for a full-size read. Returns io.EOF when the
// underlying read reports zero bytes with no error.
func (rb *RecvBuffer) ReadIn(r VectoredReader) (*ByteBuf, error) {
	tails := [][]byte{rb.blocks[0].WritableTail(), rb.blocks[1].WritableTail()}
	n, err := r.ReadVec(tails)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}

	n0 := n
	if n0 > len(tails[0]) {
		n0 = len(tails[0])
	}
	n1 := n - n0

	var blocks []*Block
	if b := rb.consume(0, n0); b != nil {
		blocks = append(blocks, b)
	}
	if b := rb.consume(1, n1); b != nil {
		blocks = append(blocks, b)
	}
	return &ByteBuf{blocks: blocks, growth: defaultGrowth}, nil
}

// consume commits n freshly-read bytes to blocks[i], splits them off as an
// independent Block, and replaces blocks[i] with whatever appendable
// capacity remains (or a fresh block, if that remainder is too small to be
// worth keeping).
func (rb *RecvBuffer) consume(i, n int) *Block {
	if n == 0 {
		return nil
	}
	blk := rb.blocks[i]
	blk.Commit(n)
	rest := blk.SplitOff(n)
	if rest.Appendable() < wordSize {
		rest.Release()
		rest = NewBlock(RecvBlockSize)
	}
	rb.blocks[i] = rest
	return blk
}

// Release drops both scratch blocks' Alloc references. Call only once the
// owning Reactor is being torn down.
func (rb *RecvBuffer) Release() {
	rb.blocks[0].Release()
	rb.blocks[1].Release()
}
