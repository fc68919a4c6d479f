// Package buf implements the segmented byte buffer that every codec and
// transport in this module reads from and writes into: a FIFO byte sequence
// presented as a chain of reference-counted Blocks, so that a payload can be
// handed off between layers (parsed, queued, written out) without copying.
package buf

// defaultGrowth is used whenever WithCapacity is called with c=0, and as the
// fallback per-grow allocation unit.
const defaultGrowth = 8 * 1024

// ByteBuf is a FIFO byte sequence backed by a chain of Blocks. Reads consume
// from the front, appends grow the back, prepends grow the front; the chain
// always holds at least one Block so Append/Prepend never need to special-
// case an empty buffer.
type ByteBuf struct {
	blocks []*Block
	idx    int // blocks[:idx] are fully consumed but not yet released
	growth int
}

// New returns an empty ByteBuf with the default growth unit.
func New() *ByteBuf { return WithCapacity(0) }

// WithCapacity returns an empty ByteBuf whose first Block (and growth unit)
// has capacity c, rounded up to a whole number of words (8 bytes) by the
// Block allocator. c=0 means "use the default of 8 KiB".
func WithCapacity(c int) *ByteBuf {
	if c == 0 {
		c = defaultGrowth
	}
	return &ByteBuf{blocks: []*Block{NewBlock(c)}, growth: c}
}

// SetGrowth sets the capacity used for Blocks allocated by future Reserve,
// Append or Prepend calls.
func (b *ByteBuf) SetGrowth(g int) { b.growth = g }

// Len returns the number of unread bytes across the active Block chain.
func (b *ByteBuf) Len() int {
	n := 0
	for _, blk := range b.blocks[b.idx:] {
		n += blk.Len()
	}
	return n
}

// IsEmpty reports whether Len() == 0.
func (b *ByteBuf) IsEmpty() bool { return b.Len() == 0 }

// ensureBlock restores the "at least one Block" invariant after an operation
// (SplitOff, DrainTo) that may have emptied the chain.
func (b *ByteBuf) ensureBlock() {
	if len(b.blocks) == 0 {
		b.blocks = []*Block{NewBlock(b.growth)}
		b.idx = 0
	}
}

// Skip advances the read position across blocks by up to n bytes, dropping
// full blocks (other than the last) from the active range as they're
// exhausted. It returns the number of bytes actually skipped, which is less
// than n iff the buffer was exhausted first.
func (b *ByteBuf) Skip(n int) int {
	skipped := 0
	for skipped < n && b.idx < len(b.blocks) {
		blk := b.blocks[b.idx]
		avail := blk.Len()
		remain := n - skipped
		if avail <= remain {
			blk.Advance(avail)
			skipped += avail
			if b.idx < len(b.blocks)-1 {
				b.idx++
			} else {
				break
			}
		} else {
			blk.Advance(remain)
			skipped += remain
		}
	}
	return skipped
}

// Compact physically drops blocks at [0, idx), releasing their Allocs, and
// resets idx to 0.
func (b *ByteBuf) Compact() {
	for i := 0; i < b.idx; i++ {
		b.blocks[i].Release()
	}
	n := copy(b.blocks, b.blocks[b.idx:])
	b.blocks = b.blocks[:n]
	b.idx = 0
	b.ensureBlock()
}

// TryReserveInHead carves out up to min(length, first block's capacity)
// bytes of prependable space from the first active block, provided that
// block is currently empty. It returns the number of bytes reserved.
func (b *ByteBuf) TryReserveInHead(length int) int {
	if b.idx >= len(b.blocks) {
		return 0
	}
	first := b.blocks[b.idx]
	if !first.IsEmpty() {
		return 0
	}
	reserved := length
	if reserved > first.cap {
		reserved = first.cap
	}
	first.repositionEmpty(reserved)
	return reserved
}

// Reserve ensures the last block has at least `additional` appendable bytes,
// allocating a new block of max(growth, additional) capacity otherwise.
func (b *ByteBuf) Reserve(additional int) {
	b.ensureBlock()
	last := b.blocks[len(b.blocks)-1]
	if last.Appendable() >= additional {
		return
	}
	size := b.growth
	if additional > size {
		size = additional
	}
	b.blocks = append(b.blocks, NewBlock(size))
}

// Extend moves other's remaining blocks onto the end of self's chain. other
// is left empty (but still usable: a fresh block is not allocated eagerly,
// Append/Reserve will lazily restore the invariant).
func (b *ByteBuf) Extend(other *ByteBuf) {
	b.blocks = append(b.blocks, other.blocks[other.idx:]...)
	other.blocks = other.blocks[:0]
	other.idx = 0
}

// splitAtBlockBoundary moves blocks[i:] wholesale into a new ByteBuf,
// avoiding a degenerate Block.SplitOff(0) call. Both self and the result are
// left with at least one block.
func (b *ByteBuf) splitAtBlockBoundary(i int) *ByteBuf {
	tail := append([]*Block(nil), b.blocks[i:]...)
	b.blocks = b.blocks[:i]
	if b.idx > len(b.blocks) {
		b.idx = len(b.blocks)
	}
	result := &ByteBuf{blocks: tail, growth: b.growth}
	b.ensureBlock()
	result.ensureBlock()
	return result
}

// SplitOff returns a new ByteBuf containing bytes [at, Len()); self retains
// [0, at). It fails with ErrIndexOutOfBounds if at exceeds the current
// length.
func (b *ByteBuf) SplitOff(at int) (*ByteBuf, error) {
	if at < 0 || at > b.Len() {
		return nil, ErrIndexOutOfBounds
	}
	remaining := at
	i := b.idx
	for {
		if remaining == 0 {
			return b.splitAtBlockBoundary(i), nil
		}
		if i >= len(b.blocks) {
			break
		}
		l := b.blocks[i].Len()
		if remaining < l {
			tail := b.blocks[i].SplitOff(remaining)
			rest := append([]*Block{tail}, b.blocks[i+1:]...)
			b.blocks = b.blocks[:i+1]
			return &ByteBuf{blocks: rest, growth: b.growth}, nil
		}
		remaining -= l
		i++
	}
	return b.splitAtBlockBoundary(i), nil
}

// AppendBlock attaches blk as the new last block of the chain, transferring
// ownership without copying. Used by the byte-sequence codec's "ownership
// transfer" fast path for large payloads.
func (b *ByteBuf) AppendBlock(blk *Block) {
	b.ensureBlock()
	b.blocks = append(b.blocks, blk)
}

// PrependBlock attaches blk as the new first active block of the chain,
// transferring ownership without copying.
func (b *ByteBuf) PrependBlock(blk *Block) {
	b.ensureBlock()
	b.blocks = append(b.blocks, nil)
	copy(b.blocks[b.idx+1:], b.blocks[b.idx:])
	b.blocks[b.idx] = blk
}

// DrainTo returns [0, at) and self retains [at, Len()): the same partition as
// SplitOff, with the two halves swapped.
func (b *ByteBuf) DrainTo(at int) (*ByteBuf, error) {
	tail, err := b.SplitOff(at)
	if err != nil {
		return nil, err
	}
	head := &ByteBuf{blocks: b.blocks, idx: b.idx, growth: b.growth}
	b.blocks = tail.blocks
	b.idx = tail.idx
	return head, nil
}
