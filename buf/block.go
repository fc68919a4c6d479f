package buf

// Block is a view into a shared Alloc with independent read and write
// cursors. Cloning a Block (via split) clones the reference to the Alloc,
// never the bytes: two Blocks with the same Alloc never have overlapping
// [ptr, ptr+cap) ranges after a split, which is the zero-copy guarantee the
// rest of this package depends on.
type Block struct {
	a        *alloc
	off      int // base offset of this view within a.bytes()
	cap      int // size of this view, in bytes
	readPos  int // relative to off; 0 <= readPos <= writePos <= cap
	writePos int
}

// NewBlock allocates a fresh Block with at least the given capacity (rounded
// up to a whole number of words, 8 bytes), empty and positioned for append
// (read_pos = write_pos = 0).
func NewBlock(cap int) *Block {
	a := acquireAlloc(cap)
	return &Block{a: a, off: 0, cap: a.cap}
}

// NewBlockForPrepend allocates a fresh Block positioned at the end of its
// capacity (read_pos = write_pos = cap), so that prepends are immediately
// possible without growth.
func NewBlockForPrepend(cap int) *Block {
	a := acquireAlloc(cap)
	return &Block{a: a, off: 0, cap: a.cap, readPos: a.cap, writePos: a.cap}
}

// BlockFromBytes wraps an external byte slice, transferring its storage into
// a fresh Alloc-backed Block with read_pos=0, write_pos=len(b). Used by the
// zero-copy "ownership transfer" fast path in the u8s codec
// (append_bytes/prepend_bytes for payloads >= 6 KiB).
func BlockFromBytes(b []byte) *Block {
	a := &alloc{buf: wrapExternal(b), cap: len(b), refs: 1}
	return &Block{a: a, off: 0, cap: len(b), writePos: len(b)}
}

func (b *Block) Len() int         { return b.writePos - b.readPos }
func (b *Block) Appendable() int  { return b.cap - b.writePos }
func (b *Block) Prependable() int { return b.readPos }
func (b *Block) IsEmpty() bool    { return b.readPos == b.writePos }

// Bytes returns the unread portion of the block: a.bytes()[off+readPos : off+writePos].
func (b *Block) Bytes() []byte {
	raw := b.a.bytes()
	return raw[b.off+b.readPos : b.off+b.writePos]
}

// WritableTail returns the appendable portion, for writers that grow write_pos
// themselves after filling it (e.g. vectored reads).
func (b *Block) WritableTail() []byte {
	raw := b.a.bytes()
	return raw[b.off+b.writePos : b.off+b.cap]
}

// PrependableHead returns the prependable portion, most-significant byte
// last, i.e. callers write backwards from the end of the returned slice.
func (b *Block) PrependableHead() []byte {
	raw := b.a.bytes()
	return raw[b.off : b.off+b.readPos]
}

// Advance moves the read cursor forward by n bytes (n <= Len()).
func (b *Block) Advance(n int) { b.readPos += n }

// Commit moves the write cursor forward by n bytes (n <= Appendable()).
func (b *Block) Commit(n int) { b.writePos += n }

// Retreat moves the read cursor backward by n bytes (n <= Prependable()),
// used after writing into PrependableHead.
func (b *Block) Retreat(n int) { b.readPos -= n }

// repositionEmpty moves both cursors of an empty block to pos (0 <= pos <=
// cap), carving out prependable room from a block that holds no data yet.
// Only valid while read_pos == write_pos.
func (b *Block) repositionEmpty(pos int) {
	b.readPos = pos
	b.writePos = pos
}

// Clone returns a new Block sharing the same Alloc, bumping its refcount.
func (b *Block) Clone() *Block {
	b.a.retain()
	return &Block{a: b.a, off: b.off, cap: b.cap, readPos: b.readPos, writePos: b.writePos}
}

// Release drops this Block's reference to its Alloc, freeing the backing
// region once the last reference is gone. Accessing the Block afterwards is
// undefined.
func (b *Block) Release() {
	if b.a != nil {
		b.a.release()
		b.a = nil
	}
}

// SplitOff partitions this Block into two disjoint views of the same Alloc:
// self retains [read_pos, read_pos+at), the returned Block takes
// [read_pos+at, write_pos). Both are backed by the same Alloc (refcount
// bumped), but their [ptr, ptr+cap) ranges never overlap.
//
// Panics if at > Len(), matching the source's debug-mode bounds check.
func (b *Block) SplitOff(at int) *Block {
	if at > b.Len() {
		panic("buf: Block.SplitOff: at exceeds available length")
	}

	splitPoint := b.readPos + at
	oldWrite := b.writePos
	oldCap := b.cap

	b.a.retain()
	tail := &Block{
		a:        b.a,
		off:      b.off + splitPoint,
		cap:      oldCap - splitPoint,
		readPos:  0,
		writePos: oldWrite - splitPoint,
	}

	b.writePos = splitPoint
	b.cap = splitPoint

	return tail
}
