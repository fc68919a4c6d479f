package buf

// ReadIter yields successive non-empty views of a ByteBuf's unread bytes,
// consuming each chunk (advancing the owning Block's read position) as soon
// as it is returned.
type ReadIter struct {
	buf   *ByteBuf
	limit int // -1 = unlimited, else bytes remaining to yield
}

// Next returns the next unread chunk, or false once the iterator's limit (or
// the buffer) is exhausted.
func (it *ReadIter) Next() ([]byte, bool) {
	if it.limit == 0 {
		return nil, false
	}
	for it.buf.idx < len(it.buf.blocks) {
		blk := it.buf.blocks[it.buf.idx]
		if blk.IsEmpty() {
			if it.buf.idx < len(it.buf.blocks)-1 {
				it.buf.idx++
				continue
			}
			return nil, false
		}
		chunk := blk.Bytes()
		if it.limit > 0 && len(chunk) > it.limit {
			chunk = chunk[:it.limit]
		}
		blk.Advance(len(chunk))
		if it.limit > 0 {
			it.limit -= len(chunk)
		}
		return chunk, true
	}
	return nil, false
}

// Read invokes fn with an iterator over all unread bytes, consuming whatever
// the callback pulls from it.
func (b *ByteBuf) Read(fn func(it *ReadIter)) {
	fn(&ReadIter{buf: b, limit: -1})
}

// ReadExact invokes fn with an iterator capped to exactly n bytes. It fails
// with ErrUnderflow (without consuming anything) if fewer than n bytes are
// available.
func (b *ByteBuf) ReadExact(n int, fn func(it *ReadIter)) error {
	if n > b.Len() {
		return ErrUnderflow
	}
	fn(&ReadIter{buf: b, limit: n})
	return nil
}

// GetIter yields successive views of a ByteBuf's bytes starting at a fixed
// absolute offset, without consuming them: the buffer's read positions are
// left untouched. Because the returned slices alias live Block storage, they
// remain writable — this also backs Set.
type GetIter struct {
	blocks   []*Block
	blockIdx int
	within   int
	limit    int // -1 = unlimited
}

// SetIter is a GetIter used for non-consuming mutation: the slices it yields
// are writable views into the buffer's existing bytes.
type SetIter = GetIter

// newGetIter locates the block and within-block offset corresponding to the
// absolute offset start (0 == first unread byte), and returns an iterator
// capped to limit bytes (-1 = unlimited).
func (b *ByteBuf) newGetIter(start, limit int) (*GetIter, error) {
	if start < 0 || start > b.Len() {
		return nil, ErrIndexOutOfBounds
	}
	remaining := start
	i := b.idx
	for i < len(b.blocks) {
		l := b.blocks[i].Len()
		if remaining < l {
			break
		}
		remaining -= l
		i++
	}
	return &GetIter{blocks: b.blocks, blockIdx: i, within: remaining, limit: limit}, nil
}

// Next returns the next chunk, or false once the iterator's limit (or the
// buffer) is exhausted.
func (it *GetIter) Next() ([]byte, bool) {
	if it.limit == 0 {
		return nil, false
	}
	for it.blockIdx < len(it.blocks) {
		blk := it.blocks[it.blockIdx]
		avail := blk.Bytes()[it.within:]
		if len(avail) == 0 {
			it.blockIdx++
			it.within = 0
			continue
		}
		chunk := avail
		if it.limit > 0 && len(chunk) > it.limit {
			chunk = chunk[:it.limit]
		}
		it.within += len(chunk)
		if it.limit > 0 {
			it.limit -= len(chunk)
		}
		return chunk, true
	}
	return nil, false
}

// Get invokes fn with a non-consuming iterator starting at absolute offset
// i. It fails with ErrIndexOutOfBounds if i exceeds the current length.
func (b *ByteBuf) Get(i int, fn func(it *GetIter)) error {
	it, err := b.newGetIter(i, -1)
	if err != nil {
		return err
	}
	fn(it)
	return nil
}

// GetExact invokes fn with a non-consuming iterator capped to exactly n
// bytes starting at offset i. It fails with ErrIndexOutOfBounds if i exceeds
// the length, or ErrUnderflow if fewer than n bytes remain from i.
func (b *ByteBuf) GetExact(i, n int, fn func(it *GetIter)) error {
	if i < 0 || i > b.Len() {
		return ErrIndexOutOfBounds
	}
	if i+n > b.Len() {
		return ErrUnderflow
	}
	it, err := b.newGetIter(i, n)
	if err != nil {
		return err
	}
	fn(it)
	return nil
}

// Set invokes fn with a non-consuming, mutable iterator starting at absolute
// offset i, for overwriting bytes already present in the buffer.
func (b *ByteBuf) Set(i int, fn func(it *SetIter)) error {
	return b.Get(i, fn)
}

// Appender hands out writable space at the tail of a ByteBuf, growing the
// chain (never failing for lack of capacity) as needed.
type Appender struct {
	buf *ByteBuf
}

// Reserve ensures the last block has at least n appendable bytes and returns
// its full writable tail (which may be longer than n); the caller commits
// however many bytes it actually wrote.
func (a *Appender) Reserve(n int) []byte {
	a.buf.Reserve(n)
	last := a.buf.blocks[len(a.buf.blocks)-1]
	return last.WritableTail()
}

// Commit advances the last block's write position by n bytes, which must
// have been written into the slice most recently returned by Reserve.
func (a *Appender) Commit(n int) {
	last := a.buf.blocks[len(a.buf.blocks)-1]
	last.Commit(n)
}

// Append invokes fn with an Appender over self.
func (b *ByteBuf) Append(fn func(a *Appender)) {
	b.ensureBlock()
	fn(&Appender{buf: b})
}

// Prepender hands out writable space at the head of a ByteBuf, inserting a
// new leading block when the current one lacks prependable room.
type Prepender struct {
	buf *ByteBuf
}

// Reserve ensures the first active block has at least n prependable bytes
// and returns a slice of exactly n bytes positioned immediately before the
// current read position; the caller writes into it and then Commits.
func (p *Prepender) Reserve(n int) []byte {
	buf := p.buf
	buf.ensureBlock()
	first := buf.blocks[buf.idx]
	if first.Prependable() < n {
		size := buf.growth
		if n > size {
			size = n
		}
		nb := NewBlockForPrepend(size)
		buf.blocks = append(buf.blocks, nil)
		copy(buf.blocks[buf.idx+1:], buf.blocks[buf.idx:])
		buf.blocks[buf.idx] = nb
		first = nb
	}
	head := first.PrependableHead()
	return head[len(head)-n:]
}

// Commit moves the first active block's read position back by n bytes,
// exposing the n bytes most recently written via Reserve.
func (p *Prepender) Commit(n int) {
	first := p.buf.blocks[p.buf.idx]
	first.Retreat(n)
}

// Prepend invokes fn with a Prepender over self.
func (b *ByteBuf) Prepend(fn func(p *Prepender)) {
	fn(&Prepender{buf: b})
}
