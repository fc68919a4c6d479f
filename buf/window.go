package buf

// walkToOffset locates the block and within-block offset corresponding to
// absolute offset start (0 == first unread byte), scanning blocks in O(#blocks).
func (b *ByteBuf) walkToOffset(start int) (blockIdx, within int) {
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
	return i, remaining
}

// Window is a fixed-size view that may straddle several Blocks, produced by
// Windows without copying until Bytes or Equal is called.
type Window struct {
	blocks   []*Block
	blockIdx int
	within   int
	size     int
}

// Len returns the window's size.
func (w *Window) Len() int { return w.size }

// Bytes materializes the window into a freshly allocated, owned slice.
func (w *Window) Bytes() []byte {
	out := make([]byte, 0, w.size)
	idx, within, remaining := w.blockIdx, w.within, w.size
	for remaining > 0 && idx < len(w.blocks) {
		avail := w.blocks[idx].Bytes()[within:]
		if len(avail) == 0 {
			idx++
			within = 0
			continue
		}
		n := len(avail)
		if n > remaining {
			n = remaining
		}
		out = append(out, avail[:n]...)
		remaining -= n
		within += n
	}
	return out
}

// Equal reports whether the window's bytes equal other, comparing chunk by
// chunk so that a mismatch is detected without materializing the window.
func (w *Window) Equal(other []byte) bool {
	if len(other) != w.size {
		return false
	}
	idx, within, pos := w.blockIdx, w.within, 0
	for pos < w.size {
		if idx >= len(w.blocks) {
			return false
		}
		avail := w.blocks[idx].Bytes()[within:]
		if len(avail) == 0 {
			idx++
			within = 0
			continue
		}
		n := len(avail)
		if remain := w.size - pos; n > remain {
			n = remain
		}
		for i := 0; i < n; i++ {
			if avail[i] != other[pos+i] {
				return false
			}
		}
		pos += n
		within += n
	}
	return true
}

// WindowIter produces fixed-size Windows over a ByteBuf, double-ended.
type WindowIter struct {
	buf  *ByteBuf
	size int
	pos  int // next start offset from the front
	end  int // next start offset from the back; < pos once exhausted
}

// Windows returns an iterator over every size-length window of b's unread
// bytes, in order.
func (b *ByteBuf) Windows(size int) *WindowIter {
	maxStart := b.Len() - size
	return &WindowIter{buf: b, size: size, pos: 0, end: maxStart}
}

func (b *ByteBuf) windowAt(start, size int) *Window {
	blockIdx, within := b.walkToOffset(start)
	return &Window{blocks: b.blocks, blockIdx: blockIdx, within: within, size: size}
}

// Next returns the next window from the front, or false when exhausted.
func (it *WindowIter) Next() (*Window, bool) {
	if it.size < 0 || it.pos > it.end {
		return nil, false
	}
	w := it.buf.windowAt(it.pos, it.size)
	it.pos++
	return w, true
}

// NextBack returns the next window from the back, or false when exhausted.
func (it *WindowIter) NextBack() (*Window, bool) {
	if it.size < 0 || it.pos > it.end {
		return nil, false
	}
	w := it.buf.windowAt(it.end, it.size)
	it.end--
	return w, true
}

// Nth skips k windows from the front (located directly, in O(#blocks)
// rather than by stepping Next k times) and returns the following one.
func (it *WindowIter) Nth(k int) (*Window, bool) {
	it.pos += k
	return it.Next()
}

// Find returns the offset of the first occurrence of needle, scanning
// windows from the front. An empty needle matches at offset 0.
func (b *ByteBuf) Find(needle []byte) (int, bool) {
	if len(needle) == 0 {
		return 0, true
	}
	it := b.Windows(len(needle))
	pos := 0
	for {
		w, ok := it.Next()
		if !ok {
			return -1, false
		}
		if w.Equal(needle) {
			return pos, true
		}
		pos++
	}
}

// ByteIter yields a ByteBuf's unread bytes one at a time, without consuming
// them.
type ByteIter struct {
	inner *GetIter
	cur   []byte
}

// Bytes returns a lazy, non-consuming byte-by-byte iterator.
func (b *ByteBuf) Bytes() *ByteIter {
	it, _ := b.newGetIter(0, -1)
	return &ByteIter{inner: it}
}

// Next returns the next byte, or false once exhausted.
func (it *ByteIter) Next() (byte, bool) {
	for len(it.cur) == 0 {
		c, ok := it.inner.Next()
		if !ok {
			return 0, false
		}
		it.cur = c
	}
	v := it.cur[0]
	it.cur = it.cur[1:]
	return v, true
}
