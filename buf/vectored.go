package buf

import (
	"io"
	"net"
)

// ReadIn reads from r into the appendable tail of the last Block in the
// chain, growing the chain first if there is no appendable room at all.
// Appendable space in earlier blocks is not used, and no scatter read across
// several blocks is made (a generic io.Reader exposes no file descriptor for
// readv). It issues one Read call, and repeats it only while a read fills
// the last block's remaining tail exactly. It returns the number of bytes
// read; 0 with a nil error signals EOF.
func (b *ByteBuf) ReadIn(r io.Reader) (int, error) {
	b.Reserve(1)
	total := 0
	for {
		last := b.blocks[len(b.blocks)-1]
		tail := last.WritableTail()
		if len(tail) == 0 {
			break
		}
		n, err := r.Read(tail)
		if n > 0 {
			last.Commit(n)
			total += n
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		if n == 0 || n < len(tail) {
			break
		}
	}
	return total, nil
}

// WriteOut gathers the unread bytes of the Block chain into w, using a
// single vectored write (net.Buffers, which dispatches to writev when w
// supports it) when more than one unread block exists. Read positions are
// advanced by the number of bytes actually written.
func (b *ByteBuf) WriteOut(w io.Writer) (int64, error) {
	blocks := b.blocks[b.idx:]
	if len(blocks) == 0 {
		return 0, nil
	}

	bufs := make(net.Buffers, 0, len(blocks))
	for _, blk := range blocks {
		if blk.Len() > 0 {
			bufs = append(bufs, blk.Bytes())
		}
	}
	if len(bufs) == 0 {
		return 0, nil
	}

	n, err := bufs.WriteTo(w)
	remaining := n
	for _, blk := range blocks {
		l := int64(blk.Len())
		if remaining <= 0 {
			break
		}
		if remaining >= l {
			blk.Advance(blk.Len())
			remaining -= l
		} else {
			blk.Advance(int(remaining))
			remaining = 0
		}
	}
	return n, err
}
