package codec

import nbuf "github.com/joeycumines/go-nexio/buf"

// OwnershipTransferThreshold is the payload size at or above which
// AppendBytes/PrependBytes adopt the caller's slice as a new Block instead
// of copying it into the ByteBuf's own storage.
const OwnershipTransferThreshold = 6 * 1024

// ReadBytes consumes exactly n bytes from the front of b.
func ReadBytes(b *nbuf.ByteBuf, n int) ([]byte, error) { return readN(b, n) }

// GetBytes reads exactly n bytes starting at absolute offset i, without
// consuming them.
func GetBytes(b *nbuf.ByteBuf, i, n int) ([]byte, error) { return getN(b, i, n) }

// SetBytes overwrites len(data) bytes starting at absolute offset i.
func SetBytes(b *nbuf.ByteBuf, i int, data []byte) error { return setN(b, i, data) }

// AppendBytes appends data to b. Payloads at or above
// OwnershipTransferThreshold are adopted as a new Block rather than copied.
func AppendBytes(b *nbuf.ByteBuf, data []byte) {
	if len(data) >= OwnershipTransferThreshold {
		b.AppendBlock(nbuf.BlockFromBytes(data))
		return
	}
	appendN(b, data)
}

// PrependBytes prepends data to b, using the same ownership-transfer fast
// path as AppendBytes for large payloads.
func PrependBytes(b *nbuf.ByteBuf, data []byte) {
	if len(data) >= OwnershipTransferThreshold {
		b.PrependBlock(nbuf.BlockFromBytes(data))
		return
	}
	prependN(b, data)
}

// AppendFilling appends count repetitions of val.
func AppendFilling(b *nbuf.ByteBuf, val byte, count int) {
	b.Append(func(a *nbuf.Appender) {
		remaining := count
		for remaining > 0 {
			dst := a.Reserve(remaining)
			n := len(dst)
			if n > remaining {
				n = remaining
			}
			for i := 0; i < n; i++ {
				dst[i] = val
			}
			a.Commit(n)
			remaining -= n
		}
	})
}

// SetFilling overwrites count bytes starting at absolute offset i with val.
func SetFilling(b *nbuf.ByteBuf, i int, val byte, count int) error {
	if i < 0 || i+count > b.Len() {
		return nbuf.ErrIndexOutOfBounds
	}
	put := 0
	return b.Set(i, func(it *nbuf.SetIter) {
		for put < count {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			n := len(chunk)
			if n > count-put {
				n = count - put
			}
			for j := 0; j < n; j++ {
				chunk[j] = val
			}
			put += n
		}
	})
}
