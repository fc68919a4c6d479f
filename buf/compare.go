package buf

import "bytes"

// Compare orders two ByteBufs as byte sequences: -1 if b < other, 0 if
// equal, 1 if b > other. Neither buffer is consumed.
func (b *ByteBuf) Compare(other *ByteBuf) int {
	ai, _ := b.newGetIter(0, -1)
	bi, _ := other.newGetIter(0, -1)

	var aChunk, bChunk []byte
	for {
		if len(aChunk) == 0 {
			if c, ok := ai.Next(); ok {
				aChunk = c
			}
		}
		if len(bChunk) == 0 {
			if c, ok := bi.Next(); ok {
				bChunk = c
			}
		}
		switch {
		case len(aChunk) == 0 && len(bChunk) == 0:
			return 0
		case len(aChunk) == 0:
			return -1
		case len(bChunk) == 0:
			return 1
		}

		n := len(aChunk)
		if len(bChunk) < n {
			n = len(bChunk)
		}
		if c := bytes.Compare(aChunk[:n], bChunk[:n]); c != 0 {
			return c
		}
		aChunk = aChunk[n:]
		bChunk = bChunk[n:]
	}
}

// Equal reports whether two ByteBufs hold identical byte sequences.
func (b *ByteBuf) Equal(other *ByteBuf) bool {
	return b.Len() == other.Len() && b.Compare(other) == 0
}
