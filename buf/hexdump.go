package buf

import (
	"fmt"
	"strings"
)

// HexDump renders the unread bytes as 16-byte rows, each prefixed with its
// address and followed by an ASCII gutter, without consuming the buffer.
func (b *ByteBuf) HexDump() string {
	total := b.Len()
	var sb strings.Builder
	row := make([]byte, 16)

	for addr := 0; addr < total; addr += 16 {
		n := 16
		if addr+n > total {
			n = total - addr
		}
		got := 0
		_ = b.GetExact(addr, n, func(it *GetIter) {
			for got < n {
				chunk, ok := it.Next()
				if !ok {
					break
				}
				got += copy(row[got:], chunk)
			}
		})

		fmt.Fprintf(&sb, "%08x  ", addr)
		for i := 0; i < 16; i++ {
			if i < n {
				fmt.Fprintf(&sb, "%02x ", row[i])
			} else {
				sb.WriteString("   ")
			}
			if i == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(" |")
		for i := 0; i < n; i++ {
			c := row[i]
			if c >= 0x20 && c < 0x7f {
				sb.WriteByte(c)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
