package buf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendString(b *ByteBuf, s string) {
	b.Append(func(a *Appender) {
		dst := a.Reserve(len(s))
		n := copy(dst, s)
		a.Commit(n)
	})
}

func prependString(b *ByteBuf, s string) {
	b.Prepend(func(p *Prepender) {
		dst := p.Reserve(len(s))
		copy(dst, s)
		p.Commit(len(s))
	})
}

func readAllString(t *testing.T, b *ByteBuf) string {
	t.Helper()
	var sb strings.Builder
	b.Read(func(it *ReadIter) {
		for {
			chunk, ok := it.Next()
			if !ok {
				return
			}
			sb.Write(chunk)
		}
	})
	return sb.String()
}

func TestByteBufAppendAndRead(t *testing.T) {
	b := New()
	appendString(b, "hello, ")
	appendString(b, "world")
	assert.Equal(t, 12, b.Len())
	assert.Equal(t, "hello, world", readAllString(t, b))
	assert.True(t, b.IsEmpty())
}

func TestByteBufGrowsAcrossMultipleBlocks(t *testing.T) {
	b := WithCapacity(4)
	appendString(b, "abcd")
	appendString(b, "efgh")
	appendString(b, "ij")

	assert.Equal(t, 10, b.Len())
	assert.Equal(t, "abcdefghij", readAllString(t, b))
}

func TestByteBufPrepend(t *testing.T) {
	b := New()
	appendString(b, "world")
	prependString(b, "hello, ")
	assert.Equal(t, "hello, world", readAllString(t, b))
}

func TestByteBufSkip(t *testing.T) {
	b := WithCapacity(4)
	appendString(b, "abcd")
	appendString(b, "efgh")

	n := b.Skip(6)
	assert.Equal(t, 6, n)
	assert.Equal(t, "gh", readAllString(t, b))

	// skipping past the end stops short and reports the actual count.
	b2 := New()
	appendString(b2, "ab")
	assert.Equal(t, 2, b2.Skip(10))
	assert.Equal(t, 0, b2.Len())
}

func TestByteBufCompactReleasesConsumedBlocks(t *testing.T) {
	b := WithCapacity(8)
	appendString(b, "abcdefgh")
	appendString(b, "ijklmnop")
	b.Skip(8)
	require.Equal(t, 1, b.idx)

	b.Compact()
	assert.Equal(t, 0, b.idx)
	assert.Equal(t, "ijklmnop", readAllString(t, b))
}

func TestByteBufReserveGrowsLastBlock(t *testing.T) {
	b := WithCapacity(4)
	before := len(b.blocks)
	b.Reserve(1)
	assert.Equal(t, before, len(b.blocks), "appendable room already exists")

	b.Reserve(100)
	assert.Greater(t, len(b.blocks), before, "insufficient room must grow the chain")
}

func TestByteBufTryReserveInHead(t *testing.T) {
	b := WithCapacity(16)
	reserved := b.TryReserveInHead(5)
	assert.Equal(t, 5, reserved)
	assert.Equal(t, 0, b.Len())

	prependString(b, "hello")
	assert.Equal(t, "hello", readAllString(t, b))
}

func TestByteBufExtend(t *testing.T) {
	a := New()
	appendString(a, "foo")
	b := New()
	appendString(b, "bar")

	a.Extend(b)
	assert.Equal(t, "foobar", readAllString(t, a))
	assert.Equal(t, 0, b.Len())

	// b is still usable after being drained.
	appendString(b, "baz")
	assert.Equal(t, "baz", readAllString(t, b))
}

func TestByteBufSplitOffMidBlock(t *testing.T) {
	b := New()
	appendString(b, "helloworld")

	tail, err := b.SplitOff(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", readAllString(t, b))
	assert.Equal(t, "world", readAllString(t, tail))
}

func TestByteBufSplitOffAtBlockBoundary(t *testing.T) {
	b := WithCapacity(8)
	appendString(b, "abcdefgh")
	appendString(b, "ijklmnop")

	tail, err := b.SplitOff(8)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", readAllString(t, b))
	assert.Equal(t, "ijklmnop", readAllString(t, tail))
}

func TestByteBufSplitOffOutOfBounds(t *testing.T) {
	b := New()
	appendString(b, "abc")
	_, err := b.SplitOff(4)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestByteBufDrainTo(t *testing.T) {
	b := New()
	appendString(b, "helloworld")

	head, err := b.DrainTo(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", readAllString(t, head))
	assert.Equal(t, "world", readAllString(t, b))
}

func TestByteBufReadExactUnderflow(t *testing.T) {
	b := New()
	appendString(b, "ab")
	err := b.ReadExact(5, func(it *ReadIter) {})
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, 2, b.Len(), "a failed ReadExact must not consume anything")
}

func TestByteBufGetDoesNotConsume(t *testing.T) {
	b := New()
	appendString(b, "abcdef")

	var got []byte
	err := b.GetExact(2, 3, func(it *GetIter) {
		for {
			c, ok := it.Next()
			if !ok {
				break
			}
			got = append(got, c...)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "cde", string(got))
	assert.Equal(t, 6, b.Len(), "Get must not consume")
}

func TestByteBufGetExactErrors(t *testing.T) {
	b := New()
	appendString(b, "abc")

	err := b.GetExact(10, 1, func(it *GetIter) {})
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	err = b.GetExact(1, 10, func(it *GetIter) {})
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestByteBufSet(t *testing.T) {
	b := New()
	appendString(b, "abcdef")

	err := b.Set(2, func(it *SetIter) {
		chunk, ok := it.Next()
		require.True(t, ok)
		copy(chunk, "XYZ")
	})
	require.NoError(t, err)
	assert.Equal(t, "abXYZf", readAllString(t, b))
}

func TestByteBufWriteOutAndReadIn(t *testing.T) {
	b := WithCapacity(4)
	appendString(b, "abcd")
	appendString(b, "efgh")

	var out bytes.Buffer
	n, err := b.WriteOut(&out)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
	assert.Equal(t, "abcdefgh", out.String())
	assert.True(t, b.IsEmpty())

	dst := New()
	r := bytes.NewReader([]byte("readme"))
	rn, err := dst.ReadIn(r)
	require.NoError(t, err)
	assert.Equal(t, 6, rn)
	assert.Equal(t, "readme", readAllString(t, dst))
}

func TestByteBufCompareAndEqual(t *testing.T) {
	a := New()
	appendString(a, "abc")
	b := WithCapacity(1)
	appendString(b, "a")
	appendString(b, "bc")

	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(b))

	c := New()
	appendString(c, "abd")
	assert.Negative(t, a.Compare(c))
	assert.Positive(t, c.Compare(a))
}

func TestByteBufFindAcrossBlockBoundary(t *testing.T) {
	b := WithCapacity(8)
	appendString(b, "abcdefgh")
	appendString(b, "ijklmnop")

	idx, ok := b.Find([]byte("ghij"))
	require.True(t, ok)
	assert.Equal(t, 6, idx)

	_, ok = b.Find([]byte("zz"))
	assert.False(t, ok)
}

func TestByteBufWindowsDoubleEnded(t *testing.T) {
	b := New()
	appendString(b, "abcdef")

	it := b.Windows(2)
	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "ab", string(first.Bytes()))

	last, ok := it.NextBack()
	require.True(t, ok)
	assert.Equal(t, "ef", string(last.Bytes()))
}

func TestByteBufHexDump(t *testing.T) {
	b := New()
	appendString(b, "hello")
	dump := b.HexDump()
	assert.Contains(t, dump, "00000000")
	assert.Contains(t, dump, "|hello|")
	assert.Equal(t, 5, b.Len(), "HexDump must not consume")
}
