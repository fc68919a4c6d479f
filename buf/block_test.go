package buf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockAppendAndRead(t *testing.T) {
	b := NewBlock(64)
	tail := b.WritableTail()
	n := copy(tail, "hello")
	b.Commit(n)

	assert.Equal(t, "hello", string(b.Bytes()))
	assert.Equal(t, 5, b.Len())

	b.Advance(2)
	assert.Equal(t, "llo", string(b.Bytes()))
}

func TestBlockSplitOffDisjointRanges(t *testing.T) {
	b := NewBlock(64)
	n := copy(b.WritableTail(), "helloworld")
	b.Commit(n)

	tail := b.SplitOff(5)
	defer tail.Release()

	assert.Equal(t, "hello", string(b.Bytes()))
	assert.Equal(t, "world", string(tail.Bytes()))

	// Mutating one view must never affect the other: the ranges are disjoint
	// even though they share the same Alloc.
	copy(b.WritableTail(), "XXXXXXXXXXXXXXXXXXXX")
	assert.Equal(t, "world", string(tail.Bytes()))
}

func TestBlockSplitOffPanicsOnOverflow(t *testing.T) {
	b := NewBlock(16)
	n := copy(b.WritableTail(), "hi")
	b.Commit(n)

	assert.Panics(t, func() {
		b.SplitOff(100)
	})
}

func TestBlockCloneSharesAllocButIndependentCursors(t *testing.T) {
	b := NewBlock(16)
	n := copy(b.WritableTail(), "abcd")
	b.Commit(n)

	c := b.Clone()
	defer c.Release()

	b.Advance(2)
	require.Equal(t, "cd", string(b.Bytes()))
	assert.Equal(t, "abcd", string(c.Bytes()), "clone's cursors are independent of the original's")
}

func TestNewBlockForPrepend(t *testing.T) {
	b := NewBlockForPrepend(16)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 16, b.Prependable())
	assert.Equal(t, 0, b.Appendable())
}

func TestBlockFromBytesAdoptsSliceWithoutCopy(t *testing.T) {
	src := []byte("payload")
	b := BlockFromBytes(src)
	defer b.Release()

	assert.Equal(t, "payload", string(b.Bytes()))
	src[0] = 'P'
	assert.Equal(t, "Payload", string(b.Bytes()), "BlockFromBytes must adopt, not copy")
}
