package codec

import (
	"testing"

	nbuf "github.com/joeycumines/go-nexio/buf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthRoundTrip(t *testing.T) {
	b := nbuf.New()
	U32BE.Append(b, 0x01020304)
	U32LE.Append(b, 0x01020304)
	I16BE.Append(b, -1)
	F64BE.Append(b, 3.5)

	v1, err := U32BE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v1)

	v2, err := U32LE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v2)

	v3, err := I16BE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, int16(-1), v3)

	v4, err := F64BE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v4)

	assert.True(t, b.IsEmpty())
}

func TestFixedWidthBigEndianByteOrder(t *testing.T) {
	b := nbuf.New()
	U16BE.Append(b, 0x0102)
	raw, err := GetBytes(b, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, raw)
}

func TestFixedWidthLittleEndianByteOrder(t *testing.T) {
	b := nbuf.New()
	U16LE.Append(b, 0x0102)
	raw, err := GetBytes(b, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01}, raw)
}

func TestFixedWidthCrossesBlockBoundary(t *testing.T) {
	// Blocks are at least one word (8 bytes), so a growth unit of 1 yields
	// 8-byte blocks: six filler bytes leave room for only 0xaa and 0xbb in
	// the first block, and 0xcc and 0xdd land in a second one.
	b := nbuf.WithCapacity(1)
	AppendFilling(b, 0, 6)
	U8.Append(b, 0xaa)
	U8.Append(b, 0xbb)
	U8.Append(b, 0xcc)
	U8.Append(b, 0xdd)
	b.Skip(6)

	v, err := U32BE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xaabbccdd), v)
}

func TestFixedWidthGetDoesNotConsume(t *testing.T) {
	b := nbuf.New()
	U32BE.Append(b, 42)
	v, err := U32BE.Get(b, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)
	assert.Equal(t, 4, b.Len())
}

func TestFixedWidthSet(t *testing.T) {
	b := nbuf.New()
	U32BE.Append(b, 0)
	require.NoError(t, U32BE.Set(b, 0, 0xdeadbeef))
	v, err := U32BE.Read(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v)
}

func TestFixedWidthPrepend(t *testing.T) {
	b := nbuf.New()
	U8.Append(b, 'b')
	U8.Prepend(b, 'a')
	v0, _ := U8.Read(b)
	v1, _ := U8.Read(b)
	assert.Equal(t, uint8('a'), v0)
	assert.Equal(t, uint8('b'), v1)
}

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 16384, 0xffffffff}
	for _, v := range cases {
		b := nbuf.New()
		VarintU32.Append(b, v)
		got, err := VarintU32.Read(b)
		require.NoError(t, err)
		assert.Equal(t, v, got, "value %d", v)
		assert.True(t, b.IsEmpty())
	}
}

func TestVarintLengthFormula(t *testing.T) {
	// 7 bits per group: values needing k groups are those >= 128^(k-1) (for
	// k>1) and < 128^k.
	cases := map[uint64]int{
		0:          1,
		127:        1,
		128:        2,
		16383:      2,
		16384:      3,
		2097151:    3,
		2097152:    4,
		0xffffffff: 5,
	}
	for v, wantLen := range cases {
		enc := encodeVarintU64(nil, v)
		assert.Len(t, enc, wantLen, "value %d", v)
	}
}

func TestVarintSignedUsesBitPatternNotZigZag(t *testing.T) {
	b := nbuf.New()
	VarintI32.Append(b, -1)
	// -1 as uint32 bit pattern is 0xffffffff, which needs 5 varint groups;
	// zig-zag would encode -1 as 1, needing only a single byte.
	assert.Equal(t, 5, b.Len())

	got, err := VarintI32.Read(b)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), got)
}

func TestVarintStopsAtFirstTerminatingByte(t *testing.T) {
	b := nbuf.New()
	VarintU32.Append(b, 300)
	AppendBytes(b, []byte{0x7f}) // a trailing byte that must not be consumed

	got, err := VarintU32.Read(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(300), got)
	assert.Equal(t, 1, b.Len(), "varint decode must stop at its own terminator")
}

func TestVarintSetRejectsLengthChange(t *testing.T) {
	b := nbuf.New()
	VarintU32.Append(b, 1) // 1 byte
	err := VarintU32.Set(b, 0, 300)
	assert.ErrorIs(t, err, ErrVarintLengthMismatch)
}

func TestAppendBytesSmallPayloadCopies(t *testing.T) {
	b := nbuf.New()
	data := []byte("small")
	AppendBytes(b, data)
	data[0] = 'S'
	got, err := ReadBytes(b, 5)
	require.NoError(t, err)
	assert.Equal(t, "small", string(got), "small payloads must be copied, not adopted")
}

func TestAppendBytesLargePayloadIsAdoptedNotCopied(t *testing.T) {
	b := nbuf.New()
	data := make([]byte, OwnershipTransferThreshold)
	for i := range data {
		data[i] = byte(i)
	}
	AppendBytes(b, data)

	data[0] = 0xff // mutate the caller's slice after handoff
	got, err := ReadBytes(b, len(data))
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), got[0], "payloads >= the threshold must be adopted by reference")
}

func TestFilling(t *testing.T) {
	b := nbuf.New()
	AppendFilling(b, 'x', 5)
	got, err := ReadBytes(b, 5)
	require.NoError(t, err)
	assert.Equal(t, "xxxxx", string(got))
}

func TestStringRoundTrip(t *testing.T) {
	b := nbuf.New()
	require.NoError(t, AppendString(b, "héllo"))
	got, err := ReadString(b, len("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	b := nbuf.New()
	AppendBytes(b, []byte{0xff, 0xfe})
	_, err := ReadString(b, 2)
	assert.ErrorIs(t, err, nbuf.ErrInvalidUTF8)
}
