package framing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-nexio/buf"
	"github.com/joeycumines/go-nexio/reactor"
)

// chunkStream replays a fixed sequence of raw byte chunks, then reports
// StreamDone.
type chunkStream struct {
	chunks [][]byte
	i      int
}

func (s *chunkStream) Poll(cx *reactor.Context) (reactor.StreamPoll, *buf.ByteBuf, error) {
	if s.i >= len(s.chunks) {
		return reactor.StreamDone, nil, nil
	}
	c := s.chunks[s.i]
	s.i++
	b := buf.New()
	b.Append(func(a *buf.Appender) {
		dst := a.Reserve(len(c))
		a.Commit(copy(dst, c))
	})
	return reactor.StreamReady, b, nil
}

func readFrame(t *testing.T, b *buf.ByteBuf) string {
	t.Helper()
	out := make([]byte, 0, b.Len())
	b.Read(func(it *buf.ReadIter) {
		for {
			chunk, ok := it.Next()
			if !ok {
				return
			}
			out = append(out, chunk...)
		}
	})
	return string(out)
}

func TestU32BEPrefixSplitsAcrossChunkBoundaries(t *testing.T) {
	inner := &chunkStream{chunks: [][]byte{
		{0x00, 0x00, 0x00, 0x05, 'A', 'B', 'C'},
		{'D', 'E', 0x00, 0x00, 0x00, 0x02, 'X', 'Y'},
	}}
	f := NewU32BEPrefix(inner)

	sp, frame, err := f.Poll(nil)
	require.NoError(t, err)
	require.Equal(t, reactor.StreamReady, sp)
	assert.Equal(t, "ABCDE", readFrame(t, frame))

	sp, frame, err = f.Poll(nil)
	require.NoError(t, err)
	require.Equal(t, reactor.StreamReady, sp)
	assert.Equal(t, "XY", readFrame(t, frame))

	sp, _, err = f.Poll(nil)
	require.NoError(t, err)
	assert.Equal(t, reactor.StreamDone, sp)
}

func TestU8PrefixSingleByteLength(t *testing.T) {
	inner := &chunkStream{chunks: [][]byte{
		{0x03, 'h', 'i', '!'},
	}}
	f := NewU8Prefix(inner)

	sp, frame, err := f.Poll(nil)
	require.NoError(t, err)
	require.Equal(t, reactor.StreamReady, sp)
	assert.Equal(t, "hi!", readFrame(t, frame))
}

func TestU16LEPrefixLittleEndian(t *testing.T) {
	inner := &chunkStream{chunks: [][]byte{
		{0x02, 0x00, 'o', 'k'},
	}}
	f := NewU16LEPrefix(inner)

	sp, frame, err := f.Poll(nil)
	require.NoError(t, err)
	require.Equal(t, reactor.StreamReady, sp)
	assert.Equal(t, "ok", readFrame(t, frame))
}

func TestFramerPropagatesInnerDoneWithoutPartialFrame(t *testing.T) {
	inner := &chunkStream{}
	f := NewU8Prefix(inner)
	sp, _, err := f.Poll(nil)
	require.NoError(t, err)
	assert.Equal(t, reactor.StreamDone, sp)
}
