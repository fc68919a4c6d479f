// Package framing adapts a raw byte-chunk Stream into a Stream of
// length-prefixed frames.
package framing

import (
	"encoding/binary"

	"github.com/joeycumines/go-nexio/buf"
	"github.com/joeycumines/go-nexio/reactor"
)

type frameState int

const (
	framePending frameState = iota
	frameMore
	frameDone
)

type prefixCodec struct {
	width  int
	decode func([]byte) int
}

var (
	u8Codec = prefixCodec{
		width:  1,
		decode: func(b []byte) int { return int(b[0]) },
	}
	u16leCodec = prefixCodec{
		width:  2,
		decode: func(b []byte) int { return int(binary.LittleEndian.Uint16(b)) },
	}
	u32beCodec = prefixCodec{
		width:  4,
		decode: func(b []byte) int { return int(binary.BigEndian.Uint32(b)) },
	}
)

// Framer implements a {Pending, More(n), Done} state machine over an inner
// Stream of raw ByteBuf chunks. Each emitted frame contains exactly n
// payload bytes; the prefix itself is never included.
type Framer struct {
	inner reactor.Stream[*buf.ByteBuf]
	codec prefixCodec
	acc   *buf.ByteBuf
	state frameState
	need  int
}

// NewU8Prefix frames inner as [len:u8][payload:len bytes].
func NewU8Prefix(inner reactor.Stream[*buf.ByteBuf]) *Framer { return newFramer(inner, u8Codec) }

// NewU16LEPrefix frames inner as [len:u16 little-endian][payload:len bytes].
func NewU16LEPrefix(inner reactor.Stream[*buf.ByteBuf]) *Framer {
	return newFramer(inner, u16leCodec)
}

// NewU32BEPrefix frames inner as [len:u32 big-endian][payload:len bytes].
func NewU32BEPrefix(inner reactor.Stream[*buf.ByteBuf]) *Framer {
	return newFramer(inner, u32beCodec)
}

func newFramer(inner reactor.Stream[*buf.ByteBuf], codec prefixCodec) *Framer {
	return &Framer{inner: inner, codec: codec, acc: buf.New(), state: framePending}
}

// Poll drives the frame state machine forward by pulling from inner as
// needed, returning StreamReady with exactly one payload-only ByteBuf per
// complete frame.
func (f *Framer) Poll(cx *reactor.Context) (reactor.StreamPoll, *buf.ByteBuf, error) {
	for {
		switch f.state {
		case frameDone:
			return reactor.StreamDone, nil, nil

		case framePending:
			if f.acc.Len() >= f.codec.width {
				n, err := f.readPrefix()
				if err != nil {
					return reactor.StreamPending, nil, err
				}
				f.need = n
				f.state = frameMore
				continue
			}

		case frameMore:
			if f.acc.Len() >= f.need {
				frame, err := f.acc.DrainTo(f.need)
				if err != nil {
					return reactor.StreamPending, nil, err
				}
				f.state = framePending
				return reactor.StreamReady, frame, nil
			}
		}

		sp, chunk, err := f.inner.Poll(cx)
		if err != nil {
			return reactor.StreamPending, nil, err
		}
		switch sp {
		case reactor.StreamPending:
			return reactor.StreamPending, nil, nil
		case reactor.StreamDone:
			f.state = frameDone
			return reactor.StreamDone, nil, nil
		case reactor.StreamReady:
			f.acc.Extend(chunk)
		}
	}
}

// readPrefix decodes and consumes the codec's width-byte length prefix from
// the front of f.acc, without touching any payload bytes that follow it.
func (f *Framer) readPrefix() (int, error) {
	var hdr [4]byte
	if err := f.acc.GetExact(0, f.codec.width, func(it *buf.GetIter) {
		off := 0
		for {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			off += copy(hdr[off:], chunk)
		}
	}); err != nil {
		return 0, err
	}
	if _, err := f.acc.DrainTo(f.codec.width); err != nil {
		return 0, err
	}
	return f.codec.decode(hdr[:f.codec.width]), nil
}
