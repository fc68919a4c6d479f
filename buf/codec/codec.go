// Package codec implements the value codecs that read and write typed
// values against a buf.ByteBuf: fixed-width integers and floats (big- and
// little-endian), base-128 varints, raw byte sequences, and UTF-8 strings.
//
// Each codec is a bundle of five operations over a value type T, mirroring
// the way the underlying ByteBuf itself separates consuming reads (Read),
// non-consuming reads (Get), in-place overwrites (Set), and the two growth
// directions (Append, Prepend).
package codec

import (
	"encoding/binary"

	nbuf "github.com/joeycumines/go-nexio/buf"
)

// bufT is a local alias kept short for the generic codec constructors below.
type bufT = nbuf.ByteBuf

// Codec bundles the five operations implementing a wire representation of
// T against a ByteBuf.
type Codec[T any] struct {
	Read    func(b *nbuf.ByteBuf) (T, error)
	Get     func(b *nbuf.ByteBuf, i int) (T, error)
	Set     func(b *nbuf.ByteBuf, i int, v T) error
	Append  func(b *nbuf.ByteBuf, v T)
	Prepend func(b *nbuf.ByteBuf, v T)
}

// readN gathers exactly n bytes from the front of b into a freshly allocated
// slice, consuming them. It may cross several Blocks.
func readN(b *nbuf.ByteBuf, n int) ([]byte, error) {
	dst := make([]byte, n)
	got := 0
	err := b.ReadExact(n, func(it *nbuf.ReadIter) {
		for got < n {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			got += copy(dst[got:], chunk)
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// getN is readN's non-consuming counterpart, starting at absolute offset i.
func getN(b *nbuf.ByteBuf, i, n int) ([]byte, error) {
	dst := make([]byte, n)
	got := 0
	err := b.GetExact(i, n, func(it *nbuf.GetIter) {
		for got < n {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			got += copy(dst[got:], chunk)
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// setN overwrites len(src) bytes starting at absolute offset i.
func setN(b *nbuf.ByteBuf, i int, src []byte) error {
	n := len(src)
	if i < 0 || i+n > b.Len() {
		return nbuf.ErrIndexOutOfBounds
	}
	put := 0
	return b.Set(i, func(it *nbuf.SetIter) {
		for put < n {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			put += copy(chunk, src[put:])
		}
	})
}

// appendN appends src as a single contiguous write; Appender.Reserve always
// returns a contiguous region at least as large as requested, so no loop is
// needed here.
func appendN(b *nbuf.ByteBuf, src []byte) {
	b.Append(func(a *nbuf.Appender) {
		dst := a.Reserve(len(src))
		a.Commit(copy(dst, src))
	})
}

// prependN prepends src as a single contiguous write, for the same reason
// appendN needs none.
func prependN(b *nbuf.ByteBuf, src []byte) {
	b.Prepend(func(p *nbuf.Prepender) {
		dst := p.Reserve(len(src))
		copy(dst, src)
		p.Commit(len(src))
	})
}

// decodeUint interprets raw (of length 1, 2, 4 or 8) as an unsigned integer
// in the given byte order.
func decodeUint(raw []byte, order binary.ByteOrder) uint64 {
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(order.Uint16(raw))
	case 4:
		return uint64(order.Uint32(raw))
	case 8:
		return order.Uint64(raw)
	default:
		panic("codec: unsupported width")
	}
}

// encodeUint is decodeUint's inverse.
func encodeUint(v uint64, width int, order binary.ByteOrder) []byte {
	raw := make([]byte, width)
	switch width {
	case 1:
		raw[0] = byte(v)
	case 2:
		order.PutUint16(raw, uint16(v))
	case 4:
		order.PutUint32(raw, uint32(v))
	case 8:
		order.PutUint64(raw, v)
	default:
		panic("codec: unsupported width")
	}
	return raw
}

// fixedCodec builds a byte-exact Codec[T] for a fixed-width integer-backed
// type T, given the conversions to and from a uint64 carrier.
func fixedCodec[T any](width int, order binary.ByteOrder, toU64 func(T) uint64, fromU64 func(uint64) T) Codec[T] {
	return Codec[T]{
		Read: func(b *nbuf.ByteBuf) (T, error) {
			raw, err := readN(b, width)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromU64(decodeUint(raw, order)), nil
		},
		Get: func(b *nbuf.ByteBuf, i int) (T, error) {
			raw, err := getN(b, i, width)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromU64(decodeUint(raw, order)), nil
		},
		Set: func(b *nbuf.ByteBuf, i int, v T) error {
			return setN(b, i, encodeUint(toU64(v), width, order))
		},
		Append: func(b *nbuf.ByteBuf, v T) {
			appendN(b, encodeUint(toU64(v), width, order))
		},
		Prepend: func(b *nbuf.ByteBuf, v T) {
			prependN(b, encodeUint(toU64(v), width, order))
		},
	}
}
