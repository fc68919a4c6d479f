package codec

import "errors"

// continuationBit marks that another 7-bit group follows.
const continuationBit = 0x80

// ErrVarintOverflow is returned when a varint's continuation bit keeps the
// decoder reading past 10 groups (more than a uint64 can hold).
var ErrVarintOverflow = errors.New("codec: varint overflows 64 bits")

// ErrVarintLengthMismatch is returned by a varint codec's Set when the new
// value does not encode to the same number of bytes as the value presently
// occupying that offset; overwriting in place would shift every following
// byte; use Read+SplitOff+Append/Prepend to replace a varint with a
// differently-sized one instead.
var ErrVarintLengthMismatch = errors.New("codec: varint set would change encoded length")

// encodeVarintU64 appends v's base-128 encoding (least-significant group
// first, MSB=1 on every group but the last) to dst.
func encodeVarintU64(dst []byte, v uint64) []byte {
	for v >= continuationBit {
		dst = append(dst, byte(v)|continuationBit)
		v >>= 7
	}
	return append(dst, byte(v))
}

// readVarintU64 consumes a varint from the front of b, one byte at a time,
// stopping as soon as a byte with MSB=0 is seen.
func readVarintU64(b *bufT) (uint64, error) {
	var v uint64
	var shift uint
	for {
		raw, err := readN(b, 1)
		if err != nil {
			return 0, err
		}
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
		v |= uint64(raw[0]&0x7f) << shift
		if raw[0]&continuationBit == 0 {
			return v, nil
		}
		shift += 7
	}
}

// getVarintU64 is readVarintU64's non-consuming counterpart, starting at
// absolute offset i. It also returns the number of bytes the encoding
// occupies.
func getVarintU64(b *bufT, i int) (uint64, int, error) {
	var v uint64
	var shift uint
	consumed := 0
	for {
		raw, err := getN(b, i+consumed, 1)
		if err != nil {
			return 0, 0, err
		}
		consumed++
		if shift >= 64 {
			return 0, 0, ErrVarintOverflow
		}
		v |= uint64(raw[0]&0x7f) << shift
		if raw[0]&continuationBit == 0 {
			return v, consumed, nil
		}
		shift += 7
	}
}

// varintCodec builds a Codec[T] for a varint-encoded integer-backed type T.
// Unsigned values are encoded directly; signed values are encoded as the
// bit pattern of their unsigned counterpart (no zig-zag).
func varintCodec[T any](toU64 func(T) uint64, fromU64 func(uint64) T) Codec[T] {
	return Codec[T]{
		Read: func(b *bufT) (T, error) {
			v, err := readVarintU64(b)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromU64(v), nil
		},
		Get: func(b *bufT, i int) (T, error) {
			v, _, err := getVarintU64(b, i)
			if err != nil {
				var zero T
				return zero, err
			}
			return fromU64(v), nil
		},
		Set: func(b *bufT, i int, v T) error {
			_, oldLen, err := getVarintU64(b, i)
			if err != nil {
				return err
			}
			enc := encodeVarintU64(nil, toU64(v))
			if len(enc) != oldLen {
				return ErrVarintLengthMismatch
			}
			return setN(b, i, enc)
		},
		Append: func(b *bufT, v T) {
			appendN(b, encodeVarintU64(nil, toU64(v)))
		},
		Prepend: func(b *bufT, v T) {
			prependN(b, encodeVarintU64(nil, toU64(v)))
		},
	}
}

// Unsigned varints.
var (
	VarintU16 = varintCodec[uint16](
		func(v uint16) uint64 { return uint64(v) },
		func(u uint64) uint16 { return uint16(u) })
	VarintU32 = varintCodec[uint32](
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) })
	VarintU64 = varintCodec[uint64](
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u })
)

// Signed varints: the encoded bytes are the bit pattern of the unsigned
// counterpart, not a zig-zag transform.
var (
	VarintI16 = varintCodec[int16](
		func(v int16) uint64 { return uint64(uint16(v)) },
		func(u uint64) int16 { return int16(uint16(u)) })
	VarintI32 = varintCodec[int32](
		func(v int32) uint64 { return uint64(uint32(v)) },
		func(u uint64) int32 { return int32(uint32(u)) })
	VarintI64 = varintCodec[int64](
		func(v int64) uint64 { return uint64(v) },
		func(u uint64) int64 { return int64(u) })
)
