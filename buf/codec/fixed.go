package codec

import (
	"encoding/binary"
	"math"
)

// U8 and I8 carry no endianness: a single byte has no byte order.
var (
	U8 = fixedCodec[uint8](1, binary.BigEndian,
		func(v uint8) uint64 { return uint64(v) },
		func(u uint64) uint8 { return uint8(u) })
	I8 = fixedCodec[int8](1, binary.BigEndian,
		func(v int8) uint64 { return uint64(uint8(v)) },
		func(u uint64) int8 { return int8(uint8(u)) })
)

// 16-bit integers, big- and little-endian.
var (
	U16BE = fixedCodec[uint16](2, binary.BigEndian,
		func(v uint16) uint64 { return uint64(v) },
		func(u uint64) uint16 { return uint16(u) })
	U16LE = fixedCodec[uint16](2, binary.LittleEndian,
		func(v uint16) uint64 { return uint64(v) },
		func(u uint64) uint16 { return uint16(u) })
	I16BE = fixedCodec[int16](2, binary.BigEndian,
		func(v int16) uint64 { return uint64(uint16(v)) },
		func(u uint64) int16 { return int16(uint16(u)) })
	I16LE = fixedCodec[int16](2, binary.LittleEndian,
		func(v int16) uint64 { return uint64(uint16(v)) },
		func(u uint64) int16 { return int16(uint16(u)) })
)

// 32-bit integers, big- and little-endian.
var (
	U32BE = fixedCodec[uint32](4, binary.BigEndian,
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) })
	U32LE = fixedCodec[uint32](4, binary.LittleEndian,
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) })
	I32BE = fixedCodec[int32](4, binary.BigEndian,
		func(v int32) uint64 { return uint64(uint32(v)) },
		func(u uint64) int32 { return int32(uint32(u)) })
	I32LE = fixedCodec[int32](4, binary.LittleEndian,
		func(v int32) uint64 { return uint64(uint32(v)) },
		func(u uint64) int32 { return int32(uint32(u)) })
)

// 64-bit integers, big- and little-endian.
var (
	U64BE = fixedCodec[uint64](8, binary.BigEndian,
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u })
	U64LE = fixedCodec[uint64](8, binary.LittleEndian,
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u })
	I64BE = fixedCodec[int64](8, binary.BigEndian,
		func(v int64) uint64 { return uint64(v) },
		func(u uint64) int64 { return int64(u) })
	I64LE = fixedCodec[int64](8, binary.LittleEndian,
		func(v int64) uint64 { return uint64(v) },
		func(u uint64) int64 { return int64(u) })
)

// floatCodec32 and floatCodec64 reuse the integer fixedCodec machinery,
// converting at the Codec boundary via the IEEE-754 bit pattern.
func floatCodec32(order binary.ByteOrder) Codec[float32] {
	bits := fixedCodec[uint32](4, order,
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) })
	return Codec[float32]{
		Read: func(b *bufT) (float32, error) {
			v, err := bits.Read(b)
			return math.Float32frombits(v), err
		},
		Get: func(b *bufT, i int) (float32, error) {
			v, err := bits.Get(b, i)
			return math.Float32frombits(v), err
		},
		Set:     func(b *bufT, i int, v float32) error { return bits.Set(b, i, math.Float32bits(v)) },
		Append:  func(b *bufT, v float32) { bits.Append(b, math.Float32bits(v)) },
		Prepend: func(b *bufT, v float32) { bits.Prepend(b, math.Float32bits(v)) },
	}
}

func floatCodec64(order binary.ByteOrder) Codec[float64] {
	bits := fixedCodec[uint64](8, order,
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u })
	return Codec[float64]{
		Read: func(b *bufT) (float64, error) {
			v, err := bits.Read(b)
			return math.Float64frombits(v), err
		},
		Get: func(b *bufT, i int) (float64, error) {
			v, err := bits.Get(b, i)
			return math.Float64frombits(v), err
		},
		Set:     func(b *bufT, i int, v float64) error { return bits.Set(b, i, math.Float64bits(v)) },
		Append:  func(b *bufT, v float64) { bits.Append(b, math.Float64bits(v)) },
		Prepend: func(b *bufT, v float64) { bits.Prepend(b, math.Float64bits(v)) },
	}
}

var (
	F32BE = floatCodec32(binary.BigEndian)
	F32LE = floatCodec32(binary.LittleEndian)
	F64BE = floatCodec64(binary.BigEndian)
	F64LE = floatCodec64(binary.LittleEndian)
)
