package codec

import (
	"unicode/utf8"

	nbuf "github.com/joeycumines/go-nexio/buf"
)

// ReadString consumes exactly n bytes from the front of b and validates them
// as UTF-8, failing with buf.ErrInvalidUTF8 (without un-consuming) if they
// are not.
func ReadString(b *nbuf.ByteBuf, n int) (string, error) {
	raw, err := readN(b, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", nbuf.ErrInvalidUTF8
	}
	return string(raw), nil
}

// GetString is ReadString's non-consuming counterpart.
func GetString(b *nbuf.ByteBuf, i, n int) (string, error) {
	raw, err := getN(b, i, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", nbuf.ErrInvalidUTF8
	}
	return string(raw), nil
}

// SetString overwrites len(s) bytes starting at absolute offset i.
func SetString(b *nbuf.ByteBuf, i int, s string) error {
	if !utf8.ValidString(s) {
		return nbuf.ErrInvalidUTF8
	}
	return setN(b, i, []byte(s))
}

// AppendString appends s, using the same ownership-transfer fast path as
// AppendBytes for large payloads.
func AppendString(b *nbuf.ByteBuf, s string) error {
	if !utf8.ValidString(s) {
		return nbuf.ErrInvalidUTF8
	}
	AppendBytes(b, []byte(s))
	return nil
}

// PrependString prepends s, using the same ownership-transfer fast path as
// PrependBytes for large payloads.
func PrependString(b *nbuf.ByteBuf, s string) error {
	if !utf8.ValidString(s) {
		return nbuf.ErrInvalidUTF8
	}
	PrependBytes(b, []byte(s))
	return nil
}
