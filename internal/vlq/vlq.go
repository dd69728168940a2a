// Package vlq implements [Variable-length quantity] encoding as used by the
// arcs of an ASN.1 OBJECT IDENTIFIER. A VLQ is essentially a base-128
// representation of an unsigned integer with the addition of the eighth bit
// to mark continuation of bytes. The most significant group comes first.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

var (
	errNotMinimal = errors.New("vlq is not minimally encoded")
	errOverflow   = errors.New("vlq too large for target type")
)

// Uint is the set of types a VLQ can be decoded into.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Decode parses an unsigned VLQ from the start of b and returns the value and
// the number of bytes it occupies. The maximum allowed value is limited by the
// size of T. The VLQ must be minimally encoded, i.e. it must not start with a
// 0x80 byte.
//
// If b is empty, Decode returns io.EOF. If b ends before the final group of
// the VLQ, the error is io.ErrUnexpectedEOF.
func Decode[T Uint](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, io.EOF
	}
	if b[0] == 0x80 {
		return 0, 0, errNotMinimal
	}

	numBits := 0
	for n < len(b) {
		c := b[n]
		n++

		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, 0, errOverflow
		}
		ret = ret<<7 | T(c&0x7f)

		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// Len returns the number of bytes needed to encode n as a VLQ.
func Len[T Uint](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the minimal VLQ encoding of i to dst and returns the extended
// buffer.
func Append[T Uint](dst []byte, i T) []byte {
	for j := Len(i) - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
