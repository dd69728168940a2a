package tlv

import (
	"math/bits"

	"wobbegong.dev/asn1"
)

// LengthSize returns the number of length octets needed to encode the length
// n. n must not be negative.
func LengthSize(n int) int {
	if n <= 127 {
		return 1
	}
	return 1 + (bits.Len(uint(n))+7)/8
}

// LengthOctets returns the DER length octets for n: a single octet for
// lengths up to 127, otherwise an octet 0x80|k followed by the k bytes of the
// minimal big-endian representation of n. n must not be negative.
func LengthOctets(n int) []byte {
	return AppendLength(make([]byte, 0, LengthSize(n)), n)
}

// AppendLength appends the DER length octets for n to dst and returns the
// extended buffer.
func AppendLength(dst []byte, n int) []byte {
	if n <= 127 {
		return append(dst, byte(n))
	}
	k := LengthSize(n) - 1
	dst = append(dst, 0x80|byte(k))
	for i := k - 1; i >= 0; i-- {
		dst = append(dst, byte(n>>(i*8)))
	}
	return dst
}

// AppendIdentifier appends the identifier octet of id to dst. Tag numbers in
// the high-tag-number range fail with an [*asn1.UnsupportedTagError].
func AppendIdentifier(dst []byte, id Identifier) ([]byte, error) {
	if id.Tag >= asn1.TagHighNumber || !id.Class.IsValid() {
		return dst, &asn1.UnsupportedTagError{Offset: -1, Class: id.Class, Number: id.Tag}
	}
	return append(dst, id.Byte()), nil
}

// AppendHeader appends the identifier and length octets of h to dst.
func AppendHeader(dst []byte, h Header) ([]byte, error) {
	dst, err := AppendIdentifier(dst, h.Identifier)
	if err != nil {
		return dst, err
	}
	return AppendLength(dst, h.Length), nil
}
