// Package tlv implements the identifier and length octets of the
// tag-length-value (TLV) format used by the Distinguished Encoding Rules (DER)
// as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// This package deals with the syntactic layer of TLV encoding: it reads
// headers from a [Reader] that tracks absolute byte offsets, and appends
// identifier and length octets to byte slices. Interpreting values and
// building trees of values is done by package [wobbegong.dev/asn1/der].
//
// Only the definite-length encoding with low tag numbers (0 to 30) is
// supported.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"strconv"
	"strings"

	"wobbegong.dev/asn1"
)

// Identifier is the decoded identifier octet of a TLV.
type Identifier struct {
	Class       asn1.Class
	Constructed bool
	Tag         asn1.Tag
}

// Universal returns the identifier of the universal type t using the first
// encoding t permits. SEQUENCE and SET are therefore constructed and all
// other supported types are primitive.
func Universal(t asn1.Tag) Identifier {
	return Identifier{Class: asn1.ClassUniversal, Tag: t, Constructed: !t.Form().Allows(false)}
}

// Is reports whether id is the identifier of the universal type t, regardless
// of the encoding used.
func (id Identifier) Is(t asn1.Tag) bool {
	return id.Class == asn1.ClassUniversal && id.Tag == t
}

// Byte returns the identifier octet of id.
func (id Identifier) Byte() byte {
	b := byte(id.Class)<<6 | byte(id.Tag)&0x1f
	if id.Constructed {
		b |= 0x20
	}
	return b
}

// String returns a string representation of id. Universal tags are written by
// name, other tags in ASN.1 notation. The suffix "/c" or "/p" marks the
// encoding.
func (id Identifier) String() string {
	var s strings.Builder
	switch id.Class {
	case asn1.ClassUniversal:
		s.WriteString(id.Tag.String())
	case asn1.ClassContextSpecific:
		s.WriteString("[" + strconv.Itoa(int(id.Tag)) + "]")
	default:
		s.WriteString("[" + strings.ToUpper(id.Class.String()) + " " + strconv.Itoa(int(id.Tag)) + "]")
	}
	if id.Constructed {
		s.WriteString("/c")
	} else {
		s.WriteString("/p")
	}
	return s.String()
}

// LengthOctet is the decoded initial length octet of a TLV. In the short form
// Count is the length of the value. In the long form Count is the number of
// subsequent octets holding the length.
type LengthOctet struct {
	LongForm bool
	Count    int
}

// Header represents a TLV header: the identifier and the definite length of
// the value.
type Header struct {
	Identifier
	Length int
}

// String returns a string representation of h.
func (h Header) String() string {
	return h.Identifier.String() + ":" + strconv.Itoa(h.Length)
}

// Size returns the number of bytes needed to encode h.
func (h Header) Size() int {
	return 1 + LengthSize(h.Length)
}
