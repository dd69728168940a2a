// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 defines the vocabulary shared by the DER codec and the X.509
// model builder: tag classes, the closed registry of universal tag numbers,
// Go types for some ASN.1 types and the error types returned by all layers.
//
// Encoding and decoding is implemented in subpackages. Package [tlv] handles
// identifier and length octets, package [der] builds and encodes node trees
// and interprets primitive contents, and package [x509] turns a decoded tree
// into typed certificate records.
//
// # Tags
//
// Only the low-tag-number form of identifier octets is supported. A [Tag] is
// therefore a 5-bit number between 0 and 30. In the [ClassUniversal] namespace
// every number except 15 is assigned a type by Rec. ITU-T X.680 and each type
// permits the primitive encoding, the constructed encoding or both (see
// [Tag.Form]). Tag numbers in other classes carry no intrinsic meaning.
//
// # Character Sets
//
// The [IA5] and [Printable] encodings implement the character sets of the
// IA5String and PrintableString types as [golang.org/x/text/encoding.Encoding]
// values. Conversions never substitute characters: a byte outside the
// character set fails with a [*CharsetError].
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
// [tlv]: https://pkg.go.dev/wobbegong.dev/asn1/tlv
// [der]: https://pkg.go.dev/wobbegong.dev/asn1/der
// [x509]: https://pkg.go.dev/wobbegong.dev/asn1/x509
package asn1

import (
	"strconv"
)

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Tag is a tag number in the low-tag-number form. For identifiers of the
// [ClassUniversal] class the tag number selects an ASN.1 type. The String
// method returns the name of that type.
type Tag uint8

// TagHighNumber is the value of the tag bits of an identifier octet that
// introduces the high-tag-number form. That form is not supported.
const TagHighNumber Tag = 31

// These are the tag numbers defined in the [ClassUniversal] namespace. These
// assignments are defined in Rec. ITU-T X.680, Section 8, Table 1. Number 15
// is reserved.
const (
	TagEndOfContents    Tag = 0
	TagBoolean          Tag = 1
	TagInteger          Tag = 2
	TagBitString        Tag = 3
	TagOctetString      Tag = 4
	TagNull             Tag = 5
	TagOID              Tag = 6
	TagObjectDescriptor Tag = 7
	TagExternal         Tag = 8
	TagReal             Tag = 9
	TagEnumerated       Tag = 10
	TagEmbeddedPDV      Tag = 11
	TagUTF8String       Tag = 12
	TagRelativeOID      Tag = 13
	TagTime             Tag = 14
	TagSequence         Tag = 16
	TagSet              Tag = 17
	TagNumericString    Tag = 18
	TagPrintableString  Tag = 19
	TagTeletexString    Tag = 20
	TagT61String            = TagTeletexString
	TagVideotexString   Tag = 21
	TagIA5String        Tag = 22
	TagUTCTime          Tag = 23
	TagGeneralizedTime  Tag = 24
	TagGraphicString    Tag = 25
	TagVisibleString    Tag = 26
	TagISO646String         = TagVisibleString
	TagGeneralString    Tag = 27
	TagUniversalString  Tag = 28
	TagCharacterString  Tag = 29
	TagBMPString        Tag = 30
)

// Form is a set of encodings a universal type permits.
type Form uint8

// A [Tag] permits the primitive encoding, the constructed encoding, or both.
const (
	FormPrimitive Form = 1 << iota
	FormConstructed
)

// Allows reports whether f permits the primitive (constructed == false) or
// constructed encoding.
func (f Form) Allows(constructed bool) bool {
	if constructed {
		return f&FormConstructed != 0
	}
	return f&FormPrimitive != 0
}

// String returns "P", "C" or "PC".
func (f Form) String() string {
	s := ""
	if f&FormPrimitive != 0 {
		s += "P"
	}
	if f&FormConstructed != 0 {
		s += "C"
	}
	return s
}

const formBoth = FormPrimitive | FormConstructed

var universalTags = [TagHighNumber]struct {
	name string
	form Form
}{
	TagEndOfContents:    {"EOC", FormPrimitive},
	TagBoolean:          {"BOOLEAN", FormPrimitive},
	TagInteger:          {"INTEGER", FormPrimitive},
	TagBitString:        {"BIT STRING", formBoth},
	TagOctetString:      {"OCTET STRING", formBoth},
	TagNull:             {"NULL", FormPrimitive},
	TagOID:              {"OBJECT IDENTIFIER", FormPrimitive},
	TagObjectDescriptor: {"ObjectDescriptor", formBoth},
	TagExternal:         {"EXTERNAL", FormConstructed},
	TagReal:             {"REAL", FormPrimitive},
	TagEnumerated:       {"ENUMERATED", FormPrimitive},
	TagEmbeddedPDV:      {"EMBEDDED PDV", FormConstructed},
	TagUTF8String:       {"UTF8String", formBoth},
	TagRelativeOID:      {"RELATIVE-OID", FormPrimitive},
	TagTime:             {"TIME", FormPrimitive},
	15:                  {"", 0},
	TagSequence:         {"SEQUENCE", FormConstructed},
	TagSet:              {"SET", FormConstructed},
	TagNumericString:    {"NumericString", formBoth},
	TagPrintableString:  {"PrintableString", formBoth},
	TagTeletexString:    {"TeletexString", formBoth},
	TagVideotexString:   {"VideotexString", formBoth},
	TagIA5String:        {"IA5String", formBoth},
	TagUTCTime:          {"UTCTime", formBoth},
	TagGeneralizedTime:  {"GeneralizedTime", formBoth},
	TagGraphicString:    {"GraphicString", formBoth},
	TagVisibleString:    {"VisibleString", formBoth},
	TagGeneralString:    {"GeneralString", formBoth},
	TagUniversalString:  {"UniversalString", formBoth},
	TagCharacterString:  {"CHARACTER STRING", FormConstructed},
	TagBMPString:        {"BMPString", formBoth},
}

// LookupTag returns the universal type with tag number n. The boolean result
// is false if n is reserved or not a low tag number.
func LookupTag(n uint8) (Tag, bool) {
	t := Tag(n)
	return t, t.IsValid()
}

// IsValid reports whether t is a universal tag number with an assigned type.
func (t Tag) IsValid() bool {
	return t < TagHighNumber && universalTags[t].form != 0
}

// Form returns the encodings permitted by the universal type t. The result is
// 0 if t is not valid.
func (t Tag) Form() Form {
	if t >= TagHighNumber {
		return 0
	}
	return universalTags[t].form
}

// String returns the ASN.1 name of the universal type t. Numbers without an
// assigned type are formatted as "Tag(n)".
func (t Tag) String() string {
	if t.IsValid() {
		return universalTags[t].name
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}
