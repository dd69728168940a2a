// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/internal/vlq"
	"wobbegong.dev/asn1/tlv"
)

// structuralError returns an [*asn1.StructuralError] that is not tied to an
// offset. Callers that know the position of the content can fill it in.
func structuralError(format string, args ...any) error {
	return &asn1.StructuralError{Offset: -1, Err: fmt.Errorf(format, args...)}
}

//region [UNIVERSAL 1] BOOLEAN

// ParseBoolean interprets content as a BOOLEAN. DER admits only the single
// octets 0x00 (false) and 0xFF (true).
func ParseBoolean(content []byte) (bool, error) {
	if len(content) != 1 {
		return false, structuralError("invalid boolean length: %d", len(content))
	}
	switch content[0] {
	case 0x00:
		return false, nil
	case 0xff:
		return true, nil
	}
	return false, structuralError("invalid boolean value: %#02x", content[0])
}

// Boolean returns a BOOLEAN leaf holding v.
func Boolean(v bool) *Node {
	if v {
		return Leaf(asn1.TagBoolean, []byte{0xff})
	}
	return Leaf(asn1.TagBoolean, []byte{0x00})
}

//endregion

//region [UNIVERSAL 2] INTEGER

var bigOne = big.NewInt(1)

// ParseInteger interprets content as a two's-complement big-endian integer of
// arbitrary size. Empty content is an error. Redundant leading 0x00 or 0xFF
// octets are accepted.
func ParseInteger(content []byte) (*big.Int, error) {
	if len(content) == 0 {
		return nil, structuralError("empty integer")
	}
	i := new(big.Int)
	if content[0]&0x80 == 0 {
		return i.SetBytes(content), nil
	}
	// negative integer, calculate 2s complement
	bs := make([]byte, len(content))
	for j, b := range content {
		bs[j] = ^b
	}
	i.SetBytes(bs)
	i.Add(i, bigOne)
	return i.Neg(i), nil
}

// MarshalInteger returns the minimal two's-complement content octets of n.
// Zero is encoded as a single 0x00 octet.
func MarshalInteger(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{0x00}
	case 1:
		bs := n.Bytes()
		if bs[0]&0x80 != 0 {
			// We'll have to pad this with 0x00 in order to stop it
			// looking like a negative number.
			return append([]byte{0x00}, bs...)
		}
		return bs
	}
	// A negative number has to be converted to two's-complement
	// form. So we'll invert and subtract 1. If the
	// most-significant-bit isn't set then we'll need to pad the
	// beginning with 0xff in order to keep the number negative.
	nMinus1 := new(big.Int).Neg(n)
	nMinus1.Sub(nMinus1, bigOne)
	bs := nMinus1.Bytes()
	for i := range bs {
		bs[i] ^= 0xff
	}
	if len(bs) == 0 || bs[0]&0x80 == 0 {
		return append([]byte{0xff}, bs...)
	}
	return bs
}

// Integer returns an INTEGER leaf holding n.
func Integer(n *big.Int) *Node {
	return Leaf(asn1.TagInteger, MarshalInteger(n))
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// ParseBitString interprets content as a BIT STRING. The first octet is the
// number of unused bits in the last octet and must be between 0 and 7. A bit
// string without data octets cannot have unused bits.
func ParseBitString(content []byte) (asn1.BitString, error) {
	if len(content) == 0 {
		return asn1.BitString{}, structuralError("empty bit string")
	}
	s := asn1.BitString{UnusedBits: int(content[0]), Bytes: content[1:]}
	if !s.IsValid() {
		return asn1.BitString{}, structuralError("invalid padding bits in bit string: %d", content[0])
	}
	return s, nil
}

// MarshalBitString returns the content octets of s.
func MarshalBitString(s asn1.BitString) ([]byte, error) {
	if !s.IsValid() {
		return nil, errors.New("der: invalid bit string")
	}
	return append([]byte{byte(s.UnusedBits)}, s.Bytes...), nil
}

//endregion

//region [UNIVERSAL 5] NULL

// Null returns a NULL leaf.
func Null() *Node {
	return Leaf(asn1.TagNull, nil)
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// ParseObjectIdentifier interprets content as an OBJECT IDENTIFIER. The first
// subidentifier packs the first two arcs as 40*arc0 + arc1. Each arc is a
// base-128 number whose octets have the high bit set on all but the last
// octet. Arcs exceeding 64 bits and truncated arcs are errors.
func ParseObjectIdentifier(content []byte) (asn1.ObjectIdentifier, error) {
	if len(content) == 0 {
		return nil, structuralError("empty object identifier")
	}

	// The first varint is 40*value1 + value2:
	// According to this packing, value1 can take the values 0, 1 and 2 only.
	// When value1 = 0 or value1 = 1, then value2 is <= 39. When value1 = 2,
	// then there are no restrictions on value2.
	v, n, err := vlq.Decode[uint64](content)
	if err != nil {
		return nil, structuralError("object identifier: %w", err)
	}
	// In the worst case, we get two elements from the first byte (which is
	// encoded differently) and then every varint is a single byte long.
	oid := make(asn1.ObjectIdentifier, 2, len(content)+1)
	if v < 80 {
		oid[0] = v / 40
		oid[1] = v % 40
	} else {
		oid[0] = 2
		oid[1] = v - 80
	}
	for rest := content[n:]; len(rest) > 0; rest = rest[n:] {
		if v, n, err = vlq.Decode[uint64](rest); err != nil {
			return nil, structuralError("object identifier arc %d: %w", len(oid), err)
		}
		oid = append(oid, v)
	}
	return oid, nil
}

// MarshalObjectIdentifier returns the content octets of oid.
func MarshalObjectIdentifier(oid asn1.ObjectIdentifier) ([]byte, error) {
	if !oid.IsValid() || oid[1] > math.MaxUint64-80 {
		return nil, fmt.Errorf("der: invalid object identifier %v", oid)
	}
	b := vlq.Append(make([]byte, 0, len(oid)+8), oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		b = vlq.Append(b, arc)
	}
	return b, nil
}

// EncodeOID returns the content octets of the object identifier in the
// dot-separated notation s, for example "1.2.840.113549.1.1.11".
func EncodeOID(s string) ([]byte, error) {
	oid, err := asn1.ParseObjectIdentifier(s)
	if err != nil {
		return nil, err
	}
	return MarshalObjectIdentifier(oid)
}

// EncodeOIDArc returns the base-128 encoding of a single arc.
func EncodeOIDArc(arc uint64) []byte {
	return vlq.Append(nil, arc)
}

// ParseOIDArc decodes b as exactly one base-128 arc.
func ParseOIDArc(b []byte) (uint64, error) {
	v, n, err := vlq.Decode[uint64](b)
	if err != nil {
		return 0, structuralError("object identifier arc: %w", err)
	}
	if n != len(b) {
		return 0, structuralError("object identifier arc: %w", errTrailingData)
	}
	return v, nil
}

// OID returns an OBJECT IDENTIFIER leaf for the dot-separated notation s.
func OID(s string) (*Node, error) {
	b, err := EncodeOID(s)
	if err != nil {
		return nil, err
	}
	return Leaf(asn1.TagOID, b), nil
}

//endregion

//region [UNIVERSAL 23] UTCTime

// ParseUTCTime interprets content as a UTCTime. The content must match one of
// the formats
//
//	YYMMDDhhmmZ
//	YYMMDDhhmmssZ
//	YYMMDDhhmm+hhmm
//	YYMMDDhhmm-hhmm
//	YYMMDDhhmmss+hhmm
//	YYMMDDhhmmss-hhmm
//
// The two-digit year is resolved to the year closest to referenceYear using
// [asn1.NearestYear]. Any other content fails with an [*asn1.DateFormatError].
func ParseUTCTime(content []byte, referenceYear int) (time.Time, error) {
	s := string(content)
	fail := func() (time.Time, error) {
		return time.Time{}, &asn1.DateFormatError{Value: s}
	}
	if len(s) < 11 || len(s) > 17 {
		return fail()
	}
	yy := atoiN[int](s, 2)
	month := atoiN[time.Month](s[2:], 2)
	day := atoiN[int](s[4:], 2)
	hour := atoiN[int](s[6:], 2)
	minute := atoiN[int](s[8:], 2)
	if yy < 0 || month < 0 || day < 0 || hour < 0 || minute < 0 {
		return fail()
	}
	rest := s[10:]
	second := atoiN[int](rest, 2)
	if second >= 0 {
		rest = rest[2:]
	} else {
		second = 0
	}
	loc := parseLocation(rest)
	if loc == nil {
		return fail()
	}
	year, err := asn1.NearestYear(yy, referenceYear)
	if err != nil {
		return time.Time{}, &asn1.DateFormatError{Value: s, Err: err}
	}
	ret := time.Date(year, month, day, hour, minute, second, 0, loc)
	if ret.Year() != year || ret.Month() != month || ret.Day() != day || ret.Hour() != hour || ret.Minute() != minute || ret.Second() != second {
		return fail()
	}
	return ret, nil
}

// MarshalUTCTime returns the content octets of t in the format YYMMDDhhmmssZ.
// t is converted to UTC first.
func MarshalUTCTime(t time.Time) []byte {
	return []byte(asn1.UTCTime(t.UTC()).String())
}

// parseLocation parses a "Z" or a "+hhmm" or "-hhmm" offset suffix. It returns
// nil if s has any other shape.
func parseLocation(s string) *time.Location {
	if s == "Z" {
		return time.UTC
	}
	if len(s) != 5 {
		return nil
	}
	if s[0] != '+' && s[0] != '-' {
		return nil
	}
	mul := 44 - int(s[0])
	locHour := atoiN[int](s[1:], 2)
	locMinute := atoiN[int](s[3:], 2)
	if locHour < 0 || locHour > 23 || locMinute < 0 || locMinute > 59 {
		return nil
	}
	return time.FixedZone("", mul*(locHour*3600+locMinute*60))
}

// atoiN parses the first n characters of s as a non-negative decimal number.
// It returns -1 if s is too short or contains a non-digit.
func atoiN[T ~int | ~int64](s string, n int) (i T) {
	if len(s) < n {
		return -1
	}
	for j := 0; j < n; j++ {
		if s[j] < '0' || '9' < s[j] {
			return -1
		}
		i = i*10 + T(s[j]-'0')
	}
	return i
}

//endregion

//region Character Strings

// ParseString decodes the content of a character string leaf with identifier
// id. IA5String and PrintableString content must stay within their
// character sets. UTF8String content must be valid UTF-8. Violations fail with
// an [*asn1.CharsetError]. Any other identifier fails with an
// [*asn1.UnsupportedTagError].
func ParseString(id tlv.Identifier, content []byte) (string, error) {
	if id.Class != asn1.ClassUniversal {
		return "", &asn1.UnsupportedTagError{Offset: -1, Class: id.Class, Number: id.Tag}
	}
	switch id.Tag {
	case asn1.TagIA5String:
		b, err := asn1.IA5.NewDecoder().Bytes(content)
		return string(b), err
	case asn1.TagPrintableString:
		b, err := asn1.Printable.NewDecoder().Bytes(content)
		return string(b), err
	case asn1.TagUTF8String:
		if err := validateUTF8(content); err != nil {
			return "", err
		}
		return string(content), nil
	}
	return "", &asn1.UnsupportedTagError{Offset: -1, Class: id.Class, Number: id.Tag}
}

// MarshalString returns the content octets of s as a character string of
// type t. t must be one of IA5String, PrintableString or UTF8String.
func MarshalString(t asn1.Tag, s string) ([]byte, error) {
	switch t {
	case asn1.TagIA5String:
		b, err := asn1.IA5.NewEncoder().String(s)
		return []byte(b), err
	case asn1.TagPrintableString:
		b, err := asn1.Printable.NewEncoder().String(s)
		return []byte(b), err
	case asn1.TagUTF8String:
		b := []byte(s)
		if err := validateUTF8(b); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, &asn1.UnsupportedTagError{Offset: -1, Class: asn1.ClassUniversal, Number: t}
}

// String returns a character string leaf of type t holding s.
func String(t asn1.Tag, s string) (*Node, error) {
	b, err := MarshalString(t, s)
	if err != nil {
		return nil, err
	}
	return Leaf(t, b), nil
}

// validateUTF8 returns an [*asn1.CharsetError] for the first byte of b that
// does not start a valid UTF-8 sequence.
func validateUTF8(b []byte) error {
	_, n, err := transform.Bytes(encoding.UTF8Validator, b)
	if err == nil {
		return nil
	}
	cErr := &asn1.CharsetError{Charset: asn1.TagUTF8String.String()}
	if n < len(b) {
		cErr.Byte = b[n]
	}
	return cErr
}

//endregion
