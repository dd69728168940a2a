// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
	"unsafe"
)

//region [UNIVERSAL 2] INTEGER
// Implemented as *big.Int.
//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte and the number of padding bits in the last byte is
// recorded in UnusedBits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes      []byte // bits packed into bytes.
	UnusedBits int    // number of padding bits in the last byte, 0-7.
}

// IsValid reports whether UnusedBits is in range. An empty bit string cannot
// have padding bits.
func (s BitString) IsValid() bool {
	if len(s.Bytes) == 0 {
		return s.UnusedBits == 0
	}
	return s.UnusedBits >= 0 && s.UnusedBits <= 7
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return len(s.Bytes)*8 - s.UnusedBits
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.Len() {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats s into a readable binary representation. Bits are grouped
// into bytes. The last group may have fewer than 8 characters.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.Len() + len(s.Bytes))
	for i := range s.Len() {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

var errInvalidOID = errors.New("invalid object identifier")

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660]. Arcs are limited
// to 64 bits.
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint64

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier, for example "2.5.4.3". The result is valid as defined by
// [ObjectIdentifier.IsValid].
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	oid := make(ObjectIdentifier, len(parts))
	for i, p := range parts {
		// ParseUint accepts neither signs nor empty strings
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("asn1: %w %q: %w", errInvalidOID, s, err)
		}
		oid[i] = v
	}
	if !oid.IsValid() {
		return nil, fmt.Errorf("asn1: %w %q", errInvalidOID, s)
	}
	return oid, nil
}

// IsValid reports whether oid has at least two arcs, the first arc is 0, 1 or
// 2, and the second arc is below 40 unless the first arc is 2.
func (oid ObjectIdentifier) IsValid() bool {
	if len(oid) < 2 || oid[0] > 2 {
		return false
	}
	return oid[0] == 2 || oid[1] < 40
}

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 20)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, v, 10))
	}

	return s.String()
}

//endregion

//region [UNIVERSAL 12] UTF8String

// UTF8String represents the ASN.1 UTF8String type. It can only hold valid UTF-8
// values.
//
// See also section 41 of Rec. ITU-T X.680.
type UTF8String string

// IsValid reports whether s is a valid UTF-8 string.
func (s UTF8String) IsValid() bool {
	return utf8.ValidString(string(s))
}

//endregion

//region [UNIVERSAL 19] PrintableString

// PrintableString represents the ASN.1 type PrintableString. A printable string
// can only contain the following ASCII characters:
//
//	A-Z	// upper case letters
//	a-z	// lower case letters
//	0-9	// digits
//	 	// space
//	'	// apostrophe
//	()	// Parenthesis
//	+-/	// plus, hyphen, solidus
//	.,:	// fill stop, comma, colon
//	=	// equals sign
//	?	// question mark
//
// See also section 41 of Rec. ITU-T X.680.
type PrintableString string

// IsValid reports whether s consists only of printable characters.
func (s PrintableString) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if !isPrintable(s[i], false, false) {
			return false
		}
	}
	return true
}

// isPrintable reports whether the given b is in the ASN.1 PrintableString set.
// If asterisk is true then '*' is also allowed, reflecting existing practice.
// If ampersand is true then '&' is allowed as well.
func isPrintable(b byte, asterisk, ampersand bool) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?' ||
		(asterisk && b == '*') ||
		(ampersand && b == '&')
}

//endregion

//region [UNIVERSAL 22] IA5String

// IA5String represents the ASN.1 type IA5String. An IA5String must consist on
// ASCII characters only. Note that it is possible to create IA5String values in
// Go that violate this constraint. Use the IsValid method to check whether a
// string's contents are ASCII only.
//
// See also section 41 of Rec. ITU-T X.680.
type IA5String string

// IsValid reports whether the contents of s consist only of ASCII characters.
func (s IA5String) IsValid() bool {
	for i := 0; i < len(s); i++ {
		if !isIA5(s[i]) {
			return false
		}
	}
	return true
}

//endregion

//region [UNIVERSAL 23] UTCTime

var errYearRange = errors.New("two-digit year out of range")

// UTCTime represents the corresponding ASN.1 type. UTCTime stores the year
// with two digits only. The century is resolved when decoding by choosing the
// year closest to a reference year, see [NearestYear].
//
// See also section 47 of Rec. ITU-T X.680.
type UTCTime time.Time

// String returns the time of t in the format YYMMDDhhmmssZ or YYMMDDhhmmss+hhmm.
func (t UTCTime) String() string {
	tt := time.Time(t)
	b := strings.Builder{}
	b.Grow(17)
	b.WriteString(itoaN(tt.Year()%100, 2))
	b.WriteString(itoaN(tt.Month(), 2))
	b.WriteString(itoaN(tt.Day(), 2))
	b.WriteString(itoaN(tt.Hour(), 2))
	b.WriteString(itoaN(tt.Minute(), 2))
	b.WriteString(itoaN(tt.Second(), 2))
	_, offset := tt.Zone()
	offset /= 60
	if offset == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	if offset < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	b.WriteString(itoaN(offset/60, 2))
	b.WriteString(itoaN(offset%60, 2))
	return b.String()
}

// NearestYear returns the calendar year ending in the digits twoDigit that is
// within 50 years of referenceYear. If twoDigit matches the last two digits of
// referenceYear, the result is referenceYear. Otherwise the candidates in the
// century of referenceYear, the previous century and the next century are
// considered in this order. twoDigit must be between 0 and 99.
func NearestYear(twoDigit, referenceYear int) (int, error) {
	if twoDigit < 0 || twoDigit > 99 {
		return 0, &DateFormatError{Value: strconv.Itoa(twoDigit), Err: errYearRange}
	}
	last := (referenceYear%100 + 100) % 100
	if twoDigit == last {
		return referenceYear, nil
	}
	century := referenceYear - last
	for _, year := range [...]int{century + twoDigit, century - 100 + twoDigit, century + 100 + twoDigit} {
		if referenceYear-50 <= year && year <= referenceYear+50 {
			return year, nil
		}
	}
	// unreachable for twoDigit in range
	return 0, &DateFormatError{Value: strconv.Itoa(twoDigit), Err: errYearRange}
}

// itoaN returns the base 10 string representation of the absolute value of i,
// truncated or zero padded to exactly n digits.
func itoaN[T ~int](i T, n int) string {
	if i < 0 {
		i = -i
	}
	bs := make([]byte, n)
	for ; n > 0; n-- {
		bs[n-1] = '0' + byte(i%10)
		i /= 10
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}

//endregion
