// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"strconv"
	"strings"
)

// A StructuralError suggests that the DER data is malformed: the input ended
// early, a declared length exceeds the remaining bytes, a primitive value
// cannot be interpreted, or a decoded tree does not have the expected shape.
type StructuralError struct {
	// Offset is the location of the error within the input, usually the start
	// of the identifier octet of the element containing the error. Offset is
	// negative if the error is not tied to a position, for example when
	// interpreting detached content bytes.
	Offset int

	Err error // underlying error
}

func (e *StructuralError) Error() string {
	var s strings.Builder
	s.WriteString("asn1: structural error")
	if e.Offset >= 0 {
		s.WriteString(" at offset ")
		s.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// An UnsupportedTagError indicates an identifier octet whose tag cannot be
// handled: either the high-tag-number form or a reserved universal tag number.
type UnsupportedTagError struct {
	Offset int // location of the identifier octet, negative if unknown
	Class  Class
	Number Tag
}

func (e *UnsupportedTagError) Error() string {
	var s strings.Builder
	s.WriteString("asn1: unsupported tag ")
	if e.Number >= TagHighNumber {
		s.WriteString("(high tag number form)")
	} else {
		s.WriteByte('[')
		if e.Class != ClassContextSpecific {
			s.WriteString(strings.ToUpper(e.Class.String()))
			s.WriteByte(' ')
		}
		s.WriteString(strconv.Itoa(int(e.Number)))
		s.WriteByte(']')
	}
	if e.Offset >= 0 {
		s.WriteString(" at offset ")
		s.WriteString(strconv.Itoa(e.Offset))
	}
	return s.String()
}

// A CharsetError indicates a byte that is not part of the character set of an
// ASN.1 string type.
type CharsetError struct {
	Charset string // name of the string type, e.g. "PrintableString"
	Byte    byte   // the first offending byte
}

func (e *CharsetError) Error() string {
	return "asn1: byte 0x" + strconv.FormatUint(uint64(e.Byte), 16) + " not allowed in " + e.Charset
}

// A DateFormatError indicates that the contents of a time value do not match
// any of the supported formats.
type DateFormatError struct {
	Value string // the offending text
	Err   error  // optional detail
}

func (e *DateFormatError) Error() string {
	s := "asn1: invalid time " + strconv.Quote(e.Value)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DateFormatError) Unwrap() error {
	return e.Err
}
