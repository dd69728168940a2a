// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"errors"
	"strconv"
	"strings"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/der"
)

var (
	errMissing    = errors.New("missing element")
	errWrongType  = errors.New("unexpected element")
	errChildCount = errors.New("unexpected number of elements")
	errVersion    = errors.New("invalid version")
	errOrder      = errors.New("optional fields out of order")
)

// A FieldError describes a certificate element that does not have the
// expected shape. Field names the expected element using the names of
// RFC 5280, for example "serialNumber" or "validity". Position is the index of
// the element within its parent. Found describes the element actually
// encountered.
//
// Err is the cause. Shape violations are reported as an
// [*asn1.StructuralError] carrying the absolute offset of the element.
// Failures of the leaf decoders (for example an [*asn1.CharsetError]) and the
// errors [*UnknownOIDError] and [*UnsupportedAlgorithmError] are passed through
// unchanged.
type FieldError struct {
	Field    string
	Position int
	Found    string
	Err      error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString("x509: invalid ")
	b.WriteString(e.Field)
	b.WriteString(" at position ")
	b.WriteString(strconv.Itoa(e.Position))
	if e.Found != "" {
		b.WriteString(" (found ")
		b.WriteString(e.Found)
		b.WriteByte(')')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// fieldError returns a *FieldError for the element n at position pos. If err
// is a sentinel of this package, it is wrapped in an [*asn1.StructuralError]
// located at n. n may be nil if the element is missing, in which case the
// error is located at offset.
func fieldError(field string, pos int, n *der.Node, offset int, err error) *FieldError {
	found := "nothing"
	if n != nil {
		found = n.Identifier.String()
		offset = n.Start
	}
	var sErr *asn1.StructuralError
	switch {
	case errors.As(err, &sErr):
		if sErr.Offset < 0 {
			sErr.Offset = offset
		}
	case isShapeError(err):
		err = &asn1.StructuralError{Offset: offset, Err: err}
	}
	return &FieldError{Field: field, Position: pos, Found: found, Err: err}
}

func isShapeError(err error) bool {
	for _, target := range []error{errMissing, errWrongType, errChildCount, errVersion, errOrder} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UnknownOIDError reports an algorithm identifier that is not part of the
// object identifier registry.
type UnknownOIDError struct {
	OID string
}

func (e *UnknownOIDError) Error() string {
	return "x509: unknown object identifier " + e.OID
}

// UnsupportedAlgorithmError reports a public key algorithm that is known but
// cannot be decoded, such as Ed25519 keys.
type UnsupportedAlgorithmError struct {
	OID  string
	Name string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return "x509: unsupported public key algorithm " + e.Name + " (" + e.OID + ")"
}

// BundleItemError reports the failure of a single certificate within a
// bundle. Index is the position of the certificate in the bundle.
type BundleItemError struct {
	Index int
	Err   error
}

func (e *BundleItemError) Error() string {
	return "x509: certificate " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *BundleItemError) Unwrap() error {
	return e.Err
}
