// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"fmt"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/tlv"
)

var (
	errTrailingData  = errors.New("trailing data after element")
	errLengthExceeds = errors.New("declared length exceeds remaining bytes")
	errInvalidForm   = errors.New("invalid encoding form")
	errEmpty         = errors.New("no data")
)

// Parse decodes b as exactly one DER element. Offsets in the result are
// relative to the start of b. Trailing bytes after the element are an error.
func Parse(b []byte) (*Node, error) {
	return parseExactly(b, 0)
}

// ParseAll decodes b as a concatenation of DER elements, for example a series
// of certificates. An empty b yields no nodes.
func ParseAll(b []byte) ([]*Node, error) {
	r := tlv.NewReader(b, 0)
	var nodes []*Node
	for r.Len() > 0 {
		n, err := ParseNext(r)
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseExactly decodes b as exactly one element located at the absolute offset
// base.
func parseExactly(b []byte, base int) (*Node, error) {
	if len(b) == 0 {
		return nil, &asn1.StructuralError{Offset: base, Err: errEmpty}
	}
	r := tlv.NewReader(b, base)
	n, err := ParseNext(r)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, &asn1.StructuralError{Offset: r.Offset(), Err: errTrailingData}
	}
	return n, nil
}

// ParseNext decodes the element at the read position of r and advances r past
// it. Start is set to the absolute offset of the identifier octet as reported
// by r.
//
// The content window of an element may not extend beyond the end of r; such
// an element fails with an [*asn1.StructuralError] without reading past the
// end. The content of a universal SEQUENCE or SET is decoded recursively into
// children with absolute offsets. The content of every other element is kept
// verbatim.
func ParseNext(r *tlv.Reader) (*Node, error) {
	start := r.Offset()
	h, err := r.ReadHeader()
	if err != nil {
		return nil, err
	}
	if h.Length > r.Len() {
		return nil, &asn1.StructuralError{
			Offset: start,
			Err:    fmt.Errorf("%w: %v declares %d bytes, %d remaining", errLengthExceeds, h.Identifier, h.Length, r.Len()),
		}
	}
	if h.Class == asn1.ClassUniversal && !h.Tag.Form().Allows(h.Constructed) {
		return nil, &asn1.StructuralError{
			Offset: start,
			Err:    fmt.Errorf("%w: %v must use form %v", errInvalidForm, h.Identifier, h.Tag.Form()),
		}
	}
	contentStart := r.Offset()
	content, _ := r.Next(h.Length)
	n := &Node{
		Kind:       KindLeaf,
		Identifier: h.Identifier,
		Start:      start,
		Length:     h.Length,
		Content:    content,
		Raw:        r.Since(start),
	}
	switch {
	case h.Is(asn1.TagSequence):
		n.Kind = KindSequence
	case h.Is(asn1.TagSet):
		n.Kind = KindSet
	default:
		return n, nil
	}

	cr := tlv.NewReader(content, contentStart)
	n.Children = []*Node{}
	for cr.Len() > 0 {
		child, err := ParseNext(cr)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}
