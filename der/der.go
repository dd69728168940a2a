// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements a tree model of the ASN.1 Distinguished Encoding
// Rules (DER). The Distinguished Encoding Rules are defined in
// [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// [Parse] decodes a DER encoding into a tree of [Node] values. Universal
// SEQUENCE and SET encodings become interior nodes whose children are decoded
// recursively. Every other encoding, including constructed encodings with a
// context-specific or application tag, becomes a leaf holding its content
// octets verbatim. No semantic interpretation happens while parsing. The
// functions ParseInteger, ParseObjectIdentifier, ParseBitString,
// ParseUTCTime and ParseString interpret the content of leaves.
//
// [Encode] is the inverse of [Parse]. The content of SEQUENCE and SET nodes is
// derived from their children while encoding, so a tree can be assembled
// from the Leaf, Sequence, Set and Wrap builders and the Marshal functions.
// For canonical DER input, encoding a parsed tree reproduces the input byte
// for byte.
//
// The following limitations apply:
//
//   - Only definite-length encodings are supported.
//   - Only low tag numbers (0 to 30) are supported. The high-tag-number form
//     fails with an [*asn1.UnsupportedTagError].
//   - Universal tags must use a permitted encoding (see [asn1.Tag.Form]).
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package der

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/tlv"
)

// Kind discriminates the shape of a [Node].
type Kind uint8

const (
	KindLeaf     Kind = iota // content octets kept verbatim
	KindSequence             // ordered children
	KindSet                  // children whose order carries no meaning
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindSequence:
		return "Sequence"
	case KindSet:
		return "Set"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is a single element of a DER tree.
//
// Nodes returned by [Parse] reference the input buffer and must be treated as
// immutable. Their Content always has Length bytes. For SEQUENCE and SET nodes
// Content is the concatenation of the encodings of Children.
//
// Nodes built with Leaf, Sequence, Set or Wrap have a zero Start and a nil Raw.
// Built SEQUENCE and SET nodes leave Content empty; their content is derived
// from Children by [Encode].
type Node struct {
	Kind       Kind
	Identifier tlv.Identifier

	Start   int    // absolute offset of the identifier octet
	Length  int    // number of content octets
	Content []byte // content octets
	Raw     []byte // the entire TLV as read from the input

	// Children of a SEQUENCE or SET in encoding order. A SET is kept in the
	// order it was read. Duplicate children are preserved.
	Children []*Node
}

// Leaf returns a primitive leaf node of the universal type t.
func Leaf(t asn1.Tag, content []byte) *Node {
	return Tagged(tlv.Identifier{Class: asn1.ClassUniversal, Tag: t}, content)
}

// Tagged returns a leaf node with an arbitrary identifier.
func Tagged(id tlv.Identifier, content []byte) *Node {
	return &Node{Kind: KindLeaf, Identifier: id, Length: len(content), Content: content}
}

// Sequence returns a SEQUENCE node with the given children.
func Sequence(children ...*Node) *Node {
	return &Node{Kind: KindSequence, Identifier: tlv.Universal(asn1.TagSequence), Children: children}
}

// Set returns a SET node with the given children. Children are encoded in the
// given order.
func Set(children ...*Node) *Node {
	return &Node{Kind: KindSet, Identifier: tlv.Universal(asn1.TagSet), Children: children}
}

// Wrap returns a constructed leaf with the given class and tag number whose
// content is the encoding of child. This is the shape of an EXPLICIT tag,
// such as the version of an X.509 certificate.
func Wrap(class asn1.Class, number asn1.Tag, child *Node) (*Node, error) {
	content, err := Encode(child)
	if err != nil {
		return nil, err
	}
	return Tagged(tlv.Identifier{Class: class, Constructed: true, Tag: number}, content), nil
}

// HeaderLen returns the number of identifier and length octets of n.
func (n *Node) HeaderLen() int {
	if n.Raw != nil {
		return len(n.Raw) - n.Length
	}
	return 1 + tlv.LengthSize(n.Length)
}

// Is reports whether n has the identifier of the universal type t.
func (n *Node) Is(t asn1.Tag) bool {
	return n.Identifier.Is(t)
}

// Inner decodes the content of n as exactly one element. Offsets of the result
// are absolute if n was parsed. Inner is used to look inside EXPLICIT tags.
func (n *Node) Inner() (*Node, error) {
	return parseExactly(n.Content, n.Start+n.HeaderLen())
}

// Equal reports whether n and o are structurally equal. Leaves are equal if
// their identifiers and contents are equal. Sequences are equal if their
// children are pairwise equal. Sets are equal if their children are equal as
// multisets. Offsets and raw bytes are ignored.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindLeaf:
		return n.Identifier == o.Identifier && bytes.Equal(n.Content, o.Content)
	case KindSequence:
		return slices.EqualFunc(n.Children, o.Children, (*Node).Equal)
	case KindSet:
		return sameMembers(n.Children, o.Children)
	}
	return false
}

// sameMembers reports whether a and b contain equal nodes with equal
// multiplicity.
func sameMembers(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && x.Equal(y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// String returns a string representation of n. The content of leaves is only
// included if it is short enough.
func (n *Node) String() string {
	pos := "@" + strconv.Itoa(n.Start) + "+" + strconv.Itoa(n.Length)
	switch n.Kind {
	case KindSequence, KindSet:
		return fmt.Sprintf("%s %s {%d children}", n.Identifier, pos, len(n.Children))
	}
	if len(n.Content) > 24 {
		return fmt.Sprintf("%s %s {%d bytes}", n.Identifier, pos, len(n.Content))
	}
	return fmt.Sprintf("%s %s {% X}", n.Identifier, pos, n.Content)
}
