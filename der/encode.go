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

var errNilNode = errors.New("der: nil node")

// Encode returns the DER encoding of the tree rooted at n.
//
// Leaves are written as their identifier, the length of their content and the
// content verbatim. SEQUENCE and SET nodes always use the constructed universal
// identifier of their kind; their content is the concatenation of the
// encodings of their children, irrespective of the Content field.
func Encode(n *Node) ([]byte, error) {
	return AppendEncoding(nil, n)
}

// AppendEncoding appends the DER encoding of n to dst and returns the extended
// buffer.
func AppendEncoding(dst []byte, n *Node) ([]byte, error) {
	if n == nil {
		return dst, errNilNode
	}
	var err error
	switch n.Kind {
	case KindLeaf:
		dst, err = tlv.AppendHeader(dst, tlv.Header{Identifier: n.Identifier, Length: len(n.Content)})
		if err != nil {
			return dst, err
		}
		return append(dst, n.Content...), nil
	case KindSequence, KindSet:
		var content []byte
		for _, c := range n.Children {
			if content, err = AppendEncoding(content, c); err != nil {
				return dst, err
			}
		}
		id := tlv.Universal(asn1.TagSequence)
		if n.Kind == KindSet {
			id = tlv.Universal(asn1.TagSet)
		}
		dst, _ = tlv.AppendHeader(dst, tlv.Header{Identifier: id, Length: len(content)})
		return append(dst, content...), nil
	}
	return dst, fmt.Errorf("der: invalid node kind %v", n.Kind)
}
