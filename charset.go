// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// IA5 is the character set of the IA5String type. Decoding and encoding are
// the identity on bytes below 0x80. Any other byte fails with a
// [*CharsetError].
var IA5 encoding.Encoding = &charset{"IA5String", isIA5}

// Printable is the character set of the PrintableString type. Decoding and
// encoding are the identity on the characters listed at [PrintableString].
// Any other byte fails with a [*CharsetError].
var Printable encoding.Encoding = &charset{"PrintableString", func(b byte) bool {
	return isPrintable(b, false, false)
}}

// charset is a single-byte character set that is a subset of ASCII. Because
// of that, its decoder always produces valid UTF-8 and its encoder rejects
// every multi-byte sequence.
type charset struct {
	name  string
	valid func(b byte) bool
}

func (c *charset) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: charsetTransformer{c: c}}
}

func (c *charset) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: charsetTransformer{c: c}}
}

func (c *charset) String() string {
	return c.name
}

// charsetTransformer copies bytes from src to dst, stopping at the first byte
// that is not part of c.
type charsetTransformer struct {
	transform.NopResetter
	c *charset
}

func (t charsetTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc]
		if !t.c.valid(b) {
			return nDst, nSrc, &CharsetError{Charset: t.c.name, Byte: b}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

func isIA5(b byte) bool {
	return b < utf8.RuneSelf
}
