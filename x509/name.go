// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/der"
	"wobbegong.dev/asn1/oid"
)

// Name is a distinguished name. It maps the dotted object identifier of each
// attribute type to its value. If an attribute type occurs more than once, the
// value encountered last is kept.
type Name map[string]string

// Get returns the value of the attribute type with the dotted identifier id.
func (n Name) Get(id string) string {
	return n[id]
}

// String returns the name in a form similar to RFC 4514, ordered by attribute
// type. Registered attribute types are shown by their abbreviation or short
// name.
func (n Name) String() string {
	var b strings.Builder
	for i, id := range slices.Sorted(maps.Keys(n)) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(attributeName(id))
		b.WriteByte('=')
		escapeValue(&b, n[id])
	}
	return b.String()
}

func attributeName(id string) string {
	e, ok := oid.Lookup(id)
	switch {
	case !ok:
		return id
	case e.Abbrev != "":
		return e.Abbrev
	}
	return e.Name
}

// escapeValue writes s escaped as an attribute value of RFC 4514.
func escapeValue(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ',' || c == '+' || c == '"' || c == '\\' || c == '<' || c == '>' || c == ';':
			b.WriteByte('\\')
		case i == 0 && (c == ' ' || c == '#'):
			b.WriteByte('\\')
		case i == len(s)-1 && c == ' ':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

// parseName decodes a Name: a SEQUENCE of relative distinguished names, each
// a SET of one or more SEQUENCE(OID, value) pairs. The value must be an
// IA5String, PrintableString or UTF8String.
func parseName(field string, pos int, n *der.Node) (Name, error) {
	if n.Kind != der.KindSequence {
		return nil, fieldError(field, pos, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	name := make(Name)
	for i, rdn := range n.Children {
		if rdn.Kind != der.KindSet {
			return nil, fieldError(field, i, rdn, 0, fmt.Errorf("%w: expected SET", errWrongType))
		}
		if len(rdn.Children) == 0 {
			return nil, fieldError(field, i, rdn, 0, fmt.Errorf("%w: empty relative distinguished name", errChildCount))
		}
		for j, atv := range rdn.Children {
			if atv.Kind != der.KindSequence {
				return nil, fieldError(field, j, atv, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
			}
			if len(atv.Children) != 2 {
				return nil, fieldError(field, j, atv, 0, fmt.Errorf("%w: expected 2, got %d", errChildCount, len(atv.Children)))
			}
			typ, err := objectIdentifier(field, 0, atv.Children[0])
			if err != nil {
				return nil, err
			}
			v := atv.Children[1]
			if v.Identifier.Class != asn1.ClassUniversal || v.Identifier.Constructed {
				return nil, fieldError(field, 1, v, 0, fmt.Errorf("%w: expected string value", errWrongType))
			}
			value, err := der.ParseString(v.Identifier, v.Content)
			if err != nil {
				return nil, fieldError(field, 1, v, 0, err)
			}
			name[typ] = value
		}
	}
	return name, nil
}
