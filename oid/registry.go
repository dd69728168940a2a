// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oid provides a registry of well-known ASN.1 object identifiers with
// their short names and descriptions.
//
// The registry covers X.500 attribute types, PKCS #1 and PKCS #9 identifiers,
// public key and signature algorithms, named elliptic curves and the common
// certificate extensions. It is compiled into the binary and loaded on first
// use. All functions of this package are safe for concurrent use.
package oid

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"wobbegong.dev/asn1"
)

// Entry describes a registered object identifier.
type Entry struct {
	OID         string `yaml:"oid"`  // dot-separated notation
	Name        string `yaml:"name"` // short name, e.g. "commonName"
	Abbrev      string `yaml:"abbrev,omitempty"`
	Description string `yaml:"description"`
}

//go:embed registry.yaml
var registryYAML []byte

type registry struct {
	entries []Entry // sorted by arcs
	byOID   map[string]int
}

// load returns the parsed registry. It panics if the embedded table is broken.
var load = sync.OnceValue(func() *registry {
	r, err := parseRegistry(registryYAML)
	if err != nil {
		panic(fmt.Sprintf("oid: invalid embedded registry: %v", err))
	}
	return r
})

// parseRegistry decodes a YAML list of entries. Unknown keys, malformed object
// identifiers, missing names and duplicate identifiers are errors.
func parseRegistry(b []byte) (*registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}

	arcs := make(map[string]asn1.ObjectIdentifier, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %q has no name", e.OID)
		}
		if _, ok := arcs[e.OID]; ok {
			return nil, fmt.Errorf("duplicate entry %q", e.OID)
		}
		oid, err := asn1.ParseObjectIdentifier(e.OID)
		if err != nil {
			return nil, err
		}
		arcs[e.OID] = oid
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return slices.Compare(arcs[a.OID], arcs[b.OID])
	})

	r := &registry{entries: entries, byOID: make(map[string]int, len(entries))}
	for i, e := range entries {
		r.byOID[e.OID] = i
	}
	return r, nil
}

// Lookup returns the entry registered for the dot-separated object identifier
// s. The match is exact.
func Lookup(s string) (Entry, bool) {
	r := load()
	i, ok := r.byOID[s]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Name returns the short name registered for s, or s itself if s is not
// registered.
func Name(s string) string {
	if e, ok := Lookup(s); ok {
		return e.Name
	}
	return s
}

// All returns a copy of all registered entries, ordered by their arcs.
func All() []Entry {
	return slices.Clone(load().entries)
}
