// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"context"
	"errors"

	"wobbegong.dev/asn1/der"
)

// ParseBundle decodes independent DER-encoded certificates. A certificate that
// fails to decode does not affect the others. ParseBundle returns the decoded
// certificates in input order and the failures joined with [errors.Join], each
// as a [*BundleItemError] naming the index of the failed certificate.
//
// ctx is checked between certificates. If it is done, the remaining
// certificates are not decoded and the context error is included in the
// returned error.
func (p *Parser) ParseBundle(ctx context.Context, ders [][]byte) ([]*Certificate, error) {
	return p.collect(ctx, len(ders), func(i int) (*Certificate, error) {
		return p.ParseCertificate(ders[i])
	})
}

// ParseConcatenated decodes a series of concatenated DER-encoded certificates.
// The series must be well-formed DER, otherwise no certificate is returned.
// Certificates that are well-formed DER but not valid certificates are
// reported as in [Parser.ParseBundle].
func (p *Parser) ParseConcatenated(ctx context.Context, b []byte) ([]*Certificate, error) {
	nodes, err := der.ParseAll(b)
	if err != nil {
		return nil, err
	}
	return p.collect(ctx, len(nodes), func(i int) (*Certificate, error) {
		return p.ToCertificate(nodes[i])
	})
}

func (p *Parser) collect(ctx context.Context, n int, parse func(i int) (*Certificate, error)) ([]*Certificate, error) {
	certs := make([]*Certificate, 0, n)
	var errs []error
	for i := range n {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		c, err := parse(i)
		if err != nil {
			p.log().DebugContext(ctx, "Failed to parse certificate", "index", i, "error", err)
			errs = append(errs, &BundleItemError{Index: i, Err: err})
			continue
		}
		certs = append(certs, c)
	}
	return certs, errors.Join(errs...)
}
