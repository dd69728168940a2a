// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package x509 decodes X.509 certificates from a DER tree into typed records.
//
// The decoder checks the structure of a certificate as described in RFC 5280
// but does not verify signatures or validate chains. Issuer and subject names
// are decoded into attribute maps, and RSA and DSA public keys into their
// components. Elliptic curve keys are recognized, but only their curve is
// kept.
//
// Every failure identifies the certificate field that could not be decoded
// (see [FieldError]). A single malformed field fails the whole certificate.
// [Parser.ParseBundle] isolates the failures of independent certificates.
package x509

import (
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/jmhodges/clock"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/der"
	"wobbegong.dev/asn1/oid"
)

//go:generate stringer -type=Version

// Version is the version of a certificate.
type Version int

const (
	V1 Version = iota
	V2
	V3
)

// Certificate is a decoded X.509 certificate.
type Certificate struct {
	TBSCertificate     TBSCertificate
	SignatureAlgorithm oid.Entry
	Signature          asn1.BitString

	Raw []byte // complete DER encoding
}

// TBSCertificate is the signed part of a certificate.
type TBSCertificate struct {
	Algorithm    oid.Entry
	Version      Version
	SerialNumber *big.Int
	Issuer       Name
	Issued       time.Time
	Expires      time.Time
	Subject      Name
	PublicKey    PublicKey
	Extensions   []Extension

	Raw []byte // DER encoding of the TBSCertificate, the input of the signature
}

// Extension is a certificate extension. Value holds the content of the
// extnValue OCTET STRING, which is the DER encoding of the extension.
type Extension struct {
	ID       string
	Critical bool
	Value    []byte
}

// A Parser decodes certificates. The zero value is ready to use. A Parser may
// be used concurrently once configured.
type Parser struct {
	// Clock supplies the reference year used to resolve the two-digit years of
	// UTCTime values. If nil, the system clock is used.
	Clock clock.Clock

	// Logger receives debug records about skipped fields and failed bundle
	// items. If nil, slog.Default() is used.
	Logger *slog.Logger
}

var defaultParser = &Parser{}

// ParseCertificate decodes a DER-encoded certificate using a default Parser.
func ParseCertificate(b []byte) (*Certificate, error) {
	return defaultParser.ParseCertificate(b)
}

// ToCertificate converts a decoded certificate tree using a default Parser.
func ToCertificate(n *der.Node) (*Certificate, error) {
	return defaultParser.ToCertificate(n)
}

func (p *Parser) now() time.Time {
	if p.Clock == nil {
		return clock.New().Now()
	}
	return p.Clock.Now()
}

func (p *Parser) log() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// ParseCertificate decodes b as exactly one DER element and converts it into a
// certificate.
func (p *Parser) ParseCertificate(b []byte) (*Certificate, error) {
	n, err := der.Parse(b)
	if err != nil {
		return nil, err
	}
	return p.ToCertificate(n)
}

// ToCertificate converts a certificate tree. n must be a SEQUENCE of exactly
// three elements: the TBSCertificate, the signature algorithm and the
// signature BIT STRING.
func (p *Parser) ToCertificate(n *der.Node) (*Certificate, error) {
	if n == nil || n.Kind != der.KindSequence {
		return nil, fieldError("certificate", 0, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(n.Children) != 3 {
		return nil, fieldError("certificate", 0, n, 0, fmt.Errorf("%w: expected 3, got %d", errChildCount, len(n.Children)))
	}
	c := &Certificate{Raw: n.Raw}

	tbs := n.Children[0]
	if tbs.Kind != der.KindSequence {
		return nil, fieldError("tbsCertificate", 0, tbs, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	var err error
	if c.TBSCertificate, err = p.tbsCertificate(tbs); err != nil {
		return nil, err
	}
	if c.SignatureAlgorithm, err = algorithmIdentifier("signatureAlgorithm", 1, n.Children[1]); err != nil {
		return nil, err
	}
	sig := n.Children[2]
	if !sig.Is(asn1.TagBitString) {
		return nil, fieldError("signatureValue", 2, sig, 0, fmt.Errorf("%w: expected BIT STRING", errWrongType))
	}
	if c.Signature, err = der.ParseBitString(sig.Content); err != nil {
		return nil, fieldError("signatureValue", 2, sig, 0, err)
	}
	return c, nil
}

// fields walks the children of a SEQUENCE in order.
type fields struct {
	parent *der.Node
	pos    int
}

// peek returns the next child or nil.
func (f *fields) peek() *der.Node {
	if f.pos >= len(f.parent.Children) {
		return nil
	}
	return f.parent.Children[f.pos]
}

// next returns the next child. If there is none, it returns a *FieldError for
// field.
func (f *fields) next(field string) (*der.Node, int, error) {
	n := f.peek()
	if n == nil {
		return nil, f.pos, fieldError(field, f.pos, nil, f.parent.Start+len(f.parent.Raw), errMissing)
	}
	f.pos++
	return n, f.pos - 1, nil
}

// tbsCertificate decodes the TBSCertificate SEQUENCE n.
func (p *Parser) tbsCertificate(n *der.Node) (TBSCertificate, error) {
	tbs := TBSCertificate{Raw: n.Raw}
	f := &fields{parent: n}

	var err error
	if tbs.Version, err = version(f); err != nil {
		return tbs, err
	}

	serial, pos, err := f.next("serialNumber")
	if err != nil {
		return tbs, err
	}
	if !serial.Is(asn1.TagInteger) {
		return tbs, fieldError("serialNumber", pos, serial, 0, fmt.Errorf("%w: expected INTEGER", errWrongType))
	}
	if tbs.SerialNumber, err = der.ParseInteger(serial.Content); err != nil {
		return tbs, fieldError("serialNumber", pos, serial, 0, err)
	}

	alg, pos, err := f.next("signature")
	if err != nil {
		return tbs, err
	}
	if tbs.Algorithm, err = algorithmIdentifier("signature", pos, alg); err != nil {
		return tbs, err
	}

	issuer, pos, err := f.next("issuer")
	if err != nil {
		return tbs, err
	}
	if tbs.Issuer, err = parseName("issuer", pos, issuer); err != nil {
		return tbs, err
	}

	validity, pos, err := f.next("validity")
	if err != nil {
		return tbs, err
	}
	if tbs.Issued, tbs.Expires, err = p.validity(pos, validity); err != nil {
		return tbs, err
	}

	subject, pos, err := f.next("subject")
	if err != nil {
		return tbs, err
	}
	if tbs.Subject, err = parseName("subject", pos, subject); err != nil {
		return tbs, err
	}

	spki, pos, err := f.next("subjectPublicKeyInfo")
	if err != nil {
		return tbs, err
	}
	if tbs.PublicKey, err = parsePublicKeyInfo(pos, spki); err != nil {
		return tbs, err
	}

	if tbs.Extensions, err = p.optionalFields(f); err != nil {
		return tbs, err
	}
	return tbs, nil
}

// version decodes the optional EXPLICIT [0] version. If the first element is
// not a constructed wrapper with tag number 0, the version defaults to V1 and
// the element is left for the serial number.
func version(f *fields) (Version, error) {
	n := f.peek()
	if n == nil {
		return V1, nil
	}
	id := n.Identifier
	if id.Class != asn1.ClassApplication && id.Class != asn1.ClassContextSpecific || !id.Constructed || id.Tag != 0 {
		return V1, nil
	}
	pos := f.pos
	f.pos++
	inner, err := n.Inner()
	if err != nil {
		return V1, fieldError("version", pos, n, 0, err)
	}
	if !inner.Is(asn1.TagInteger) {
		return V1, fieldError("version", pos, inner, 0, fmt.Errorf("%w: expected INTEGER", errWrongType))
	}
	v, err := der.ParseInteger(inner.Content)
	if err != nil {
		return V1, fieldError("version", pos, inner, 0, err)
	}
	if !v.IsInt64() || v.Int64() < int64(V1) || v.Int64() > int64(V3) {
		return V1, fieldError("version", pos, inner, 0, fmt.Errorf("%w: %v", errVersion, v))
	}
	return Version(v.Int64()), nil
}

// algorithmIdentifier decodes a SEQUENCE holding an OBJECT IDENTIFIER and an
// optional NULL parameter. The identifier must be registered.
func algorithmIdentifier(field string, pos int, n *der.Node) (oid.Entry, error) {
	if n.Kind != der.KindSequence {
		return oid.Entry{}, fieldError(field, pos, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(n.Children) < 1 || len(n.Children) > 2 {
		return oid.Entry{}, fieldError(field, pos, n, 0, fmt.Errorf("%w: expected 1 or 2, got %d", errChildCount, len(n.Children)))
	}
	if len(n.Children) == 2 && !n.Children[1].Is(asn1.TagNull) {
		return oid.Entry{}, fieldError(field, pos, n.Children[1], 0, fmt.Errorf("%w: expected NULL parameters", errWrongType))
	}
	id, err := objectIdentifier(field, pos, n.Children[0])
	if err != nil {
		return oid.Entry{}, err
	}
	e, ok := oid.Lookup(id)
	if !ok {
		return oid.Entry{}, fieldError(field, pos, n.Children[0], 0, &UnknownOIDError{OID: id})
	}
	return e, nil
}

// objectIdentifier decodes the OBJECT IDENTIFIER leaf n into its dotted form.
func objectIdentifier(field string, pos int, n *der.Node) (string, error) {
	if !n.Is(asn1.TagOID) {
		return "", fieldError(field, pos, n, 0, fmt.Errorf("%w: expected OBJECT IDENTIFIER", errWrongType))
	}
	id, err := der.ParseObjectIdentifier(n.Content)
	if err != nil {
		return "", fieldError(field, pos, n, 0, err)
	}
	return id.String(), nil
}

// validity decodes the validity SEQUENCE of exactly two UTCTime values.
func (p *Parser) validity(pos int, n *der.Node) (issued, expires time.Time, err error) {
	if n.Kind != der.KindSequence {
		return issued, expires, fieldError("validity", pos, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(n.Children) != 2 {
		return issued, expires, fieldError("validity", pos, n, 0, fmt.Errorf("%w: expected 2, got %d", errChildCount, len(n.Children)))
	}
	year := p.now().Year()
	var times [2]time.Time
	for i, field := range []string{"notBefore", "notAfter"} {
		c := n.Children[i]
		if !c.Is(asn1.TagUTCTime) {
			return issued, expires, fieldError(field, i, c, 0, fmt.Errorf("%w: expected UTCTime", errWrongType))
		}
		if times[i], err = der.ParseUTCTime(c.Content, year); err != nil {
			return issued, expires, fieldError(field, i, c, 0, err)
		}
	}
	return times[0].UTC(), times[1].UTC(), nil
}

// optionalFields decodes the fields following subjectPublicKeyInfo. The unique
// identifiers [1] and [2] are skipped. The extensions [3] are decoded. Each
// field may appear at most once and in order.
func (p *Parser) optionalFields(f *fields) ([]Extension, error) {
	var exts []Extension
	last := asn1.Tag(0)
	for n := f.peek(); n != nil; n = f.peek() {
		pos := f.pos
		f.pos++
		id := n.Identifier
		if id.Class != asn1.ClassContextSpecific || id.Tag < 1 || id.Tag > 3 {
			return nil, fieldError("extensions", pos, n, 0, fmt.Errorf("%w: expected [1], [2] or [3]", errWrongType))
		}
		if id.Tag <= last {
			return nil, fieldError("extensions", pos, n, 0, errOrder)
		}
		last = id.Tag
		if id.Tag != 3 {
			p.log().Debug("Skipping unique identifier", "field", id.String(), "offset", n.Start)
			continue
		}
		if !id.Constructed {
			return nil, fieldError("extensions", pos, n, 0, fmt.Errorf("%w: expected constructed [3]", errWrongType))
		}
		inner, err := n.Inner()
		if err != nil {
			return nil, fieldError("extensions", pos, n, 0, err)
		}
		if exts, err = parseExtensions(inner); err != nil {
			return nil, err
		}
	}
	return exts, nil
}

// parseExtensions decodes the Extensions SEQUENCE n.
func parseExtensions(n *der.Node) ([]Extension, error) {
	if n.Kind != der.KindSequence {
		return nil, fieldError("extensions", 0, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	exts := make([]Extension, 0, len(n.Children))
	for i, c := range n.Children {
		if c.Kind != der.KindSequence {
			return nil, fieldError("extension", i, c, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
		}
		if len(c.Children) < 2 || len(c.Children) > 3 {
			return nil, fieldError("extension", i, c, 0, fmt.Errorf("%w: expected 2 or 3, got %d", errChildCount, len(c.Children)))
		}
		var ext Extension
		var err error
		if ext.ID, err = objectIdentifier("extnID", 0, c.Children[0]); err != nil {
			return nil, err
		}
		value := c.Children[len(c.Children)-1]
		if len(c.Children) == 3 {
			crit := c.Children[1]
			if !crit.Is(asn1.TagBoolean) {
				return nil, fieldError("critical", 1, crit, 0, fmt.Errorf("%w: expected BOOLEAN", errWrongType))
			}
			if ext.Critical, err = der.ParseBoolean(crit.Content); err != nil {
				return nil, fieldError("critical", 1, crit, 0, err)
			}
		}
		if !value.Is(asn1.TagOctetString) {
			return nil, fieldError("extnValue", len(c.Children)-1, value, 0, fmt.Errorf("%w: expected OCTET STRING", errWrongType))
		}
		ext.Value = value.Content
		exts = append(exts, ext)
	}
	return exts, nil
}
