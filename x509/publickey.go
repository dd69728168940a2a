// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"errors"
	"fmt"
	"math/big"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/der"
	"wobbegong.dev/asn1/oid"
	"wobbegong.dev/asn1/tlv"
)

// PublicKey is the subject public key of a certificate. For RSA and DSA keys
// exactly one of RSA and DSA is set. Elliptic curve keys are recognized but
// not decoded: both are nil and Parameters holds the named curve.
type PublicKey struct {
	Algorithm  string    // dotted object identifier
	Parameters *der.Node // algorithm parameters, nil if absent

	RSA *RSAPublicKey
	DSA *DSAPublicKey
}

// RSAPublicKey is a PKCS #1 RSA public key.
type RSAPublicKey struct {
	N *big.Int // modulus
	E *big.Int // public exponent
}

// DSAPublicKey is a DSA public key. The domain parameters are kept in the
// Parameters of the enclosing [PublicKey].
type DSAPublicKey struct {
	Y *big.Int
}

// MarshalRSAPublicKey returns the PKCS #1 RSAPublicKey SEQUENCE of k.
func MarshalRSAPublicKey(k *RSAPublicKey) *der.Node {
	return der.Sequence(der.Integer(k.N), der.Integer(k.E))
}

// Marshal returns the SubjectPublicKeyInfo SEQUENCE of k. RSA keys without
// parameters get the customary NULL parameter.
func (k *PublicKey) Marshal() (*der.Node, error) {
	var key *der.Node
	params := k.Parameters
	switch {
	case k.RSA != nil:
		key = MarshalRSAPublicKey(k.RSA)
		if params == nil {
			params = der.Null()
		}
	case k.DSA != nil:
		key = der.Integer(k.DSA.Y)
	default:
		return nil, errors.New("x509: public key without key material")
	}
	keyBytes, err := der.Encode(key)
	if err != nil {
		return nil, err
	}
	bits, err := der.MarshalBitString(asn1.BitString{Bytes: keyBytes})
	if err != nil {
		return nil, err
	}
	alg, err := der.OID(k.Algorithm)
	if err != nil {
		return nil, err
	}
	algorithm := der.Sequence(alg)
	if params != nil {
		algorithm.Children = append(algorithm.Children, params)
	}
	return der.Sequence(algorithm, der.Leaf(asn1.TagBitString, bits)), nil
}

// parsePublicKeyInfo decodes the SubjectPublicKeyInfo SEQUENCE n. The
// algorithm identifier selects the decoder for the key bits.
func parsePublicKeyInfo(pos int, n *der.Node) (PublicKey, error) {
	const field = "subjectPublicKeyInfo"
	var k PublicKey
	if n.Kind != der.KindSequence {
		return k, fieldError(field, pos, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(n.Children) != 2 {
		return k, fieldError(field, pos, n, 0, fmt.Errorf("%w: expected 2, got %d", errChildCount, len(n.Children)))
	}
	alg, bits := n.Children[0], n.Children[1]
	if alg.Kind != der.KindSequence {
		return k, fieldError("algorithm", 0, alg, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(alg.Children) < 1 || len(alg.Children) > 2 {
		return k, fieldError("algorithm", 0, alg, 0, fmt.Errorf("%w: expected 1 or 2, got %d", errChildCount, len(alg.Children)))
	}
	var err error
	if k.Algorithm, err = objectIdentifier("algorithm", 0, alg.Children[0]); err != nil {
		return k, err
	}
	if len(alg.Children) == 2 {
		k.Parameters = alg.Children[1]
	}
	switch k.Algorithm {
	case oid.RSAEncryption, oid.DSA, oid.ECPublicKey:
	default:
		e, ok := oid.Lookup(k.Algorithm)
		if !ok {
			err = &UnknownOIDError{OID: k.Algorithm}
		} else {
			err = &UnsupportedAlgorithmError{OID: e.OID, Name: e.Name}
		}
		return k, fieldError("algorithm", 0, alg.Children[0], 0, err)
	}

	if !bits.Is(asn1.TagBitString) {
		return k, fieldError("subjectPublicKey", 1, bits, 0, fmt.Errorf("%w: expected BIT STRING", errWrongType))
	}
	bs, err := der.ParseBitString(bits.Content)
	if err != nil {
		return k, fieldError("subjectPublicKey", 1, bits, 0, err)
	}
	if bs.UnusedBits != 0 {
		return k, fieldError("subjectPublicKey", 1, bits, 0, fmt.Errorf("%w: key bits are not octet aligned", errWrongType))
	}
	if k.Algorithm == oid.ECPublicKey {
		return k, nil
	}
	// The key bits start after the unused bits octet.
	key, err := parseEmbedded(bs.Bytes, bits.Start+bits.HeaderLen()+1)
	if err != nil {
		return k, fieldError("subjectPublicKey", 1, bits, 0, err)
	}
	if k.Algorithm == oid.RSAEncryption {
		k.RSA, err = parseRSAPublicKey(key)
	} else {
		k.DSA, err = parseDSAPublicKey(key)
	}
	return k, err
}

// parseEmbedded decodes b as exactly one DER element located at the absolute
// offset base.
func parseEmbedded(b []byte, base int) (*der.Node, error) {
	r := tlv.NewReader(b, base)
	n, err := der.ParseNext(r)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, &asn1.StructuralError{Offset: r.Offset(), Err: fmt.Errorf("%w: trailing data after key", errWrongType)}
	}
	return n, nil
}

// parseRSAPublicKey decodes a PKCS #1 RSAPublicKey SEQUENCE(n INTEGER, e INTEGER).
func parseRSAPublicKey(n *der.Node) (*RSAPublicKey, error) {
	const field = "RSAPublicKey"
	if n.Kind != der.KindSequence {
		return nil, fieldError(field, 0, n, 0, fmt.Errorf("%w: expected SEQUENCE", errWrongType))
	}
	if len(n.Children) != 2 {
		return nil, fieldError(field, 0, n, 0, fmt.Errorf("%w: expected 2, got %d", errChildCount, len(n.Children)))
	}
	var ints [2]*big.Int
	for i, c := range n.Children {
		if !c.Is(asn1.TagInteger) {
			return nil, fieldError(field, i, c, 0, fmt.Errorf("%w: expected INTEGER", errWrongType))
		}
		v, err := der.ParseInteger(c.Content)
		if err != nil {
			return nil, fieldError(field, i, c, 0, err)
		}
		ints[i] = v
	}
	return &RSAPublicKey{N: ints[0], E: ints[1]}, nil
}

// parseDSAPublicKey decodes a DSAPublicKey INTEGER.
func parseDSAPublicKey(n *der.Node) (*DSAPublicKey, error) {
	if !n.Is(asn1.TagInteger) {
		return nil, fieldError("DSAPublicKey", 0, n, 0, fmt.Errorf("%w: expected INTEGER", errWrongType))
	}
	y, err := der.ParseInteger(n.Content)
	if err != nil {
		return nil, fieldError("DSAPublicKey", 0, n, 0, err)
	}
	return &DSAPublicKey{Y: y}, nil
}
