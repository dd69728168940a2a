// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"crypto/dsa" //nolint:staticcheck // DSA certificates are still decoded
	"crypto/rsa"
	stdx509 "crypto/x509"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobbegong.dev/asn1"
	"wobbegong.dev/asn1/der"
	"wobbegong.dev/asn1/oid"
	"wobbegong.dev/asn1/tlv"
)

// readCert returns the contents of testdata/name.
func readCert(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

// testParser returns a Parser whose clock is pinned to the date the test
// certificates were issued.
func testParser() *Parser {
	fc := clock.NewFake()
	fc.Set(time.Date(2026, 10, 17, 2, 0, 0, 0, time.UTC))
	return &Parser{Clock: fc}
}

func TestParseCertificate_Reference(t *testing.T) {
	for _, name := range []string{"rsa_v1.der", "rsa_v3.der", "dsa_v3.der"} {
		t.Run(name, func(t *testing.T) {
			b := readCert(t, name)
			ref, err := stdx509.ParseCertificate(b)
			require.NoError(t, err)

			c, err := testParser().ParseCertificate(b)
			require.NoError(t, err)

			tbs := c.TBSCertificate
			assert.Equal(t, ref.Version, int(tbs.Version)+1)
			assert.Equal(t, 0, ref.SerialNumber.Cmp(tbs.SerialNumber), "serial %x, want %x", tbs.SerialNumber, ref.SerialNumber)
			assert.True(t, ref.NotBefore.Equal(tbs.Issued), "issued %v, want %v", tbs.Issued, ref.NotBefore)
			assert.True(t, ref.NotAfter.Equal(tbs.Expires), "expires %v, want %v", tbs.Expires, ref.NotAfter)
			assert.Equal(t, ref.Subject.CommonName, tbs.Subject.Get(oid.CommonName))
			assert.Equal(t, ref.Issuer.CommonName, tbs.Issuer.Get(oid.CommonName))
			assert.Equal(t, ref.Raw, c.Raw)
			assert.Equal(t, ref.RawTBSCertificate, tbs.Raw)
			assert.Equal(t, ref.Signature, c.Signature.Bytes)
			assert.Equal(t, tbs.Algorithm, c.SignatureAlgorithm)

			require.Len(t, tbs.Extensions, len(ref.Extensions))
			for i, ext := range ref.Extensions {
				assert.Equal(t, ext.Id.String(), tbs.Extensions[i].ID)
				assert.Equal(t, ext.Critical, tbs.Extensions[i].Critical)
				assert.Equal(t, ext.Value, tbs.Extensions[i].Value)
			}

			switch pub := ref.PublicKey.(type) {
			case *rsa.PublicKey:
				require.NotNil(t, tbs.PublicKey.RSA)
				assert.Equal(t, oid.RSAEncryption, tbs.PublicKey.Algorithm)
				assert.Equal(t, 0, pub.N.Cmp(tbs.PublicKey.RSA.N))
				assert.Equal(t, int64(pub.E), tbs.PublicKey.RSA.E.Int64())
			case *dsa.PublicKey:
				require.NotNil(t, tbs.PublicKey.DSA)
				assert.Equal(t, oid.DSA, tbs.PublicKey.Algorithm)
				assert.Equal(t, 0, pub.Y.Cmp(tbs.PublicKey.DSA.Y))
			default:
				t.Fatalf("unexpected reference key type %T", pub)
			}

			spki, err := tbs.PublicKey.Marshal()
			require.NoError(t, err)
			enc, err := der.Encode(spki)
			require.NoError(t, err)
			assert.Equal(t, ref.RawSubjectPublicKeyInfo, enc)
		})
	}
}

func TestParseCertificate_V1(t *testing.T) {
	c, err := testParser().ParseCertificate(readCert(t, "rsa_v1.der"))
	require.NoError(t, err)

	tbs := c.TBSCertificate
	assert.Equal(t, V1, tbs.Version)
	assert.Equal(t, "1f2e3d4c5b6a", tbs.SerialNumber.Text(16))
	assert.Equal(t, "sha256WithRSAEncryption", tbs.Algorithm.Name)
	assert.Equal(t, time.Date(2026, 10, 17, 1, 45, 5, 0, time.UTC), tbs.Issued)
	assert.Equal(t, time.Date(2036, 10, 14, 1, 45, 5, 0, time.UTC), tbs.Expires)
	assert.Equal(t, Name{
		oid.CountryName:         "AU",
		oid.StateOrProvinceName: "Queensland",
		oid.LocalityName:        "Brisbane",
		oid.OrganizationName:    "Wobbegong Test",
		oid.CommonName:          "v1.example.test",
	}, tbs.Subject)
	assert.Equal(t, tbs.Subject, tbs.Issuer)
	assert.Nil(t, tbs.Extensions)
	assert.Equal(t, big.NewInt(65537), tbs.PublicKey.RSA.E)
}

func TestParseCertificate_V3(t *testing.T) {
	c, err := testParser().ParseCertificate(readCert(t, "rsa_v3.der"))
	require.NoError(t, err)

	tbs := c.TBSCertificate
	assert.Equal(t, V3, tbs.Version)
	assert.Equal(t, "c0ffee0123456789", tbs.SerialNumber.Text(16))
	assert.Equal(t, Name{
		oid.CountryName:            "NZ",
		oid.OrganizationName:       "Wobbegong Ltd",
		oid.OrganizationalUnitName: "Security",
		oid.CommonName:             "v3.example.test",
		oid.EmailAddress:           "pki@example.test",
	}, tbs.Subject)
	assert.Equal(t, "v1.example.test", tbs.Issuer.Get(oid.CommonName))

	ids := make([]string, len(tbs.Extensions))
	for i, ext := range tbs.Extensions {
		ids[i] = ext.ID
	}
	assert.Equal(t, []string{oid.BasicConstraints, oid.KeyUsage, oid.SubjectAltName, oid.SubjectKeyIdentifier}, ids)
	assert.True(t, tbs.Extensions[0].Critical)
	assert.True(t, tbs.Extensions[1].Critical)
	assert.False(t, tbs.Extensions[2].Critical)
	assert.Equal(t, []byte{0x03, 0x02, 0x05, 0xA0}, tbs.Extensions[1].Value)
}

func TestParseCertificate_EC(t *testing.T) {
	b := readCert(t, "ec_v3.der")
	ref, err := stdx509.ParseCertificate(b)
	require.NoError(t, err)
	require.Equal(t, stdx509.ECDSA, ref.PublicKeyAlgorithm)

	c, err := testParser().ParseCertificate(b)
	require.NoError(t, err)
	tbs := c.TBSCertificate
	assert.Equal(t, 0, ref.SerialNumber.Cmp(tbs.SerialNumber))
	assert.Equal(t, "ec.example.test", tbs.Subject.Get(oid.CommonName))
	assert.Equal(t, oid.ECDSAWithSHA256, c.SignatureAlgorithm.OID)

	pub := tbs.PublicKey
	assert.Equal(t, oid.ECPublicKey, pub.Algorithm)
	assert.Nil(t, pub.RSA)
	assert.Nil(t, pub.DSA)
	require.NotNil(t, pub.Parameters)
	require.True(t, pub.Parameters.Is(asn1.TagOID))
	curve, err := der.ParseObjectIdentifier(pub.Parameters.Content)
	require.NoError(t, err)
	assert.Equal(t, oid.Prime256v1, curve.String())
	assert.Equal(t, 205, pub.Parameters.Start)

	_, err = pub.Marshal()
	assert.Error(t, err)
}

func TestParseCertificate_ECKeyBits(t *testing.T) {
	root, err := der.Parse(readCert(t, "ec_v3.der"))
	require.NoError(t, err)
	root.Children[0].Children[6].Children[1] = der.Leaf(asn1.TagBitString, []byte{0x04, 0xF0})

	_, err = testParser().ToCertificate(root)
	var fErr *FieldError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "subjectPublicKey", fErr.Field)
	assert.ErrorAs(t, err, new(*asn1.StructuralError))
}

func TestParser_Clock(t *testing.T) {
	b := readCert(t, "rsa_v1.der")
	tests := map[int]int{
		2026: 2026,
		2070: 2026,
		2080: 2126,
		1990: 2026,
		1970: 1926,
	}
	for year, want := range tests {
		fc := clock.NewFake()
		fc.Set(time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
		c, err := (&Parser{Clock: fc}).ParseCertificate(b)
		require.NoError(t, err)
		assert.Equal(t, want, c.TBSCertificate.Issued.Year(), "reference year %d", year)
	}
}

func TestToCertificate_Errors(t *testing.T) {
	mustOID := func(t *testing.T, s string) *der.Node {
		n, err := der.OID(s)
		require.NoError(t, err)
		return n
	}
	mustWrap := func(t *testing.T, class asn1.Class, n *der.Node) *der.Node {
		w, err := der.Wrap(class, 0, n)
		require.NoError(t, err)
		return w
	}
	// v1 layout: serial, algorithm, issuer, validity, subject, spki
	tests := map[string]struct {
		file     string
		mutate   func(t *testing.T, root *der.Node)
		field    string
		position int
		found    string
		cause    any // target for errors.As
	}{
		"RootChildCount": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children = root.Children[:2]
		}, "certificate", 0, "SEQUENCE/c", new(*asn1.StructuralError)},
		"TBSNotSequence": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0] = der.Integer(big.NewInt(1))
		}, "tbsCertificate", 0, "INTEGER/p", new(*asn1.StructuralError)},
		"SerialNotInteger": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[0] = der.Null()
		}, "serialNumber", 0, "NULL/p", new(*asn1.StructuralError)},
		"EmptySerial": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[0] = der.Leaf(asn1.TagInteger, nil)
		}, "serialNumber", 0, "INTEGER/p", new(*asn1.StructuralError)},
		"UnknownSignatureAlgorithm": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[1] = der.Sequence(mustOID(t, "1.2.3.4"), der.Null())
		}, "signatureAlgorithm", 1, "OBJECT IDENTIFIER/p", new(*UnknownOIDError)},
		"AlgorithmParameters": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[1] = der.Sequence(mustOID(t, oid.SHA256WithRSAEncryption), der.Integer(big.NewInt(0)))
		}, "signatureAlgorithm", 1, "INTEGER/p", new(*asn1.StructuralError)},
		"EmptyAlgorithm": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[1] = der.Sequence()
		}, "signature", 1, "SEQUENCE/c", new(*asn1.StructuralError)},
		"IssuerNotSet": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[2].Children[0] = der.Sequence()
		}, "issuer", 0, "SEQUENCE/c", new(*asn1.StructuralError)},
		"EmptyRDN": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[4].Children[1] = der.Set()
		}, "subject", 1, "SET/c", new(*asn1.StructuralError)},
		"BMPStringValue": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			atv := root.Children[0].Children[4].Children[0].Children[0]
			atv.Children = []*der.Node{atv.Children[0], der.Leaf(asn1.TagBMPString, []byte{0, 'A', 0, 'U'})}
		}, "subject", 1, "BMPString/p", new(*asn1.UnsupportedTagError)},
		"PrintableStringCharset": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			atv := root.Children[0].Children[4].Children[0].Children[0]
			atv.Children = []*der.Node{atv.Children[0], der.Leaf(asn1.TagPrintableString, []byte("A_"))}
		}, "subject", 1, "PrintableString/p", new(*asn1.CharsetError)},
		"ValidityCount": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			v := root.Children[0].Children[3]
			v.Children = append(slices.Clone(v.Children), v.Children[0])
		}, "validity", 3, "SEQUENCE/c", new(*asn1.StructuralError)},
		"GeneralizedTime": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[3].Children[0] = der.Leaf(asn1.TagGeneralizedTime, []byte("20261017014505Z"))
		}, "notBefore", 0, "GeneralizedTime/p", new(*asn1.StructuralError)},
		"InvalidTime": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[3].Children[1] = der.Leaf(asn1.TagUTCTime, []byte("261317014505Z"))
		}, "notAfter", 1, "UTCTime/p", new(*asn1.DateFormatError)},
		"MissingPublicKey": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children = root.Children[0].Children[:5]
		}, "subjectPublicKeyInfo", 5, "nothing", new(*asn1.StructuralError)},
		"UnknownKeyAlgorithm": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[5].Children[0] = der.Sequence(mustOID(t, "1.2.3.4"))
		}, "algorithm", 0, "OBJECT IDENTIFIER/p", new(*UnknownOIDError)},
		"UnsupportedKeyAlgorithm": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[5].Children[0] = der.Sequence(mustOID(t, oid.Ed25519))
		}, "algorithm", 0, "OBJECT IDENTIFIER/p", new(*UnsupportedAlgorithmError)},
		"RSAKeyBits": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[5].Children[1] = der.Leaf(asn1.TagBitString, []byte{0x00, 0x02, 0x01, 0x01})
		}, "RSAPublicKey", 0, "INTEGER/p", new(*asn1.StructuralError)},
		"TruncatedKeyBits": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[5].Children[1] = der.Leaf(asn1.TagBitString, []byte{0x00, 0x30, 0x05, 0x02})
		}, "subjectPublicKey", 1, "BIT STRING/p", new(*asn1.StructuralError)},
		"TrailingField": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children = append(slices.Clone(root.Children[0].Children), der.Null())
		}, "extensions", 6, "NULL/p", new(*asn1.StructuralError)},
		"FieldsOutOfOrder": {"rsa_v3.der", func(t *testing.T, root *der.Node) {
			uid := der.Tagged(tlv.Identifier{Class: asn1.ClassContextSpecific, Tag: 1}, []byte{0x00})
			root.Children[0].Children = append(slices.Clone(root.Children[0].Children), uid)
		}, "extensions", 8, "[1]/p", new(*asn1.StructuralError)},
		"InvalidVersion": {"rsa_v3.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[0] = mustWrap(t, asn1.ClassContextSpecific, der.Integer(big.NewInt(3)))
		}, "version", 0, "INTEGER/p", new(*asn1.StructuralError)},
		"VersionNotInteger": {"rsa_v3.der", func(t *testing.T, root *der.Node) {
			root.Children[0].Children[0] = mustWrap(t, asn1.ClassContextSpecific, der.Null())
		}, "version", 0, "NULL/p", new(*asn1.StructuralError)},
		"SignatureNotBitString": {"rsa_v1.der", func(t *testing.T, root *der.Node) {
			root.Children[2] = der.Null()
		}, "signatureValue", 2, "NULL/p", new(*asn1.StructuralError)},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root, err := der.Parse(readCert(t, tt.file))
			require.NoError(t, err)
			tt.mutate(t, root)

			_, err = testParser().ToCertificate(root)
			var fErr *FieldError
			require.ErrorAs(t, err, &fErr)
			assert.Equal(t, tt.field, fErr.Field)
			assert.Equal(t, tt.position, fErr.Position)
			assert.Equal(t, tt.found, fErr.Found)
			assert.ErrorAs(t, err, tt.cause)
		})
	}
}

func TestToCertificate_Offsets(t *testing.T) {
	root, err := der.Parse(readCert(t, "rsa_v1.der"))
	require.NoError(t, err)
	v := root.Children[0].Children[3]
	v.Children = v.Children[:1]

	_, err = testParser().ToCertificate(root)
	var sErr *asn1.StructuralError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, 137, sErr.Offset)
}

func TestToCertificate_OptionalFields(t *testing.T) {
	tests := map[string]func(t *testing.T, tbs *der.Node){
		"IssuerUniqueID": func(t *testing.T, tbs *der.Node) {
			uid := der.Tagged(tlv.Identifier{Class: asn1.ClassContextSpecific, Tag: 1}, []byte{0x00, 0xAB})
			tbs.Children = append(slices.Clone(tbs.Children), uid)
		},
		"BothUniqueIDs": func(t *testing.T, tbs *der.Node) {
			uid1 := der.Tagged(tlv.Identifier{Class: asn1.ClassContextSpecific, Tag: 1}, []byte{0x00, 0xAB})
			uid2 := der.Tagged(tlv.Identifier{Class: asn1.ClassContextSpecific, Tag: 2}, []byte{0x00, 0xCD})
			tbs.Children = append(slices.Clone(tbs.Children), uid1, uid2)
		},
		"VersionApplicationClass": func(t *testing.T, tbs *der.Node) {
			w, err := der.Wrap(asn1.ClassApplication, 0, der.Integer(big.NewInt(0)))
			require.NoError(t, err)
			tbs.Children = append([]*der.Node{w}, tbs.Children...)
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			root, err := der.Parse(readCert(t, "rsa_v1.der"))
			require.NoError(t, err)
			mutate(t, root.Children[0])

			c, err := testParser().ToCertificate(root)
			require.NoError(t, err)
			assert.Equal(t, V1, c.TBSCertificate.Version)
			assert.Empty(t, c.TBSCertificate.Extensions)
		})
	}
}

func TestToCertificate_Rebuilt(t *testing.T) {
	// A certificate assembled from builders decodes like the original.
	b := readCert(t, "rsa_v3.der")
	want, err := testParser().ParseCertificate(b)
	require.NoError(t, err)

	root, err := der.Parse(b)
	require.NoError(t, err)
	version, err := der.Wrap(asn1.ClassContextSpecific, 0, der.Integer(big.NewInt(int64(V3))))
	require.NoError(t, err)
	root.Children[0].Children[0] = version
	enc, err := der.Encode(root)
	require.NoError(t, err)
	assert.Equal(t, b, enc)

	got, err := testParser().ParseCertificate(enc)
	require.NoError(t, err)
	assert.Equal(t, want.TBSCertificate.Subject, got.TBSCertificate.Subject)
	assert.Equal(t, want.TBSCertificate.Extensions, got.TBSCertificate.Extensions)
}

func TestPackageFunctions(t *testing.T) {
	b := readCert(t, "rsa_v1.der")
	c, err := ParseCertificate(b)
	require.NoError(t, err)
	assert.Equal(t, "v1.example.test", c.TBSCertificate.Subject.Get(oid.CommonName))

	n, err := der.Parse(b)
	require.NoError(t, err)
	c, err = ToCertificate(n)
	require.NoError(t, err)
	assert.Equal(t, b, c.Raw)

	_, err = ToCertificate(nil)
	assert.Error(t, err)
	_, err = ParseCertificate(b[:100])
	assert.Error(t, err)
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "V1", V1.String())
	assert.Equal(t, "V3", V3.String())
	assert.Equal(t, "Version(7)", Version(7).String())
}

func TestMarshalRSAPublicKey(t *testing.T) {
	n := MarshalRSAPublicKey(&RSAPublicKey{N: big.NewInt(0xC5), E: big.NewInt(3)})
	enc, err := der.Encode(n)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0xC5, 0x02, 0x01, 0x03}, enc)

	_, err = (&PublicKey{Algorithm: oid.RSAEncryption}).Marshal()
	assert.Error(t, err)
}
