// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package oid

// Attribute types used in distinguished names.
const (
	CommonName             = "2.5.4.3"
	Surname                = "2.5.4.4"
	SerialNumber           = "2.5.4.5"
	CountryName            = "2.5.4.6"
	LocalityName           = "2.5.4.7"
	StateOrProvinceName    = "2.5.4.8"
	StreetAddress          = "2.5.4.9"
	OrganizationName       = "2.5.4.10"
	OrganizationalUnitName = "2.5.4.11"
	EmailAddress           = "1.2.840.113549.1.9.1"
)

// Public key algorithms.
const (
	RSAEncryption = "1.2.840.113549.1.1.1"
	DSA           = "1.2.840.10040.4.1"
	ECPublicKey   = "1.2.840.10045.2.1"
	Ed25519       = "1.3.101.112"
	Ed448         = "1.3.101.113"
)

// Signature algorithms.
const (
	SHA1WithRSAEncryption   = "1.2.840.113549.1.1.5"
	SHA256WithRSAEncryption = "1.2.840.113549.1.1.11"
	SHA384WithRSAEncryption = "1.2.840.113549.1.1.12"
	SHA512WithRSAEncryption = "1.2.840.113549.1.1.13"
	RSASSAPSS               = "1.2.840.113549.1.1.10"
	ECDSAWithSHA256         = "1.2.840.10045.4.3.2"
	ECDSAWithSHA384         = "1.2.840.10045.4.3.3"
	DSAWithSHA1             = "1.2.840.10040.4.3"
	DSAWithSHA256           = "2.16.840.1.101.3.4.3.2"
)

// Named curves.
const (
	Prime256v1 = "1.2.840.10045.3.1.7"
	Secp384r1  = "1.3.132.0.34"
	Secp521r1  = "1.3.132.0.35"
)

// Certificate extensions.
const (
	SubjectKeyIdentifier   = "2.5.29.14"
	KeyUsage               = "2.5.29.15"
	SubjectAltName         = "2.5.29.17"
	BasicConstraints       = "2.5.29.19"
	ExtKeyUsage            = "2.5.29.37"
	AuthorityKeyIdentifier = "2.5.29.35"
)
