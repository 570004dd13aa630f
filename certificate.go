//////////////////////////////////////////////////////////////////////////////
//
// Self-signed DTLS certificate generation. Portions grounded on the source
// this module descends from:
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// generateSelfSignedCert returns a WebRTC-compatible DTLS identity:
// ECDSA P-256, random serial, 30-day validity (matching common browser
// certificate lifetimes), plus the uppercase colon-separated SHA-256
// fingerprint used in the SDP "a=fingerprint" line.
func generateSelfSignedCert() (tls.Certificate, string, error) {
	notBefore := time.Now()
	notAfter := notBefore.Add(30 * 24 * time.Hour)

	serialLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, serialLimit)
	if err != nil {
		return tls.Certificate{}, "", fmt.Errorf("generate serial: %w", err)
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, "", fmt.Errorf("generate key: %w", err)
	}

	template := x509.Certificate{
		SignatureAlgorithm: x509.ECDSAWithSHA256,
		SerialNumber:       serial,
		Subject:            pkix.Name{CommonName: "peerlink"},
		NotBefore:          notBefore,
		NotAfter:           notAfter,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, "", fmt.Errorf("create certificate: %w", err)
	}

	cert := tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv,
	}
	return cert, fingerprintOf(der), nil
}

func fingerprintOf(der []byte) string {
	h := sha256.Sum256(der)
	parts := make([]string, len(h))
	for i, b := range h {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}
