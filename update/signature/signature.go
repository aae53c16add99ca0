// Copyright 2016 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package signature handles the RSA signing and verification of update
// payloads. Signing uses crypto/rsa directly; verification instead
// performs the raw RSA public operation and strips the PKCS#1 v1.5
// padding by hand, recovering the signed bytes the way `openssl rsautl
// -verify` does, rather than just reporting a match/no-match like
// rsa.VerifyPKCS1v15 does. The checker package needs the recovered
// bytes themselves to check their ASN.1 prefix and digest separately.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding"
	"encoding/pem"
	"fmt"
	"hash"
	"math/big"

	"github.com/pkg/errors"

	"github.com/coreos/update-payload-checker/update/metadata"
)

const (
	signatureVersion = 2
	signatureHash    = crypto.SHA256
)

// SigAsn1Header is the DER encoding of the AlgorithmIdentifier for
// SHA-256, prepended to the digest inside every PKCS#1 v1.5 signature
// this package produces or checks.
var SigAsn1Header = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65,
	0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// NewManifestHash returns a Hash suitable for accumulating the running
// digest of a payload as it is generated or checked. The concrete type
// returned by crypto/sha256 implements encoding.BinaryMarshaler, so
// callers that need to fork the hash at some offset and keep writing
// down two different paths can do so by marshaling and unmarshaling
// its state instead of reprocessing everything read so far.
func NewManifestHash() hash.Hash {
	return signatureHash.New()
}

// CloneHash snapshots the running state of h, which must be one
// returned by NewManifestHash, into an independent Hash that can keep
// being written to without affecting h.
func CloneHash(h hash.Hash) (hash.Hash, error) {
	marshaler, ok := h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("signature: hash type %T cannot be cloned", h)
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, err
	}
	clone := sha256.New()
	if err := clone.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		return nil, err
	}
	return clone, nil
}

func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("signature: no PEM block found in private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "signature: parsing private key")
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signature: unsupported private key type %T", key)
	}
	return rsaKey, nil
}

// ParsePublicKey parses a PEM-encoded SubjectPublicKeyInfo containing
// an RSA public key, as produced by `openssl rsa -pubout`.
func ParsePublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("signature: no PEM block found in public key")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "signature: parsing public key")
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("signature: unsupported public key type %T", key)
	}
	return rsaKey, nil
}

// SignaturesSize returns the byte size of the Signatures message that
// Sign would produce for the given private key, so a generator can
// reserve the right amount of space before it knows the final digest.
func SignaturesSize(signerKeyPEM []byte) (int, error) {
	key, err := parsePrivateKey(signerKeyPEM)
	if err != nil {
		return 0, err
	}

	keySize := (key.N.BitLen() + 7) / 8
	sigs := &metadata.Signatures{
		Signatures: []*metadata.Signatures_Signature{
			{
				Version: versionPtr(signatureVersion),
				Data:    make([]byte, keySize),
			},
		},
	}
	return len(sigs.Marshal()), nil
}

// Sign computes a version-2 signature of sum (a SHA-256 digest) using
// the given PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func Sign(sum, signerKeyPEM []byte) (*metadata.Signatures, error) {
	key, err := parsePrivateKey(signerKeyPEM)
	if err != nil {
		return nil, err
	}

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, signatureHash, sum)
	if err != nil {
		return nil, errors.Wrap(err, "signature: signing")
	}

	return &metadata.Signatures{
		Signatures: []*metadata.Signatures_Signature{
			{
				Version: versionPtr(signatureVersion),
				Data:    sig,
			},
		},
	}, nil
}

// RecoverPKCS1v15 performs the raw RSA public-key operation on sig and
// strips its PKCS#1 v1.5 block-type-1 padding, returning the bytes the
// padding wrapped (normally an ASN.1 DigestInfo). This is the manual
// equivalent of `openssl rsautl -verify`: unlike rsa.VerifyPKCS1v15,
// which only reports whether a signature matches an expected digest,
// it hands back the recovered plaintext so the caller can inspect its
// ASN.1 prefix and digest independently, as the payload checker does.
func RecoverPKCS1v15(pub *rsa.PublicKey, sig []byte) ([]byte, error) {
	k := (pub.N.BitLen() + 7) / 8
	if len(sig) != k {
		return nil, fmt.Errorf("signature: signature is %d bytes, want %d", len(sig), k)
	}

	c := new(big.Int).SetBytes(sig)
	if c.Cmp(pub.N) >= 0 {
		return nil, errors.New("signature: signature representative out of range")
	}

	e := big.NewInt(int64(pub.E))
	m := new(big.Int).Exp(c, e, pub.N)

	em := make([]byte, k)
	m.FillBytes(em)

	if em[0] != 0x00 || em[1] != 0x01 {
		return nil, errors.New("signature: invalid PKCS#1 v1.5 block type")
	}

	i := 2
	for i < len(em) && em[i] == 0xff {
		i++
	}
	if i == 2 {
		return nil, errors.New("signature: empty PKCS#1 v1.5 padding")
	}
	if i >= len(em) || em[i] != 0x00 {
		return nil, errors.New("signature: missing PKCS#1 v1.5 padding separator")
	}

	return em[i+1:], nil
}

func versionPtr(v uint32) *uint32 { return &v }
