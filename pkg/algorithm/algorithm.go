// Package algorithm is the "external collaborator" the proof design
// calls out: a registry mapping a canonical algorithm name to the
// signing/verifying primitive for that name. FiProof never touches a
// crypto package directly — it asks this registry for a Signer or
// Verifier and hands it key bytes plus content bytes.
//
// The primitives themselves are built on github.com/golang-jwt/jwt/v5's
// jwt.SigningMethod, whose Sign/Verify shape — a signing string in,
// detached signature bytes out — matches this module's "detached
// signature over the signable content" requirement almost exactly, for
// every algorithm except ES256K, which golang-jwt does not carry a curve
// for; that one is built directly on
// github.com/decred/dcrd/dcrec/secp256k1/v4.
package algorithm

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/golang-jwt/jwt/v5"
)

// Canonical algorithm names, verbatim as stored in FiProof.Algorithm and
// used as the single source of truth during verify.
const (
	EdDSA  = "EdDSA"
	RS256  = "RS256"
	RS384  = "RS384"
	RS512  = "RS512"
	ES256  = "ES256"
	ES256K = "ES256K"
	ES384  = "ES384"
)

// Signer produces a detached signature over content using key.
type Signer interface {
	Sign(key, content []byte) (string, error)
}

// Verifier checks a detached signature over content using key.
type Verifier interface {
	Verify(key, content []byte, signature string) (bool, error)
}

// Suite bundles the Signer and Verifier for one algorithm name.
type Suite interface {
	Signer
	Verifier
}

var registry = map[string]Suite{
	EdDSA:  jwtSuite{method: jwt.SigningMethodEdDSA, parseKey: parseEd25519Private, parsePub: parseEd25519Public},
	RS256:  jwtSuite{method: jwt.SigningMethodRS256, parseKey: parseRSAPrivate, parsePub: parseRSAPublic},
	RS384:  jwtSuite{method: jwt.SigningMethodRS384, parseKey: parseRSAPrivate, parsePub: parseRSAPublic},
	RS512:  jwtSuite{method: jwt.SigningMethodRS512, parseKey: parseRSAPrivate, parsePub: parseRSAPublic},
	ES256:  jwtSuite{method: jwt.SigningMethodES256, parseKey: parseECPrivate, parsePub: parseECPublic},
	ES384:  jwtSuite{method: jwt.SigningMethodES384, parseKey: parseECPrivate, parsePub: parseECPublic},
	ES256K: secp256k1Suite{},
}

// Lookup returns the Suite registered for name, and whether it was found.
func Lookup(name string) (Suite, bool) {
	s, ok := registry[name]
	return s, ok
}

// Register installs or overrides the suite for name, so a caller can add
// a proof-type's algorithm without modifying this package. Not
// concurrency-safe with concurrent Lookup calls; register during
// program init.
func Register(name string, s Suite) {
	registry[name] = s
}

// Names returns the canonical algorithm names known to the registry at
// call time.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// jwtSuite adapts a jwt.SigningMethod plus key parsers into a Suite.
type jwtSuite struct {
	method   jwt.SigningMethod
	parseKey func([]byte) (any, error)
	parsePub func([]byte) (any, error)
}

func (s jwtSuite) Sign(key, content []byte) (string, error) {
	signingKey, err := s.parseKey(key)
	if err != nil {
		return "", &KeyError{Err: fmt.Errorf("parse signing key: %w", err)}
	}
	sig, err := s.method.Sign(string(content), signingKey)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

func (s jwtSuite) Verify(key, content []byte, signature string) (bool, error) {
	verifyKey, err := s.parsePub(key)
	if err != nil {
		return false, &KeyError{Err: fmt.Errorf("parse verification key: %w", err)}
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	if err := s.method.Verify(string(content), sig, verifyKey); err != nil {
		return false, nil
	}
	return true, nil
}

// KeyError marks a failure to parse key bytes into the shape an
// algorithm's underlying primitive expects, as distinct from a failure
// of the signing or verifying operation itself.
type KeyError struct{ Err error }

func (e *KeyError) Error() string { return e.Err.Error() }
func (e *KeyError) Unwrap() error { return e.Err }

func parseEd25519Private(key []byte) (any, error) {
	switch len(key) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(key), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(key), nil
	default:
		return nil, fmt.Errorf("ed25519 private key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(key))
	}
}

func parseEd25519Public(key []byte) (any, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return ed25519.PublicKey(key), nil
}

func parseRSAPrivate(key []byte) (any, error) {
	if k, err := x509.ParsePKCS1PrivateKey(key); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key (tried PKCS1 and PKCS8): %w", err)
	}
	return k, nil
}

func parseRSAPublic(key []byte) (any, error) {
	if k, err := x509.ParsePKCS1PublicKey(key); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key (tried PKCS1 and PKIX): %w", err)
	}
	return k, nil
}

func parseECPrivate(key []byte) (any, error) {
	if k, err := x509.ParseECPrivateKey(key); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse EC private key (tried SEC1 and PKCS8): %w", err)
	}
	return k, nil
}

func parseECPublic(key []byte) (any, error) {
	k, err := x509.ParsePKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse EC public key (PKIX): %w", err)
	}
	return k, nil
}

// secp256k1Suite implements ES256K directly on decred's secp256k1 curve,
// since golang-jwt/jwt/v5 does not register a signing method for it.
type secp256k1Suite struct{}

func (secp256k1Suite) Sign(key, content []byte) (string, error) {
	if len(key) != 32 {
		return "", &KeyError{Err: fmt.Errorf("secp256k1 private key must be 32 bytes, got %d", len(key))}
	}
	priv := secp256k1.PrivKeyFromBytes(key)
	hash := hashSHA256(content)
	sig := dcecdsa.Sign(priv, hash)
	return base64.RawURLEncoding.EncodeToString(sig.Serialize()), nil
}

func (secp256k1Suite) Verify(key, content []byte, signature string) (bool, error) {
	pub, err := secp256k1.ParsePubKey(key)
	if err != nil {
		return false, &KeyError{Err: fmt.Errorf("parse secp256k1 public key: %w", err)}
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	sig, err := dcecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false, nil
	}
	hash := hashSHA256(content)
	return sig.Verify(hash, pub), nil
}
