package proof

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fidenz/fi-verifiable-data/pkg/algorithm"
	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

const (
	s1PrivateHex = "aa7f263d0a1a671a4c06ea22800c1391dd8974174f01d0e5a848fe51bdd1bcf8"
	s1PublicHex  = "7b6df71975950d5ea15ac090c57d462f73d3a48644fbcf2c6d5db838adf136b5"
)

func s1Doc(t *testing.T) (document.VerificationDocument, document.VerificationDocument) {
	sk, err := hex.DecodeString(s1PrivateHex)
	require.NoError(t, err)
	pk, err := hex.DecodeString(s1PublicHex)
	require.NoError(t, err)
	signer := document.New("id:1#issuer", sk, nil)
	verifier := document.New("id:1#issuer", nil, pk)
	return signer, verifier
}

func TestFiProofSignThenVerify(t *testing.T) {
	signerDoc, verifierDoc := s1Doc(t)
	content := []byte(`{"id":"id:1"}`)

	p := New(algorithm.EdDSA, "ESig")
	require.False(t, p.Signed())

	require.NoError(t, p.Sign(signerDoc, content))
	require.True(t, p.Signed())

	ok, err := p.Verify(verifierDoc, content)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFiProofSignFailsWithoutPrivateKey(t *testing.T) {
	_, verifierDoc := s1Doc(t)
	p := New(algorithm.EdDSA, "ESig")

	err := p.Sign(verifierDoc, []byte("x"))
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.NoPrivateKey))
	assert.False(t, p.Signed())
}

func TestFiProofVerifyFailsWithoutPublicKey(t *testing.T) {
	signerDoc, _ := s1Doc(t)
	p := New(algorithm.EdDSA, "ESig")
	require.NoError(t, p.Sign(signerDoc, []byte("x")))

	_, err := p.Verify(signerDoc, []byte("x"))
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.NoPublicKey))
}

func TestFiProofVerifyFailsWhenUnsigned(t *testing.T) {
	_, verifierDoc := s1Doc(t)
	p := New(algorithm.EdDSA, "ESig")

	_, err := p.Verify(verifierDoc, []byte("x"))
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.NoSignature))
}

func TestFiProofUnknownAlgorithm(t *testing.T) {
	signerDoc, _ := s1Doc(t)
	p := New("NotReal", "ESig")

	err := p.Sign(signerDoc, []byte("x"))
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.UnknownAlgorithm))
}

func TestFiProofMarshalUnmarshalRoundTrip(t *testing.T) {
	signerDoc, verifierDoc := s1Doc(t)
	content := []byte(`{"id":"id:1"}`)

	p := New(algorithm.EdDSA, "ESig")
	require.NoError(t, p.Sign(signerDoc, content))

	data, err := p.MarshalJSON()
	require.NoError(t, err)

	parsed, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, TypeFiProof, parsed.ProofType())

	ok, err := parsed.Verify(verifierDoc, content)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFiProofTamperedJWSFailsVerify(t *testing.T) {
	signerDoc, verifierDoc := s1Doc(t)
	content := []byte(`{"id":"id:1"}`)

	p1 := New(algorithm.EdDSA, "ESig")
	require.NoError(t, p1.Sign(signerDoc, content))

	p2 := New(algorithm.EdDSA, "ESig")
	require.NoError(t, p2.Sign(signerDoc, []byte(`{"id":"id:2"}`)))

	jws2, _ := p2.JWS()
	data, err := p1.MarshalJSON()
	require.NoError(t, err)

	var wire fiProofWire
	require.NoError(t, json.Unmarshal(data, &wire))
	wire.JWS = jws2

	tampered := New(algorithm.EdDSA, "ESig")
	tampered.jws = wire.JWS
	tampered.signed = true

	ok, err := tampered.Verify(verifierDoc, content)
	require.NoError(t, err)
	assert.False(t, ok)
}
