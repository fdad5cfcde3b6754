package presentation

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fidenz/fi-verifiable-data/pkg/algorithm"
	"github.com/Fidenz/fi-verifiable-data/pkg/credential"
	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/proof"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

const (
	s1PrivateHex = "aa7f263d0a1a671a4c06ea22800c1391dd8974174f01d0e5a848fe51bdd1bcf8"
	s1PublicHex  = "7b6df71975950d5ea15ac090c57d462f73d3a48644fbcf2c6d5db838adf136b5"
)

func s1Docs(t *testing.T) (document.VerificationDocument, document.VerificationDocument) {
	sk, err := hex.DecodeString(s1PrivateHex)
	require.NoError(t, err)
	pk, err := hex.DecodeString(s1PublicHex)
	require.NoError(t, err)
	return document.New("id:1#issuer", sk, nil), document.New("id:1#issuer", nil, pk)
}

// S2
func TestS2TwoCredentialsSignedPresentation(t *testing.T) {
	signer, verifier := s1Docs(t)

	vc1, err := credential.New("id:1", "id:1#issuer")
	require.NoError(t, err)
	require.NoError(t, vc1.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	vc2, err := credential.New("id:2", "id:2#issuer")
	require.NoError(t, err)
	require.NoError(t, vc2.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	vp := New("id")
	vp.SetHolder("id:#issuer")
	vp.AddVerifiableCredentials(vc1)
	vp.AddVerifiableCredentials(vc2)

	require.NoError(t, vp.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	ok, err := vp.Verify(verifier)
	require.NoError(t, err)
	assert.True(t, ok)
}

// S3 and S4
func TestS3S4ParseAndTamperInnerCredential(t *testing.T) {
	signer, verifier := s1Docs(t)

	vc1, err := credential.New("id:1", "id:1#issuer")
	require.NoError(t, err)
	require.NoError(t, vc1.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	vc2, err := credential.New("id:2", "id:2#issuer")
	require.NoError(t, err)
	require.NoError(t, vc2.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	vp := New("id")
	vp.SetHolder("id:#issuer")
	vp.AddVerifiableCredentials(vc1)
	vp.AddVerifiableCredentials(vc2)
	require.NoError(t, vp.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	data, err := vp.MarshalJSON()
	require.NoError(t, err)

	// S3: parse the serialized presentation and verify the outer envelope.
	parsed, err := From(data)
	require.NoError(t, err)
	ok, err := parsed.Verify(verifier)
	require.NoError(t, err)
	assert.True(t, ok)

	// S4: flip one character in an inner VC's id, outer VP still verifies,
	// the tampered inner VC independently does not.
	tampered := strings.Replace(string(data), `"id":"id:1"`, `"id":"id:X"`, 1)
	require.NotEqual(t, string(data), tampered)

	reparsed, err := From([]byte(tampered))
	require.NoError(t, err)

	ok, err = reparsed.Verify(verifier)
	require.NoError(t, err)
	assert.True(t, ok)

	innerOK, err := reparsed.Credentials()[0].Verify(verifier)
	require.NoError(t, err)
	assert.False(t, innerOK)
}

func TestVerifyFailsWithoutProof(t *testing.T) {
	_, verifier := s1Docs(t)
	vp := New("id")

	_, err := vp.Verify(verifier)
	require.Error(t, err)
	assert.True(t, verrors.Is(err, verrors.NoProof))
}

func TestExtensionFieldSurvivesRoundtrip(t *testing.T) {
	signer, verifier := s1Docs(t)

	vp := New("id")
	require.NoError(t, vp.AddField("customExt", []any{1, 2, 3}))
	require.NoError(t, vp.Sign(signer, proof.New(algorithm.EdDSA, "ESig")))

	data, err := vp.MarshalJSON()
	require.NoError(t, err)

	parsed, err := From(data)
	require.NoError(t, err)

	ok, err := parsed.Verify(verifier)
	require.NoError(t, err)
	assert.True(t, ok)

	raw, ok := parsed.Field("customExt")
	require.True(t, ok)
	assert.JSONEq(t, `[1,2,3]`, string(raw))
}
