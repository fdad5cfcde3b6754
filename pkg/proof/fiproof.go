package proof

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Fidenz/fi-verifiable-data/pkg/algorithm"
	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/logger"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

// TypeFiProof is the constant "type" tag for FiProof.
const TypeFiProof = "FiProof"

func init() {
	RegisterKind(TypeFiProof, func(data []byte) (Proof, error) {
		var wire fiProofWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		created, err := time.Parse(time.RFC3339, wire.Created)
		if err != nil {
			return nil, err
		}
		return &FiProof{
			algorithm: wire.Algorithm,
			created:   created,
			purpose:   wire.ProofPurpose,
			jws:       wire.JWS,
			signed:    wire.JWS != "",
		}, nil
	})
}

// FiProof is a named digital-signature proof binding an algorithm id, a
// creation timestamp, a purpose, and a detached-JWS signature to a
// credential or presentation.
//
// A FiProof is Unsigned until Sign succeeds; a failed Sign leaves it
// Unsigned (no partial state); Verify is only callable once Signed.
type FiProof struct {
	algorithm string
	created   time.Time
	purpose   string
	jws       string
	signed    bool
	log       *logger.Log
}

// Option configures a FiProof at construction time.
type Option func(*FiProof)

// WithLogger attaches a diagnostic logger. Diagnostics are limited to
// algorithm names and sign/verify outcomes — key material and signatures
// are never logged.
func WithLogger(log *logger.Log) Option {
	return func(p *FiProof) { p.log = log }
}

// New constructs an unsigned FiProof, stamping Created with the current
// UTC time.
func New(algorithmName, purpose string, opts ...Option) *FiProof {
	p := &FiProof{
		algorithm: algorithmName,
		purpose:   purpose,
		created:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProofType returns "FiProof".
func (p *FiProof) ProofType() string { return TypeFiProof }

// Algorithm returns the canonical algorithm name this proof was (or will
// be) signed with.
func (p *FiProof) Algorithm() string { return p.algorithm }

// Created returns the proof's creation timestamp.
func (p *FiProof) Created() time.Time { return p.created }

// ProofPurpose returns the caller-supplied purpose string.
func (p *FiProof) ProofPurpose() string { return p.purpose }

// JWS returns the detached signature and whether the proof is signed.
func (p *FiProof) JWS() (string, bool) { return p.jws, p.signed }

// Signed reports whether Sign has completed successfully.
func (p *FiProof) Signed() bool { return p.signed }

// Sign computes a detached signature over content using doc's private
// key and the registered Suite for p.Algorithm(), storing the result in
// JWS on success.
func (p *FiProof) Sign(doc document.VerificationDocument, content []byte) error {
	if !doc.HasPrivateKey() {
		return verrors.New("FiProof.Sign", verrors.NoPrivateKey, nil)
	}
	suite, ok := algorithm.Lookup(p.algorithm)
	if !ok {
		return verrors.New("FiProof.Sign", verrors.UnknownAlgorithm, nil)
	}

	sig, err := suite.Sign(doc.PrivateKey(), content)
	if err != nil {
		var keyErr *algorithm.KeyError
		if errors.As(err, &keyErr) {
			p.log.Debug("fiproof sign failed", "algorithm", p.algorithm, "reason", "key")
			return verrors.New("FiProof.Sign", verrors.SignerInitError, err)
		}
		p.log.Debug("fiproof sign failed", "algorithm", p.algorithm, "reason", "operation")
		return verrors.New("FiProof.Sign", verrors.SignFailed, err)
	}

	p.jws = sig
	p.signed = true
	p.log.Debug("fiproof signed", "algorithm", p.algorithm, "purpose", p.purpose)
	return nil
}

// Verify checks the proof's stored signature over content using doc's
// public key.
func (p *FiProof) Verify(doc document.VerificationDocument, content []byte) (bool, error) {
	if !doc.HasPublicKey() {
		return false, verrors.New("FiProof.Verify", verrors.NoPublicKey, nil)
	}
	if !p.signed {
		return false, verrors.New("FiProof.Verify", verrors.NoSignature, nil)
	}
	suite, ok := algorithm.Lookup(p.algorithm)
	if !ok {
		return false, verrors.New("FiProof.Verify", verrors.UnknownAlgorithm, nil)
	}

	ok2, err := suite.Verify(doc.PublicKey(), content, p.jws)
	if err != nil {
		var keyErr *algorithm.KeyError
		if errors.As(err, &keyErr) {
			p.log.Debug("fiproof verify failed", "algorithm", p.algorithm, "reason", "key")
			return false, verrors.New("FiProof.Verify", verrors.VerifierInitError, err)
		}
		p.log.Debug("fiproof verify failed", "algorithm", p.algorithm, "reason", "operation")
		return false, verrors.New("FiProof.Verify", verrors.VerifyFailed, err)
	}
	p.log.Debug("fiproof verified", "algorithm", p.algorithm, "result", ok2)
	return ok2, nil
}

// fiProofWire is the JSON wire shape of a FiProof.
type fiProofWire struct {
	Type         string `json:"type"`
	Created      string `json:"created"`
	Algorithm    string `json:"algorithm"`
	ProofPurpose string `json:"proofPurpose"`
	JWS          string `json:"jws,omitempty"`
}

// MarshalJSON projects the proof to its wire form.
func (p *FiProof) MarshalJSON() ([]byte, error) {
	wire := fiProofWire{
		Type:         TypeFiProof,
		Created:      p.created.Format(time.RFC3339),
		Algorithm:    p.algorithm,
		ProofPurpose: p.purpose,
	}
	if p.signed {
		wire.JWS = p.jws
	}
	return json.Marshal(wire)
}
