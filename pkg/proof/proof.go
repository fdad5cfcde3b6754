// Package proof implements the proof abstraction: a tagged sum of proof
// kinds, each able to sign, verify and project itself to JSON, so that
// VC and VP depend on the Proof interface rather than on any one
// concrete proof shape. FiProof is the only variant today; adding
// another means adding a variant and a RegisterKind call, not touching
// credential or presentation code.
package proof

import (
	"encoding/json"
	"fmt"

	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

// Proof is satisfied by every supported proof shape.
type Proof interface {
	// ProofType returns the tag used to dispatch Unmarshal, e.g. "FiProof".
	ProofType() string
	// Sign computes a detached signature over content using doc's private
	// key and stores it on the proof.
	Sign(doc document.VerificationDocument, content []byte) error
	// Verify checks the proof's stored signature over content using doc's
	// public key.
	Verify(doc document.VerificationDocument, content []byte) (bool, error)
	// MarshalJSON projects the proof to its wire form.
	MarshalJSON() ([]byte, error)
}

type unmarshalFunc func([]byte) (Proof, error)

var kinds = map[string]unmarshalFunc{}

// RegisterKind installs the unmarshal constructor for a proof type tag.
// FiProof registers itself via an init function in this package;
// additional proof variants register themselves the same way from their
// own package.
func RegisterKind(typeTag string, unmarshal unmarshalFunc) {
	kinds[typeTag] = unmarshal
}

// Unmarshal dispatches on data's "type" field to the registered
// constructor for that proof kind.
func Unmarshal(data []byte) (Proof, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, verrors.New("proof.Unmarshal", verrors.DeserializationError, err)
	}
	ctor, ok := kinds[tag.Type]
	if !ok {
		return nil, verrors.New("proof.Unmarshal", verrors.DeserializationError, fmt.Errorf("unknown proof type %q", tag.Type))
	}
	p, err := ctor(data)
	if err != nil {
		return nil, verrors.New("proof.Unmarshal", verrors.DeserializationError, err)
	}
	return p, nil
}
