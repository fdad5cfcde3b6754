// Package presentation implements VP, the verifiable presentation
// envelope: an ordered collection of already-signed credentials plus the
// same closed/open field model and signable-content protocol as VC.
package presentation

import (
	"encoding/json"

	"github.com/Fidenz/fi-verifiable-data/pkg/credential"
	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/proof"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

const baseType = "VerifiablePresentation"

// VP is a verifiable presentation envelope. The zero value is not
// useful; build one with New.
type VP struct {
	context []any
	types   []string
	id      string
	holder  *string

	credentials []*credential.VC

	proof proof.Proof

	ext map[string]json.RawMessage
}

// New constructs a VP with the given id.
func New(id string) *VP {
	return &VP{
		context:     []any{"https://www.w3.org/ns/credentials/v2"},
		types:       []string{baseType},
		id:          id,
		credentials: nil,
		ext:         map[string]json.RawMessage{},
	}
}

// ID returns the presentation's id.
func (vp *VP) ID() string { return vp.id }

// Types returns the presentation's type sequence.
func (vp *VP) Types() []string { return append([]string(nil), vp.types...) }

// Holder returns the holder value and whether it is set.
func (vp *VP) Holder() (string, bool) {
	if vp.holder == nil {
		return "", false
	}
	return *vp.holder, true
}

// Proof returns the presentation's proof, or nil if unsigned.
func (vp *VP) Proof() proof.Proof { return vp.proof }

// Credentials returns the presentation's embedded VCs, in order.
func (vp *VP) Credentials() []*credential.VC {
	return append([]*credential.VC(nil), vp.credentials...)
}

// SetHolder sets the optional holder field.
func (vp *VP) SetHolder(holder string) { vp.holder = &holder }

// SetContext replaces the @context sequence.
func (vp *VP) SetContext(values []any) { vp.context = append([]any(nil), values...) }

// AddContext appends one entry to the @context sequence.
func (vp *VP) AddContext(value any) { vp.context = append(vp.context, value) }

// SetTypes replaces the type sequence. baseType is always re-added if
// missing.
func (vp *VP) SetTypes(types []string) {
	vp.types = append([]string(nil), types...)
	vp.ensureBaseType()
}

// AddType appends one entry to the type sequence.
func (vp *VP) AddType(t string) { vp.types = append(vp.types, t) }

func (vp *VP) ensureBaseType() {
	for _, t := range vp.types {
		if t == baseType {
			return
		}
	}
	vp.types = append([]string{baseType}, vp.types...)
}

// AddVerifiableCredentials appends vc to the presentation's credential
// sequence.
func (vp *VP) AddVerifiableCredentials(vc *credential.VC) {
	vp.credentials = append(vp.credentials, vc)
}

// SetVerifiableCredentials replaces the presentation's credential
// sequence.
func (vp *VP) SetVerifiableCredentials(vcs []*credential.VC) {
	vp.credentials = append([]*credential.VC(nil), vcs...)
}

// AddField sets an extension (open) field. Setting a name that collides
// with a closed field overrides that field's value on serialization.
func (vp *VP) AddField(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VP.AddField", verrors.FieldCasting, err)
	}
	vp.ext[name] = raw
	return nil
}

// Field returns an extension field's raw JSON value and whether it is
// present.
func (vp *VP) Field(name string) (json.RawMessage, bool) {
	v, ok := vp.ext[name]
	return v, ok
}

// Sign computes p's signature over the presentation's signable content
// and attaches p as the presentation's proof. The signable content
// excludes both the outer proof and verifiableCredential (see
// GetSignableContent), so embedded VCs are not covered by this signature.
func (vp *VP) Sign(doc document.VerificationDocument, p proof.Proof) error {
	content, err := vp.GetSignableContent()
	if err != nil {
		return err
	}
	if err := p.Sign(doc, content); err != nil {
		return err
	}
	vp.proof = p
	return nil
}

// Verify checks the presentation's attached proof over its signable
// content. It does not recursively verify embedded VCs.
func (vp *VP) Verify(doc document.VerificationDocument) (bool, error) {
	if vp.proof == nil {
		return false, verrors.New("VP.Verify", verrors.NoProof, nil)
	}
	content, err := vp.GetSignableContent()
	if err != nil {
		return false, err
	}
	return vp.proof.Verify(doc, content)
}
