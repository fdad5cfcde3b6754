// Package credential implements VC, the verifiable credential model: a
// small set of closed fields plus an open extension map, with a
// deterministic projection to signable bytes and a Proof-backed
// sign/verify pair.
package credential

import (
	"encoding/json"
	"time"

	"github.com/Fidenz/fi-verifiable-data/pkg/proof"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

const baseType = "VerifiableCredential"

// VC is a verifiable credential. The zero value is not useful; build one
// with New.
type VC struct {
	context  []any
	types    []string
	id       string
	issuer   any // string, map[string]any, or []any
	validFrom   string
	validUntil  *string

	name        *string
	description *string
	evidence    json.RawMessage

	credentialSubject any
	credentialStatus  json.RawMessage
	credentialSchema  json.RawMessage
	refreshService    json.RawMessage
	termsOfUse        json.RawMessage

	proof proof.Proof

	ext map[string]json.RawMessage
}

// New constructs a VC with the given id and issuer, stamping validFrom
// with the current UTC time formatted as RFC3339. issuer must be a
// string or a map[string]any; anything else is a FieldCasting error.
func New(id string, issuer any) (*VC, error) {
	if err := validateConstruction(id); err != nil {
		return nil, err
	}
	vc := &VC{
		context:           []any{"https://www.w3.org/ns/credentials/v2"},
		types:             []string{baseType},
		id:                id,
		validFrom:         time.Now().UTC().Format(time.RFC3339),
		credentialSubject: nil,
		ext:               map[string]json.RawMessage{},
	}
	if err := vc.SetIssuer(issuer); err != nil {
		return nil, err
	}
	return vc, nil
}

// ID returns the credential's id.
func (vc *VC) ID() string { return vc.id }

// Types returns the credential's type sequence.
func (vc *VC) Types() []string { return append([]string(nil), vc.types...) }

// Issuer returns the issuer value as stored: a string, a map[string]any,
// or a []any once lifted by AddIssuer.
func (vc *VC) Issuer() any { return vc.issuer }

// Proof returns the credential's proof, or nil if unsigned.
func (vc *VC) Proof() proof.Proof { return vc.proof }

// SetContext replaces the @context sequence.
func (vc *VC) SetContext(values []any) { vc.context = append([]any(nil), values...) }

// AddContext appends one entry to the @context sequence.
func (vc *VC) AddContext(value any) { vc.context = append(vc.context, value) }

// SetTypes replaces the type sequence. baseType is always re-added if
// missing, so the credential never loses its "VerifiableCredential" tag.
func (vc *VC) SetTypes(types []string) {
	vc.types = append([]string(nil), types...)
	vc.ensureBaseType()
}

// AddType appends one entry to the type sequence.
func (vc *VC) AddType(t string) {
	vc.types = append(vc.types, t)
}

func (vc *VC) ensureBaseType() {
	for _, t := range vc.types {
		if t == baseType {
			return
		}
	}
	vc.types = append([]string{baseType}, vc.types...)
}

// SetIssuer replaces the issuer value. v must be a string or a
// map[string]any.
func (vc *VC) SetIssuer(v any) error {
	switch v.(type) {
	case string, map[string]any:
		vc.issuer = v
		return nil
	default:
		return verrors.New("VC.SetIssuer", verrors.FieldCasting, nil)
	}
}

// AddIssuer appends v to the issuer value, lifting a scalar or object
// issuer into a one-then-two-element sequence on first call. v must be a
// string or a map[string]any.
func (vc *VC) AddIssuer(v any) error {
	switch v.(type) {
	case string, map[string]any:
	default:
		return verrors.New("VC.AddIssuer", verrors.FieldCasting, nil)
	}
	switch cur := vc.issuer.(type) {
	case []any:
		vc.issuer = append(cur, v)
	case nil:
		vc.issuer = v
	default:
		vc.issuer = []any{cur, v}
	}
	return nil
}

// SetName sets the optional name field.
func (vc *VC) SetName(name string) { vc.name = &name }

// SetDescription sets the optional description field.
func (vc *VC) SetDescription(description string) { vc.description = &description }

// SetEvidence sets the optional evidence field to an arbitrary JSON value.
func (vc *VC) SetEvidence(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.SetEvidence", verrors.FieldCasting, err)
	}
	vc.evidence = raw
	return nil
}

// SetExpire sets the optional validUntil field.
func (vc *VC) SetExpire(validUntil string) { vc.validUntil = &validUntil }

// SetCredentialSubject replaces the credentialSubject value.
func (vc *VC) SetCredentialSubject(v any) { vc.credentialSubject = v }

// SetCredentialStatus sets the optional credentialStatus field to an
// arbitrary JSON value.
func (vc *VC) SetCredentialStatus(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.SetCredentialStatus", verrors.FieldCasting, err)
	}
	vc.credentialStatus = raw
	return nil
}

// SetCredentialSchemas sets the optional credentialSchema field to an
// arbitrary JSON value (a single schema object or a sequence of them).
func (vc *VC) SetCredentialSchemas(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.SetCredentialSchemas", verrors.FieldCasting, err)
	}
	vc.credentialSchema = raw
	return nil
}

// SetRefreshService sets the optional refreshService field.
func (vc *VC) SetRefreshService(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.SetRefreshService", verrors.FieldCasting, err)
	}
	vc.refreshService = raw
	return nil
}

// SetTermsOfUse sets the optional termsOfUse field.
func (vc *VC) SetTermsOfUse(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.SetTermsOfUse", verrors.FieldCasting, err)
	}
	vc.termsOfUse = raw
	return nil
}

// AddField sets an extension (open) field. Setting a name that collides
// with a closed field overrides that field's value on serialization, per
// the closed/open merge rule.
func (vc *VC) AddField(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return verrors.New("VC.AddField", verrors.FieldCasting, err)
	}
	vc.ext[name] = raw
	return nil
}

// Field returns an extension field's raw JSON value and whether it is
// present.
func (vc *VC) Field(name string) (json.RawMessage, bool) {
	v, ok := vc.ext[name]
	return v, ok
}
