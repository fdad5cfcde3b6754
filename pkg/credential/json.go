package credential

import (
	"encoding/json"

	"github.com/Fidenz/fi-verifiable-data/pkg/document"
	"github.com/Fidenz/fi-verifiable-data/pkg/proof"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

// closedFields renders the present closed fields, in the fixed wire
// order, as an ordered-field slice. Optional fields are omitted when
// unset; @context, type, id, issuer, validFrom and credentialSubject are
// always present.
func (vc *VC) closedFields() []field {
	fields := []field{
		{key: "@context", value: mustMarshal(vc.context)},
		{key: "type", value: mustMarshal(vc.types)},
		{key: "id", value: mustMarshal(vc.id)},
		{key: "issuer", value: mustMarshal(vc.issuer)},
		{key: "validFrom", value: mustMarshal(vc.validFrom)},
	}
	if vc.validUntil != nil {
		fields = append(fields, field{key: "validUntil", value: mustMarshal(*vc.validUntil)})
	}
	fields = append(fields, field{key: "credentialSubject", value: mustMarshal(vc.credentialSubject)})
	if vc.credentialStatus != nil {
		fields = append(fields, field{key: "credentialStatus", value: vc.credentialStatus})
	}
	if vc.credentialSchema != nil {
		fields = append(fields, field{key: "credentialSchema", value: vc.credentialSchema})
	}
	if vc.refreshService != nil {
		fields = append(fields, field{key: "refreshService", value: vc.refreshService})
	}
	if vc.termsOfUse != nil {
		fields = append(fields, field{key: "termsOfUse", value: vc.termsOfUse})
	}
	if vc.evidence != nil {
		fields = append(fields, field{key: "evidence", value: vc.evidence})
	}
	if vc.name != nil {
		fields = append(fields, field{key: "name", value: mustMarshal(*vc.name)})
	}
	if vc.description != nil {
		fields = append(fields, field{key: "description", value: mustMarshal(*vc.description)})
	}
	if vc.proof != nil {
		if raw, err := vc.proof.MarshalJSON(); err == nil {
			fields = append(fields, field{key: "proof", value: raw})
		}
	}
	return fields
}

// toObject merges the closed fields with the open extension map: closed
// fields keep their fixed position, but a colliding extension key
// supplies the value; remaining extension fields follow, sorted
// lexicographically by key.
func (vc *VC) toObject() orderedObject {
	closed := vc.closedFields()
	skip := make(map[string]bool, len(closed))
	out := make(orderedObject, 0, len(closed)+len(vc.ext))
	for _, f := range closed {
		if override, ok := vc.ext[f.key]; ok {
			out = append(out, field{key: f.key, value: override})
		} else {
			out = append(out, f)
		}
		skip[f.key] = true
	}
	out = append(out, sortedExtensionFields(vc.ext, skip)...)
	return out
}

// ToObject renders the credential as a plain Go value: the closed and
// open fields merged per the collision rule, decoded into a generic map.
func (vc *VC) ToObject() (map[string]any, error) {
	raw, err := json.Marshal(vc.toObject())
	if err != nil {
		return nil, verrors.New("VC.ToObject", verrors.Canonicalization, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, verrors.New("VC.ToObject", verrors.Canonicalization, err)
	}
	return m, nil
}

// MarshalJSON projects the credential to its wire form: closed fields in
// fixed order, merged with sorted extension fields, proof included.
func (vc *VC) MarshalJSON() ([]byte, error) {
	return json.Marshal(vc.toObject())
}

// GetSignableContent returns the deterministic byte sequence a Proof
// signs and verifies: the credential's projection with any existing
// proof field removed.
func (vc *VC) GetSignableContent() ([]byte, error) {
	obj := vc.toObject().withoutKey("proof")
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, verrors.New("VC.GetSignableContent", verrors.Canonicalization, err)
	}
	return raw, nil
}

// Sign computes p's signature over the credential's signable content and
// attaches p as the credential's proof. On failure the credential's
// proof is left unchanged.
func (vc *VC) Sign(doc document.VerificationDocument, p proof.Proof) error {
	content, err := vc.GetSignableContent()
	if err != nil {
		return err
	}
	if err := p.Sign(doc, content); err != nil {
		return err
	}
	vc.proof = p
	return nil
}

// Verify checks the credential's attached proof over its signable
// content.
func (vc *VC) Verify(doc document.VerificationDocument) (bool, error) {
	if vc.proof == nil {
		return false, verrors.New("VC.Verify", verrors.NoProof, nil)
	}
	content, err := vc.GetSignableContent()
	if err != nil {
		return false, err
	}
	return vc.proof.Verify(doc, content)
}

// closedKeys lists every closed field name, used by From/UnmarshalJSON to
// decide which top-level keys feed typed fields rather than the
// extension map.
var closedKeys = map[string]bool{
	"@context": true, "type": true, "id": true, "issuer": true,
	"validFrom": true, "validUntil": true, "credentialSubject": true,
	"credentialStatus": true, "credentialSchema": true, "refreshService": true,
	"termsOfUse": true, "evidence": true, "name": true, "description": true,
	"proof": true,
}

// From parses data into a VC, losslessly preserving any unrecognized
// top-level field in the credential's extension map.
func From(data []byte) (*VC, error) {
	vc := &VC{ext: map[string]json.RawMessage{}}
	if err := vc.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return vc, nil
}

// UnmarshalJSON decodes data into vc, routing every unrecognized
// top-level field into vc's extension map.
func (vc *VC) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return verrors.New("VC.UnmarshalJSON", verrors.DeserializationError, err)
	}

	if vc.ext == nil {
		vc.ext = map[string]json.RawMessage{}
	}

	if v, ok := raw["@context"]; ok {
		if err := json.Unmarshal(v, &vc.context); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &vc.types); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &vc.id); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["issuer"]; ok {
		if err := json.Unmarshal(v, &vc.issuer); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["validFrom"]; ok {
		if err := json.Unmarshal(v, &vc.validFrom); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["validUntil"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
		vc.validUntil = &s
	}
	if v, ok := raw["credentialSubject"]; ok {
		if err := json.Unmarshal(v, &vc.credentialSubject); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["credentialStatus"]; ok {
		vc.credentialStatus = v
	}
	if v, ok := raw["credentialSchema"]; ok {
		vc.credentialSchema = v
	}
	if v, ok := raw["refreshService"]; ok {
		vc.refreshService = v
	}
	if v, ok := raw["termsOfUse"]; ok {
		vc.termsOfUse = v
	}
	if v, ok := raw["evidence"]; ok {
		vc.evidence = v
	}
	if v, ok := raw["name"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
		vc.name = &s
	}
	if v, ok := raw["description"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return verrors.New("VC.UnmarshalJSON", verrors.FieldCasting, err)
		}
		vc.description = &s
	}
	if v, ok := raw["proof"]; ok {
		p, err := proof.Unmarshal(v)
		if err != nil {
			return err
		}
		vc.proof = p
	}

	for k, v := range raw {
		if closedKeys[k] {
			continue
		}
		vc.ext[k] = v
	}
	return nil
}
