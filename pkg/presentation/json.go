package presentation

import (
	"encoding/json"

	"github.com/Fidenz/fi-verifiable-data/pkg/credential"
	"github.com/Fidenz/fi-verifiable-data/pkg/proof"
	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

// closedFields renders the present closed fields, in the fixed wire
// order, as an ordered-field slice.
func (vp *VP) closedFields() []field {
	fields := []field{
		{key: "@context", value: mustMarshal(vp.context)},
		{key: "type", value: mustMarshal(vp.types)},
		{key: "id", value: mustMarshal(vp.id)},
	}
	if vp.holder != nil {
		fields = append(fields, field{key: "holder", value: mustMarshal(*vp.holder)})
	}
	fields = append(fields, field{key: "verifiableCredential", value: mustMarshal(vp.credentials)})
	if vp.proof != nil {
		if raw, err := vp.proof.MarshalJSON(); err == nil {
			fields = append(fields, field{key: "proof", value: raw})
		}
	}
	return fields
}

// toObject merges the closed fields with the open extension map,
// following the same collision rule as VC.
func (vp *VP) toObject() orderedObject {
	closed := vp.closedFields()
	skip := make(map[string]bool, len(closed))
	out := make(orderedObject, 0, len(closed)+len(vp.ext))
	for _, f := range closed {
		if override, ok := vp.ext[f.key]; ok {
			out = append(out, field{key: f.key, value: override})
		} else {
			out = append(out, f)
		}
		skip[f.key] = true
	}
	out = append(out, sortedExtensionFields(vp.ext, skip)...)
	return out
}

// ToObject renders the presentation as a plain Go value.
func (vp *VP) ToObject() (map[string]any, error) {
	raw, err := json.Marshal(vp.toObject())
	if err != nil {
		return nil, verrors.New("VP.ToObject", verrors.Canonicalization, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, verrors.New("VP.ToObject", verrors.Canonicalization, err)
	}
	return m, nil
}

// MarshalJSON projects the presentation to its wire form. Embedded VCs
// carry their own proofs intact.
func (vp *VP) MarshalJSON() ([]byte, error) {
	return json.Marshal(vp.toObject())
}

// GetSignableContent returns the deterministic byte sequence a Proof
// signs and verifies: the presentation's envelope metadata (context,
// type, id, holder, extension fields) with the outer proof field
// removed. verifiableCredential is deliberately excluded — each embedded
// VC already carries (and is independently verified against) its own
// proof, so the outer signature binds the envelope, not the bytes of
// credentials it merely carries. This is what makes it possible for a
// mutation inside an embedded VC to leave the outer VP's signature
// valid while the inner VC independently fails verification.
func (vp *VP) GetSignableContent() ([]byte, error) {
	obj := vp.toObject().withoutKey("proof").withoutKey("verifiableCredential")
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, verrors.New("VP.GetSignableContent", verrors.Canonicalization, err)
	}
	return raw, nil
}

var closedKeys = map[string]bool{
	"@context": true, "type": true, "id": true, "holder": true,
	"verifiableCredential": true, "proof": true,
}

// From parses data into a VP, losslessly preserving any unrecognized
// top-level field in the presentation's extension map, and parsing each
// embedded credential with credential.From so inner extension fields and
// proofs survive too.
func From(data []byte) (*VP, error) {
	vp := &VP{ext: map[string]json.RawMessage{}}
	if err := vp.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return vp, nil
}

// UnmarshalJSON decodes data into vp, routing every unrecognized
// top-level field into vp's extension map.
func (vp *VP) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return verrors.New("VP.UnmarshalJSON", verrors.DeserializationError, err)
	}

	if vp.ext == nil {
		vp.ext = map[string]json.RawMessage{}
	}

	if v, ok := raw["@context"]; ok {
		if err := json.Unmarshal(v, &vp.context); err != nil {
			return verrors.New("VP.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &vp.types); err != nil {
			return verrors.New("VP.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &vp.id); err != nil {
			return verrors.New("VP.UnmarshalJSON", verrors.FieldCasting, err)
		}
	}
	if v, ok := raw["holder"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return verrors.New("VP.UnmarshalJSON", verrors.FieldCasting, err)
		}
		vp.holder = &s
	}
	if v, ok := raw["verifiableCredential"]; ok {
		var rawVCs []json.RawMessage
		if err := json.Unmarshal(v, &rawVCs); err != nil {
			return verrors.New("VP.UnmarshalJSON", verrors.FieldCasting, err)
		}
		vcs := make([]*credential.VC, 0, len(rawVCs))
		for _, rv := range rawVCs {
			vc, err := credential.From(rv)
			if err != nil {
				return err
			}
			vcs = append(vcs, vc)
		}
		vp.credentials = vcs
	}
	if v, ok := raw["proof"]; ok {
		p, err := proof.Unmarshal(v)
		if err != nil {
			return err
		}
		vp.proof = p
	}

	for k, v := range raw {
		if closedKeys[k] {
			continue
		}
		vp.ext[k] = v
	}
	return nil
}
