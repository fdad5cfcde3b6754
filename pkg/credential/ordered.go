package credential

import (
	"bytes"
	"encoding/json"
	"sort"
)

// field is one key/value pair of a VC's canonical projection.
type field struct {
	key   string
	value json.RawMessage
}

// orderedObject renders as a JSON object whose key order is exactly the
// order fields were appended — the documented, portable option from the
// canonical-JSON open question: closed fields in a fixed order, then
// extension fields sorted lexicographically by key, compact separators,
// no trailing newline.
type orderedObject []field

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// withoutKey returns a copy of o with every field named key removed.
func (o orderedObject) withoutKey(key string) orderedObject {
	out := make(orderedObject, 0, len(o))
	for _, f := range o {
		if f.key == key {
			continue
		}
		out = append(out, f)
	}
	return out
}

// sortedExtensionFields renders ext (excluding any key in skip) as fields
// sorted lexicographically by key.
func sortedExtensionFields(ext map[string]json.RawMessage, skip map[string]bool) []field {
	keys := make([]string, 0, len(ext))
	for k := range ext {
		if skip[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, field{key: k, value: ext[k]})
	}
	return fields
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Every value passed here is a Go-native type (string, []string,
		// []any, map[string]any) that always marshals; a failure here
		// indicates a programming error, not caller input.
		panic(err)
	}
	return json.RawMessage(data)
}
