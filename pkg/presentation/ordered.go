package presentation

import (
	"bytes"
	"encoding/json"
	"sort"
)

// field is one key/value pair of a VP's canonical projection.
type field struct {
	key   string
	value json.RawMessage
}

// orderedObject renders as a JSON object whose key order is exactly the
// order fields were appended — closed fields in a fixed order, then
// extension fields sorted lexicographically by key.
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
		panic(err)
	}
	return json.RawMessage(data)
}
