package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Sanitize encodes v as JSON with every null object member removed at any
// depth. Array elements are kept in place and sanitized themselves.
func Sanitize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return json.Marshal(stripNulls(tree))
}

func stripNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = stripNulls(child)
		}
		return t
	case []any:
		for i := range t {
			t[i] = stripNulls(t[i])
		}
		return t
	default:
		return v
	}
}
