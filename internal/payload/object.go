package payload

import (
	"bytes"
	"encoding/json"
	"strings"
)

// object is a JSON object whose fields are decoded on demand. Every accessor
// tolerates a missing key or a value of the wrong shape.
type object map[string]json.RawMessage

func parseObject(raw json.RawMessage) (object, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false
	}
	return o, true
}

// str returns the trimmed string value of the first key present as a string.
func (o object) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// obj returns the nested object at key, or an empty object.
func (o object) obj(key string) object {
	if nested, ok := parseObject(o[key]); ok {
		return nested
	}
	return object{}
}

// objects returns the elements of the array at key that are objects.
func (o object) objects(key string) []object {
	var elems []json.RawMessage
	if err := json.Unmarshal(o[key], &elems); err != nil {
		return nil
	}
	out := make([]object, 0, len(elems))
	for _, e := range elems {
		if item, ok := parseObject(e); ok {
			out = append(out, item)
		}
	}
	return out
}

// texts returns the non-empty string elements of the array at key.
func (o object) texts(key string) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(o[key], &elems); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
