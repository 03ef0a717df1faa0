package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls the JSON object out of a model reply. A fenced ```json
// block wins; otherwise the text between the first '{' and the last '}' is
// used. The error wraps domain.ErrUpstreamMalformed.
func ExtractJSON(text string) ([]byte, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil && json.Valid([]byte(m[1])) {
		return []byte(m[1]), nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrUpstreamMalformed)
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrUpstreamMalformed)
	}
	return candidate, nil
}
