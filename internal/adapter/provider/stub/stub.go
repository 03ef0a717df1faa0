// Package stub provides an offline annotator used when no model API key is
// configured. It returns a fixed payload so the rest of the pipeline can be
// exercised locally.
package stub

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

//go:embed analysis.json
var analysisPayload []byte

// Stub is a no-op model client.
type Stub struct{}

// NewStub creates a new offline annotator.
func NewStub() *Stub { return &Stub{} }

// Name identifies the provider in cache keys and metrics.
func (s *Stub) Name() string { return "stub" }

// Model returns a fixed model name.
func (s *Stub) Model() string { return "canned" }

// GenerateAnnotations always returns the embedded sample payload.
func (s *Stub) GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), analysisPayload...), nil
}

// AnalyzeSelection echoes the selection back as an unclassified entry.
func (s *Stub) AnalyzeSelection(ctx context.Context, selected, context string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	word := strings.TrimSpace(selected)
	return json.Marshal(map[string]string{
		"word":         word,
		"foundForm":    word,
		"partOfSpeech": "",
		"level":        string(domain.DefaultLevel),
		"meaning":      "",
		"example":      "",
	})
}
