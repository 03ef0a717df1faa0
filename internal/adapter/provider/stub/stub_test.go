package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/payload"
)

func TestStub_GenerateAnnotations_DecodesCleanly(t *testing.T) {
	t.Parallel()

	raw, err := NewStub().GenerateAnnotations(context.Background(), "Le chat.", domain.LevelB1)
	require.NoError(t, err)

	p, err := payload.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Politique environnementale", p.Summary.Topic)
	assert.Len(t, p.Nouns, 2)
	assert.Len(t, p.Verbs, 1)
	assert.Len(t, p.Expressions, 1)
	assert.Len(t, p.Grammar, 1)
}

func TestStub_GenerateAnnotations_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStub()
	first, err := s.GenerateAnnotations(context.Background(), "", domain.LevelA1)
	require.NoError(t, err)
	first[0] = 'x'

	second, err := s.GenerateAnnotations(context.Background(), "", domain.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), second[0])
}

func TestStub_AnalyzeSelection(t *testing.T) {
	t.Parallel()

	raw, err := NewStub().AnalyzeSelection(context.Background(), "  exemple ", "C'est un exemple.")
	require.NoError(t, err)

	sel, err := payload.DecodeSelection(raw)
	require.NoError(t, err)
	assert.Equal(t, "exemple", sel.CanonicalForm)
	assert.Equal(t, domain.DefaultLevel, sel.Level)
	require.NotNil(t, sel.Lexical)
	assert.Equal(t, domain.ClassOther, sel.Lexical.Class)
}

func TestStub_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStub().GenerateAnnotations(ctx, "", domain.LevelA1)
	assert.ErrorIs(t, err, context.Canceled)
}
