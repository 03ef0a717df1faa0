package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

func TestLocateUserSelection(t *testing.T) {
	t.Parallel()

	got := LocateUserSelection("mesures", article, SelectionFields{
		CanonicalForm: "mesure",
		Level:         domain.LevelB1,
		Meaning:       "조치",
		Lexical:       &domain.LexicalDetails{Class: domain.ClassNoun, Gender: domain.GenderFeminine},
	})

	require.NotNil(t, got)
	assert.True(t, got.UserContributed)
	assert.Equal(t, domain.CategoryWord, got.Category)
	assert.Equal(t, "mesure", got.CanonicalForm)
	assert.Equal(t, "mesures", got.SurfaceForm)
	assert.Equal(t, domain.Span{Start: 31, End: 38}, *got.Span)
	assert.Equal(t, domain.MatchExact, got.Outcome)
	assert.Equal(t, "n.f.", got.Lexical.Label())
}

func TestLocateUserSelection_Defaults(t *testing.T) {
	t.Parallel()

	got := LocateUserSelection(" Gouvernement ", article, SelectionFields{Level: "X9"})

	require.NotNil(t, got)
	assert.Equal(t, "Gouvernement", got.CanonicalForm)
	assert.Equal(t, domain.DefaultLevel, got.Level)
	assert.Equal(t, domain.ClassOther, got.Lexical.Class)
	assert.Equal(t, domain.MatchCaseInsensitive, got.Outcome)
}

func TestLocateUserSelection_NotFoundIsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, LocateUserSelection("parlement", article, SelectionFields{}))
	assert.Nil(t, LocateUserSelection("", article, SelectionFields{}))
}
