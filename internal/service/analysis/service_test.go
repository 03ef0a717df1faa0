package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

const article = "Le gouvernement a  annoncé des mesures."

const samplePayload = `{
  "summary": {"topic": "Politique", "keyMessage": "Des mesures."},
  "vocabulary": {
    "nouns": [
      {"word": "gouvernement", "foundForm": "gouvernement", "gender": "m", "level": "B1", "meaning": "정부"},
      {"word": "mesure", "foundForm": "mesures", "gender": "f", "level": "B1", "meaning": "조치"}
    ],
    "verbs": [
      {"word": "annoncer", "foundForm": "annonçait", "level": "A2", "meaning": "발표하다"}
    ]
  },
  "grammar": [
    {"name": "Passé composé", "foundText": "a annoncé", "level": "A2", "explanation": "과거"}
  ]
}`

var testLimits = Limits{MinContentLength: 10, MaxContentLength: 1000, MaxSelectionLength: 50}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedAnnotator(raw string) *annotatorMock {
	return &annotatorMock{
		GenerateAnnotationsFunc: func(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error) {
			return []byte(raw), nil
		},
	}
}

// ---------------------------------------------------------------------------
// Analyze
// ---------------------------------------------------------------------------

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	ann := fixedAnnotator(samplePayload)
	rec := &matchRecorderMock{}
	svc := NewService(newTestLogger(), ann, testLimits, WithMetrics(rec))

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := ann.GenerateAnnotationsCalls()
	if len(calls) != 1 {
		t.Fatalf("GenerateAnnotations calls: got %d, want 1", len(calls))
	}
	if calls[0].Text != "Le gouvernement a annoncé des mesures." {
		t.Errorf("model saw un-normalized text: %q", calls[0].Text)
	}

	res := out.Result
	if res.Content != calls[0].Text {
		t.Errorf("result content %q differs from the text sent to the model", res.Content)
	}
	if len(res.Words) != 2 {
		t.Fatalf("words: got %d, want 2", len(res.Words))
	}
	if got := *res.Words[0].Span; got != (domain.Span{Start: 3, End: 15}) {
		t.Errorf("gouvernement span: got %+v", got)
	}
	if res.Stats.Vocabulary.NotFound != 1 {
		t.Errorf("vocabulary not found: got %d, want 1", res.Stats.Vocabulary.NotFound)
	}
	if len(res.Grammar) != 1 || res.Grammar[0].Outcome != domain.MatchExact {
		t.Errorf("grammar: got %+v", res.Grammar)
	}
	if res.Summary.Topic != "Politique" {
		t.Errorf("summary topic: got %q", res.Summary.Topic)
	}
	if out.ArticleID != nil || out.AnalysisID != nil {
		t.Error("unsaved analysis must not carry IDs")
	}
	if len(rec.observed) != 1 || rec.observed[0].TotalItems != 4 {
		t.Errorf("metrics observed: got %+v", rec.observed)
	}
	if rec.modelCall != 1 {
		t.Errorf("model call metric: got %d, want 1", rec.modelCall)
	}
}

func TestAnalyze_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input AnalyzeInput
		field string
	}{
		{"empty content", AnalyzeInput{Content: "  \n ", Level: domain.LevelB1}, "content"},
		{"too short", AnalyzeInput{Content: "Bonjour", Level: domain.LevelB1}, "content"},
		{"bad level", AnalyzeInput{Content: article, Level: "D1"}, "level"},
		{"missing level", AnalyzeInput{Content: article}, "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ann := fixedAnnotator(samplePayload)
			svc := NewService(newTestLogger(), ann, testLimits)

			_, err := svc.Analyze(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Errors[0].Field != tt.field {
				t.Errorf("expected error on %q, got %v", tt.field, err)
			}
			if len(ann.GenerateAnnotationsCalls()) != 0 {
				t.Error("model must not be called for invalid input")
			}
		})
	}
}

func TestAnalyze_TooLong(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), fixedAnnotator(samplePayload), Limits{MinContentLength: 1, MaxContentLength: 10})

	// 12 runes, 13 bytes: the limit counts runes.
	_, err := svc.Analyze(context.Background(), AnalyzeInput{Content: "Il a annoncé", Level: domain.LevelA1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.Analyze(context.Background(), AnalyzeInput{Content: "Il annonça", Level: domain.LevelA1})
	if err != nil {
		t.Fatalf("10 runes should pass, got %v", err)
	}
}

func TestAnalyze_UpstreamErrorPassesThrough(t *testing.T) {
	t.Parallel()

	kinds := []error{domain.ErrUpstreamQuota, domain.ErrUpstreamAuth, domain.ErrUpstreamMalformed, domain.ErrUpstreamNetwork}

	for _, kind := range kinds {
		t.Run(kind.Error(), func(t *testing.T) {
			t.Parallel()

			ann := &annotatorMock{
				GenerateAnnotationsFunc: func(context.Context, string, domain.CEFRLevel) ([]byte, error) {
					return nil, fmt.Errorf("mock: %w: %w", kind, errors.New("cause"))
				},
			}
			rec := &matchRecorderMock{}
			repo := &analysisRepoMock{}
			svc := NewService(newTestLogger(), ann, testLimits, WithMetrics(rec), WithRepo(repo))

			out, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1, Save: true})
			if !errors.Is(err, kind) {
				t.Fatalf("expected %v, got %v", kind, err)
			}
			if out != nil {
				t.Error("no result expected on upstream failure")
			}
			if len(rec.failures) != 1 || len(rec.observed) != 0 {
				t.Errorf("metrics: failures=%d observed=%d", len(rec.failures), len(rec.observed))
			}
			if len(repo.SaveCalls()) != 0 {
				t.Error("nothing must be saved on upstream failure")
			}
		})
	}
}

func TestAnalyze_CanceledIsNotCountedAsFailure(t *testing.T) {
	t.Parallel()

	ann := &annotatorMock{
		GenerateAnnotationsFunc: func(ctx context.Context, _ string, _ domain.CEFRLevel) ([]byte, error) {
			return nil, fmt.Errorf("mock: %w", context.Canceled)
		},
	}
	rec := &matchRecorderMock{}
	svc := NewService(newTestLogger(), ann, testLimits, WithMetrics(rec))

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rec.failures) != 0 {
		t.Errorf("cancellation recorded as upstream failure")
	}
}

func TestAnalyze_NonObjectPayloadIsMalformed(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), fixedAnnotator(`[1, 2, 3]`), testLimits)

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1})
	if !errors.Is(err, domain.ErrUpstreamMalformed) {
		t.Fatalf("expected ErrUpstreamMalformed, got %v", err)
	}
}

func TestAnalyze_EmptyPayloadYieldsEmptyResult(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), fixedAnnotator(`{}`), testLimits)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelC2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result.Words == nil || len(out.Result.Words) != 0 {
		t.Errorf("words: got %#v, want empty non-nil", out.Result.Words)
	}
	if out.Result.Stats.MatchRate != 0 {
		t.Errorf("match rate: got %d, want 0", out.Result.Stats.MatchRate)
	}
}

func TestAnalyze_UsesCache(t *testing.T) {
	t.Parallel()

	ann := fixedAnnotator(samplePayload)
	stored := map[string][]byte{}
	cache := &payloadCacheMock{
		GetOrLoadFunc: func(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
			if v, ok := stored[key]; ok {
				return v, nil
			}
			v, err := load(ctx)
			if err == nil {
				stored[key] = v
			}
			return v, err
		},
	}
	svc := NewService(newTestLogger(), ann, testLimits, WithCache(cache))

	for range 2 {
		if _, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Whitespace differences normalize to the same key.
	if _, err := svc.Analyze(context.Background(), AnalyzeInput{Content: " " + article + "\r\n", Level: domain.LevelB1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(ann.GenerateAnnotationsCalls()); got != 1 {
		t.Errorf("GenerateAnnotations calls: got %d, want 1", got)
	}
	keys := cache.GetOrLoadCalls()
	if len(keys) != 3 || keys[0].Key != keys[2].Key {
		t.Errorf("cache keys: %+v", keys)
	}

	if _, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(ann.GenerateAnnotationsCalls()); got != 2 {
		t.Errorf("another level must miss the cache, calls: got %d, want 2", got)
	}
}

func TestAnalyze_Save(t *testing.T) {
	t.Parallel()

	storedArticle := uuid.New()
	repo := &analysisRepoMock{
		SaveFunc: func(ctx context.Context, a domain.Article, an domain.Analysis) (domain.Analysis, error) {
			an.ArticleID = storedArticle
			return an, nil
		},
	}
	svc := NewService(newTestLogger(), fixedAnnotator(samplePayload), testLimits, WithRepo(repo))

	out, err := svc.Analyze(context.Background(), AnalyzeInput{
		Content: article, Level: domain.LevelA2, Title: "Mesures", Source: "lemonde.fr", Save: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := repo.SaveCalls()
	if len(calls) != 1 {
		t.Fatalf("Save calls: got %d, want 1", len(calls))
	}
	saved := calls[0]
	if saved.Article.Content != out.Result.Content {
		t.Errorf("saved content %q, want normalized %q", saved.Article.Content, out.Result.Content)
	}
	if saved.Article.ContentHash != contentHash(out.Result.Content) || saved.Article.ContentHash == "" {
		t.Errorf("content hash: got %q", saved.Article.ContentHash)
	}
	if saved.Article.Title != "Mesures" || saved.Article.Source != "lemonde.fr" {
		t.Errorf("article metadata: %+v", saved.Article)
	}
	if saved.Analysis.Level != domain.LevelA2 {
		t.Errorf("level: got %q", saved.Analysis.Level)
	}
	if out.ArticleID == nil || *out.ArticleID != storedArticle {
		t.Errorf("article ID: got %v, want %v", out.ArticleID, storedArticle)
	}
	if out.AnalysisID == nil || *out.AnalysisID != saved.Analysis.ID {
		t.Errorf("analysis ID: got %v", out.AnalysisID)
	}
}

func TestAnalyze_SaveWithoutRepo(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), fixedAnnotator(samplePayload), testLimits)

	out, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1, Save: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ArticleID != nil {
		t.Error("article ID must stay nil without persistence")
	}
}

func TestAnalyze_SaveError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	repo := &analysisRepoMock{
		SaveFunc: func(context.Context, domain.Article, domain.Analysis) (domain.Analysis, error) {
			return domain.Analysis{}, boom
		},
	}
	svc := NewService(newTestLogger(), fixedAnnotator(samplePayload), testLimits, WithRepo(repo))

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1, Save: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// AnalyzeSelection
// ---------------------------------------------------------------------------

func selectionAnnotator(raw string) *annotatorMock {
	return &annotatorMock{
		AnalyzeSelectionFunc: func(context.Context, string, string) ([]byte, error) {
			return []byte(raw), nil
		},
	}
}

func TestAnalyzeSelection_Found(t *testing.T) {
	t.Parallel()

	ann := selectionAnnotator(`{"word": "mesure", "foundForm": "mesures", "partOfSpeech": "n.f.", "level": "B1", "meaningKo": "조치"}`)
	svc := NewService(newTestLogger(), ann, testLimits)

	item, err := svc.AnalyzeSelection(context.Background(), SelectionInput{
		SelectedText: " Mesures ",
		Content:      article,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item == nil {
		t.Fatal("expected the selection to be located")
	}
	if !item.UserContributed {
		t.Error("selection must be marked as user-contributed")
	}
	if item.Outcome != domain.MatchCaseInsensitive {
		t.Errorf("outcome: got %q", item.Outcome)
	}
	if item.CanonicalForm != "mesure" || item.Meaning != "조치" {
		t.Errorf("fields: %+v", item)
	}
	if item.Lexical == nil || item.Lexical.Gender != domain.GenderFeminine {
		t.Errorf("lexical: %+v", item.Lexical)
	}

	calls := ann.AnalyzeSelectionCalls()
	if len(calls) != 1 || calls[0].Selected != "Mesures" || calls[0].ContextMoqParam != article {
		t.Errorf("model call: %+v", calls)
	}
}

func TestAnalyzeSelection_NotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), selectionAnnotator(`{"word": "chat"}`), testLimits)

	item, err := svc.AnalyzeSelection(context.Background(), SelectionInput{
		SelectedText: "chat",
		Content:      article,
		Context:      "Le chat dort.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil, got %+v", item)
	}
}

func TestAnalyzeSelection_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input SelectionInput
	}{
		{"empty selection", SelectionInput{SelectedText: "  ", Content: article}},
		{"empty content", SelectionInput{SelectedText: "mesures"}},
		{"long selection", SelectionInput{SelectedText: strings.Repeat("a", 51), Content: article}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(newTestLogger(), &annotatorMock{}, testLimits)
			_, err := svc.AnalyzeSelection(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAnalyzeSelection_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), selectionAnnotator(`"mesures"`), testLimits)

	_, err := svc.AnalyzeSelection(context.Background(), SelectionInput{SelectedText: "mesures", Content: article})
	if !errors.Is(err, domain.ErrUpstreamMalformed) {
		t.Fatalf("expected ErrUpstreamMalformed, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// LatestAnalysis
// ---------------------------------------------------------------------------

func TestLatestAnalysis(t *testing.T) {
	t.Parallel()

	articleID := uuid.New()

	t.Run("persistence disabled", func(t *testing.T) {
		t.Parallel()

		svc := NewService(newTestLogger(), &annotatorMock{}, testLimits)
		_, err := svc.LatestAnalysis(context.Background(), articleID, domain.LevelB1)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		svc := NewService(newTestLogger(), &annotatorMock{}, testLimits, WithRepo(&analysisRepoMock{}))
		_, err := svc.LatestAnalysis(context.Background(), uuid.Nil, "Z9")
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || len(ve.Errors) != 2 {
			t.Errorf("expected two field errors, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		want := domain.Analysis{ID: uuid.New(), ArticleID: articleID, Level: domain.LevelC1}
		repo := &analysisRepoMock{
			LatestAnalysisFunc: func(context.Context, uuid.UUID, domain.CEFRLevel) (domain.Analysis, error) {
				return want, nil
			},
		}
		svc := NewService(newTestLogger(), &annotatorMock{}, testLimits, WithRepo(repo))

		got, err := svc.LatestAnalysis(context.Background(), articleID, domain.LevelC1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != want.ID {
			t.Errorf("ID: got %v, want %v", got.ID, want.ID)
		}
		if c := repo.LatestAnalysisCalls(); len(c) != 1 || c[0].Level != domain.LevelC1 {
			t.Errorf("repo calls: %+v", c)
		}
	})

	t.Run("not stored", func(t *testing.T) {
		t.Parallel()

		repo := &analysisRepoMock{
			LatestAnalysisFunc: func(context.Context, uuid.UUID, domain.CEFRLevel) (domain.Analysis, error) {
				return domain.Analysis{}, fmt.Errorf("analysis x: %w", domain.ErrNotFound)
			},
		}
		svc := NewService(newTestLogger(), &annotatorMock{}, testLimits, WithRepo(repo))

		_, err := svc.LatestAnalysis(context.Background(), articleID, domain.LevelA1)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Render
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), fixedAnnotator(samplePayload), testLimits)
	out, err := svc.Analyze(context.Background(), AnalyzeInput{Content: article, Level: domain.LevelB1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := out.Result.Items()

	t.Run("words at B1", func(t *testing.T) {
		t.Parallel()

		segs, err := svc.Render(RenderInput{
			Content:  article,
			Items:    items,
			Levels:   []domain.CEFRLevel{domain.LevelB1},
			Category: domain.FilterWord,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var highlighted []string
		var text string
		for _, s := range segs {
			text += s.Text
			if s.Highlighted() {
				highlighted = append(highlighted, s.Text)
			}
		}
		if text != out.Result.Content {
			t.Errorf("segments do not tile the text: %q", text)
		}
		if len(highlighted) != 2 || highlighted[0] != "gouvernement" || highlighted[1] != "mesures" {
			t.Errorf("highlights: got %q", highlighted)
		}
	})

	t.Run("no levels selects nothing", func(t *testing.T) {
		t.Parallel()

		segs, err := svc.Render(RenderInput{Content: article, Items: items, Category: domain.FilterAll})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range segs {
			if s.Highlighted() {
				t.Errorf("unexpected highlight %q", s.Text)
			}
		}
	})

	t.Run("items are not modified", func(t *testing.T) {
		t.Parallel()

		before := *items[0].Span
		_, _ = svc.Render(RenderInput{Content: article, Items: items, Levels: domain.AllLevels, Category: domain.FilterAll})
		if *items[0].Span != before {
			t.Error("render mutated a span")
		}
	})

	t.Run("invalid filters", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Render(RenderInput{Content: article, Levels: []domain.CEFRLevel{"B3"}, Category: "noun"})
		var ve *domain.ValidationError
		if !errors.As(err, &ve) || len(ve.Errors) != 2 {
			t.Errorf("expected two field errors, got %v", err)
		}
	})
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	base := cacheKey("anthropic", "claude", domain.LevelB1, "texte")
	if base != cacheKey("anthropic", "claude", domain.LevelB1, "texte") {
		t.Error("cache key is not deterministic")
	}
	if base == cacheKey("gemini", "claude", domain.LevelB1, "texte") {
		t.Error("provider must change the key")
	}
	if cacheKey("ab", "c", domain.LevelB1, "") == cacheKey("a", "bc", domain.LevelB1, "") {
		t.Error("parts must be delimited")
	}
}
