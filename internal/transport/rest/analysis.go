package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/service/analysis"
)

// analysisService is the subset of analysis.Service used by the handlers.
type analysisService interface {
	Analyze(ctx context.Context, input analysis.AnalyzeInput) (*analysis.AnalyzeOutput, error)
	AnalyzeSelection(ctx context.Context, input analysis.SelectionInput) (*domain.Annotation, error)
	LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (*domain.Analysis, error)
	Render(input analysis.RenderInput) ([]align.Segment, error)
}

// AnalysisHandler serves the article analysis endpoints.
type AnalysisHandler struct {
	svc          analysisService
	log          *slog.Logger
	maxBodyBytes int64
}

// NewAnalysisHandler creates an AnalysisHandler. Request bodies larger than
// maxBodyBytes are rejected; zero means unlimited.
func NewAnalysisHandler(svc analysisService, log *slog.Logger, maxBodyBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		svc:          svc,
		log:          log.With("handler", "analysis"),
		maxBodyBytes: maxBodyBytes,
	}
}

type analyzeRequest struct {
	Content string `json:"content"`
	Level   string `json:"level"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Save    bool   `json:"save"`
}

type analyzeResponse struct {
	domain.AnalysisResult
	ArticleID  *uuid.UUID `json:"articleId,omitempty"`
	AnalysisID *uuid.UUID `json:"analysisId,omitempty"`
}

// Analyze handles POST /api/articles/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	out, err := h.svc.Analyze(r.Context(), analysis.AnalyzeInput{
		Content: req.Content,
		Level:   requestLevel(req.Level),
		Title:   req.Title,
		Source:  req.Source,
		Save:    req.Save,
	})
	if err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		AnalysisResult: out.Result,
		ArticleID:      out.ArticleID,
		AnalysisID:     out.AnalysisID,
	})
}

type selectionRequest struct {
	SelectedText string `json:"selectedText"`
	Content      string `json:"content"`
	Context      string `json:"context"`
}

type selectionResponse struct {
	Word *domain.Annotation `json:"word"`
}

// AnalyzeSelection handles POST /api/articles/analyze-selection. A selection
// that cannot be found in the text yields {"word": null}.
func (h *AnalysisHandler) AnalyzeSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	item, err := h.svc.AnalyzeSelection(r.Context(), analysis.SelectionInput{
		SelectedText: req.SelectedText,
		Content:      req.Content,
		Context:      req.Context,
	})
	if err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, selectionResponse{Word: item})
}

type renderRequest struct {
	Content     string              `json:"content"`
	Words       []domain.Annotation `json:"words"`
	Expressions []domain.Annotation `json:"expressions"`
	Grammar     []domain.Annotation `json:"grammar"`
	Levels      []string            `json:"levels"`
	Category    string              `json:"category"`
}

type renderResponse struct {
	Segments []align.Segment `json:"segments"`
}

// Render handles POST /api/articles/render. Omitted levels select every
// level; an explicit empty list selects nothing. Omitted category means all.
func (h *AnalysisHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	levels := domain.AllLevels
	if req.Levels != nil {
		levels = make([]domain.CEFRLevel, len(req.Levels))
		for i, l := range req.Levels {
			levels[i] = domain.CEFRLevel(strings.ToUpper(strings.TrimSpace(l)))
		}
	}
	category := domain.FilterAll
	if c := strings.TrimSpace(req.Category); c != "" {
		category = domain.CategoryFilter(strings.ToLower(c))
	}

	items := make([]domain.Annotation, 0, len(req.Words)+len(req.Expressions)+len(req.Grammar))
	items = append(items, req.Words...)
	items = append(items, req.Expressions...)
	items = append(items, req.Grammar...)

	segments, err := h.svc.Render(analysis.RenderInput{
		Content:  req.Content,
		Items:    items,
		Levels:   levels,
		Category: category,
	})
	if err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}
	if segments == nil {
		segments = []align.Segment{}
	}

	writeJSON(w, http.StatusOK, renderResponse{Segments: segments})
}

type analysisResponse struct {
	ID        uuid.UUID             `json:"id"`
	ArticleID uuid.UUID             `json:"articleId"`
	Level     domain.CEFRLevel      `json:"level"`
	CreatedAt time.Time             `json:"createdAt"`
	Result    domain.AnalysisResult `json:"result"`
}

// LatestAnalysis handles GET /api/articles/{id}/analysis?level=B1.
func (h *AnalysisHandler) LatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handleError(r.Context(), w, h.log, domain.NewValidationError("id", "must be a UUID"))
		return
	}

	a, err := h.svc.LatestAnalysis(r.Context(), id, requestLevel(r.URL.Query().Get("level")))
	if err != nil {
		handleError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		ID:        a.ID,
		ArticleID: a.ArticleID,
		Level:     a.Level,
		CreatedAt: a.CreatedAt,
		Result:    a.Result,
	})
}

// requestLevel upper-cases a level parameter. An empty value means the
// default level; anything else is left for the service to validate.
func requestLevel(s string) domain.CEFRLevel {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DefaultLevel
	}
	return domain.CEFRLevel(strings.ToUpper(s))
}
