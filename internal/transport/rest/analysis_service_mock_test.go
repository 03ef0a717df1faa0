package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/align"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
	"github.com/heartmarshall/frenchreader-backend/internal/service/analysis"
)

// analysisServiceMock is a hand-written mock of analysisService.
type analysisServiceMock struct {
	AnalyzeFunc          func(ctx context.Context, input analysis.AnalyzeInput) (*analysis.AnalyzeOutput, error)
	AnalyzeSelectionFunc func(ctx context.Context, input analysis.SelectionInput) (*domain.Annotation, error)
	LatestAnalysisFunc   func(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (*domain.Analysis, error)
	RenderFunc           func(input analysis.RenderInput) ([]align.Segment, error)

	mu               sync.Mutex
	analyzeCalls     []analysis.AnalyzeInput
	selectionCalls   []analysis.SelectionInput
	latestLevelCalls []domain.CEFRLevel
	renderCalls      []analysis.RenderInput
}

func (m *analysisServiceMock) Analyze(ctx context.Context, input analysis.AnalyzeInput) (*analysis.AnalyzeOutput, error) {
	if m.AnalyzeFunc == nil {
		panic("analysisServiceMock.AnalyzeFunc: method is nil but Analyze was just called")
	}
	m.mu.Lock()
	m.analyzeCalls = append(m.analyzeCalls, input)
	m.mu.Unlock()
	return m.AnalyzeFunc(ctx, input)
}

func (m *analysisServiceMock) AnalyzeSelection(ctx context.Context, input analysis.SelectionInput) (*domain.Annotation, error) {
	if m.AnalyzeSelectionFunc == nil {
		panic("analysisServiceMock.AnalyzeSelectionFunc: method is nil but AnalyzeSelection was just called")
	}
	m.mu.Lock()
	m.selectionCalls = append(m.selectionCalls, input)
	m.mu.Unlock()
	return m.AnalyzeSelectionFunc(ctx, input)
}

func (m *analysisServiceMock) LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (*domain.Analysis, error) {
	if m.LatestAnalysisFunc == nil {
		panic("analysisServiceMock.LatestAnalysisFunc: method is nil but LatestAnalysis was just called")
	}
	m.mu.Lock()
	m.latestLevelCalls = append(m.latestLevelCalls, level)
	m.mu.Unlock()
	return m.LatestAnalysisFunc(ctx, articleID, level)
}

func (m *analysisServiceMock) Render(input analysis.RenderInput) ([]align.Segment, error) {
	if m.RenderFunc == nil {
		panic("analysisServiceMock.RenderFunc: method is nil but Render was just called")
	}
	m.mu.Lock()
	m.renderCalls = append(m.renderCalls, input)
	m.mu.Unlock()
	return m.RenderFunc(input)
}
