package analysis

import (
	"context"
	"sync"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

var _ annotator = &annotatorMock{}

type annotatorMock struct {
	NameFunc                func() string
	ModelFunc               func() string
	GenerateAnnotationsFunc func(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error)
	AnalyzeSelectionFunc    func(ctx context.Context, selected string, contextMoqParam string) ([]byte, error)

	calls struct {
		GenerateAnnotations []struct {
			Ctx   context.Context
			Text  string
			Level domain.CEFRLevel
		}
		AnalyzeSelection []struct {
			Ctx             context.Context
			Selected        string
			ContextMoqParam string
		}
	}
	lockGenerateAnnotations sync.RWMutex
	lockAnalyzeSelection    sync.RWMutex
}

func (mock *annotatorMock) Name() string {
	if mock.NameFunc == nil {
		return "mock"
	}
	return mock.NameFunc()
}

func (mock *annotatorMock) Model() string {
	if mock.ModelFunc == nil {
		return "mock-model"
	}
	return mock.ModelFunc()
}

func (mock *annotatorMock) GenerateAnnotations(ctx context.Context, text string, level domain.CEFRLevel) ([]byte, error) {
	if mock.GenerateAnnotationsFunc == nil {
		panic("annotatorMock.GenerateAnnotationsFunc: method is nil but annotator.GenerateAnnotations was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Text  string
		Level domain.CEFRLevel
	}{Ctx: ctx, Text: text, Level: level}
	mock.lockGenerateAnnotations.Lock()
	mock.calls.GenerateAnnotations = append(mock.calls.GenerateAnnotations, callInfo)
	mock.lockGenerateAnnotations.Unlock()
	return mock.GenerateAnnotationsFunc(ctx, text, level)
}

func (mock *annotatorMock) GenerateAnnotationsCalls() []struct {
	Ctx   context.Context
	Text  string
	Level domain.CEFRLevel
} {
	mock.lockGenerateAnnotations.RLock()
	calls := mock.calls.GenerateAnnotations
	mock.lockGenerateAnnotations.RUnlock()
	return calls
}

func (mock *annotatorMock) AnalyzeSelection(ctx context.Context, selected string, contextMoqParam string) ([]byte, error) {
	if mock.AnalyzeSelectionFunc == nil {
		panic("annotatorMock.AnalyzeSelectionFunc: method is nil but annotator.AnalyzeSelection was just called")
	}
	callInfo := struct {
		Ctx             context.Context
		Selected        string
		ContextMoqParam string
	}{Ctx: ctx, Selected: selected, ContextMoqParam: contextMoqParam}
	mock.lockAnalyzeSelection.Lock()
	mock.calls.AnalyzeSelection = append(mock.calls.AnalyzeSelection, callInfo)
	mock.lockAnalyzeSelection.Unlock()
	return mock.AnalyzeSelectionFunc(ctx, selected, contextMoqParam)
}

func (mock *annotatorMock) AnalyzeSelectionCalls() []struct {
	Ctx             context.Context
	Selected        string
	ContextMoqParam string
} {
	mock.lockAnalyzeSelection.RLock()
	calls := mock.calls.AnalyzeSelection
	mock.lockAnalyzeSelection.RUnlock()
	return calls
}
