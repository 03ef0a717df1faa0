package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

var (
	_ payloadCache  = &payloadCacheMock{}
	_ analysisRepo  = &analysisRepoMock{}
	_ matchRecorder = &matchRecorderMock{}
)

type payloadCacheMock struct {
	GetOrLoadFunc func(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error)

	calls struct {
		GetOrLoad []struct {
			Ctx context.Context
			Key string
		}
	}
	lockGetOrLoad sync.RWMutex
}

func (mock *payloadCacheMock) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if mock.GetOrLoadFunc == nil {
		panic("payloadCacheMock.GetOrLoadFunc: method is nil but payloadCache.GetOrLoad was just called")
	}
	mock.lockGetOrLoad.Lock()
	mock.calls.GetOrLoad = append(mock.calls.GetOrLoad, struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key})
	mock.lockGetOrLoad.Unlock()
	return mock.GetOrLoadFunc(ctx, key, load)
}

func (mock *payloadCacheMock) GetOrLoadCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockGetOrLoad.RLock()
	calls := mock.calls.GetOrLoad
	mock.lockGetOrLoad.RUnlock()
	return calls
}

type analysisRepoMock struct {
	SaveFunc           func(ctx context.Context, article domain.Article, a domain.Analysis) (domain.Analysis, error)
	LatestAnalysisFunc func(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (domain.Analysis, error)

	calls struct {
		Save []struct {
			Article  domain.Article
			Analysis domain.Analysis
		}
		LatestAnalysis []struct {
			ArticleID uuid.UUID
			Level     domain.CEFRLevel
		}
	}
	lockSave           sync.RWMutex
	lockLatestAnalysis sync.RWMutex
}

func (mock *analysisRepoMock) Save(ctx context.Context, article domain.Article, a domain.Analysis) (domain.Analysis, error) {
	if mock.SaveFunc == nil {
		panic("analysisRepoMock.SaveFunc: method is nil but analysisRepo.Save was just called")
	}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, struct {
		Article  domain.Article
		Analysis domain.Analysis
	}{Article: article, Analysis: a})
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, article, a)
}

func (mock *analysisRepoMock) SaveCalls() []struct {
	Article  domain.Article
	Analysis domain.Analysis
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

func (mock *analysisRepoMock) LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (domain.Analysis, error) {
	if mock.LatestAnalysisFunc == nil {
		panic("analysisRepoMock.LatestAnalysisFunc: method is nil but analysisRepo.LatestAnalysis was just called")
	}
	mock.lockLatestAnalysis.Lock()
	mock.calls.LatestAnalysis = append(mock.calls.LatestAnalysis, struct {
		ArticleID uuid.UUID
		Level     domain.CEFRLevel
	}{ArticleID: articleID, Level: level})
	mock.lockLatestAnalysis.Unlock()
	return mock.LatestAnalysisFunc(ctx, articleID, level)
}

func (mock *analysisRepoMock) LatestAnalysisCalls() []struct {
	ArticleID uuid.UUID
	Level     domain.CEFRLevel
} {
	mock.lockLatestAnalysis.RLock()
	calls := mock.calls.LatestAnalysis
	mock.lockLatestAnalysis.RUnlock()
	return calls
}

// matchRecorderMock records every call; it has no configurable behaviour.
type matchRecorderMock struct {
	mu        sync.Mutex
	observed  []domain.AnalysisStats
	failures  []error
	modelCall int
}

func (mock *matchRecorderMock) Observe(stats domain.AnalysisStats) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.observed = append(mock.observed, stats)
}

func (mock *matchRecorderMock) UpstreamFailure(provider string, err error) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.failures = append(mock.failures, err)
}

func (mock *matchRecorderMock) ModelCall(provider string, took time.Duration) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	mock.modelCall++
}
