package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/transport/middleware"
)

// RouterDeps carries everything NewRouter wires into the mux.
type RouterDeps struct {
	Analysis    *AnalysisHandler
	Health      *HealthHandler
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	Metrics     http.Handler            // nil disables the metrics endpoint
	MetricsPath string
	CORS        config.CORSConfig
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler with all routes and the middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	limited := func(h http.HandlerFunc) http.Handler {
		if deps.RateLimiter == nil {
			return h
		}
		return deps.RateLimiter.Limit(h)
	}

	mux.Handle("POST /api/articles/analyze", limited(deps.Analysis.Analyze))
	mux.Handle("POST /api/articles/analyze-selection", limited(deps.Analysis.AnalyzeSelection))
	mux.HandleFunc("POST /api/articles/render", deps.Analysis.Render)
	mux.HandleFunc("GET /api/articles/{id}/analysis", deps.Analysis.LatestAnalysis)

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, deps.Metrics)
	}

	return middleware.Chain(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	)(mux)
}
