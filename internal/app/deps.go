package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/frenchreader-backend/internal/adapter/postgres"
	analysisrepo "github.com/heartmarshall/frenchreader-backend/internal/adapter/postgres/analysis"
	redisadapter "github.com/heartmarshall/frenchreader-backend/internal/adapter/redis"
	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/internal/metrics"
	"github.com/heartmarshall/frenchreader-backend/internal/service/analysis"
)

// Deps holds the wired application components. Pool and Cache are nil when
// the corresponding backend is not configured.
type Deps struct {
	Pool      *pgxpool.Pool
	Cache     *redisadapter.PayloadCache
	Annotator Annotator
	Metrics   *metrics.Recorder
	Analysis  *analysis.Service

	closers []func()
}

// Build connects the optional backends and wires the analysis service.
// Call Close when done, also after a partial failure.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	d := &Deps{Metrics: metrics.NewRecorder()}

	var opts []analysis.Option
	opts = append(opts, analysis.WithMetrics(d.Metrics))

	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return d, err
		}
		d.Pool = pool
		d.closers = append(d.closers, pool.Close)

		if cfg.Database.AutoMigrate {
			results, err := postgres.Migrate(ctx, pool)
			if err != nil {
				return d, err
			}
			logger.Info("migrations applied", slog.Int("count", len(results)))
		}
		opts = append(opts, analysis.WithRepo(analysisrepo.New(pool)))
	} else {
		logger.Info("database not configured, analyses will not be stored")
	}

	if cfg.Redis.Enabled() {
		client, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return d, err
		}
		d.closers = append(d.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close redis", slog.String("error", err.Error()))
			}
		})
		d.Cache = redisadapter.NewPayloadCache(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL, logger)
		opts = append(opts, analysis.WithCache(d.Cache))
	}

	ann, err := NewAnnotator(cfg.LLM, logger)
	if err != nil {
		return d, fmt.Errorf("annotator: %w", err)
	}
	d.Annotator = ann

	d.Analysis = analysis.NewService(logger, ann, analysis.Limits{
		MinContentLength:   cfg.Analysis.MinContentLength,
		MaxContentLength:   cfg.Analysis.MaxContentLength,
		MaxSelectionLength: cfg.Analysis.MaxSelectionLength,
	}, opts...)

	logger.Info("analysis service ready",
		slog.String("provider", ann.Name()),
		slog.String("model", ann.Model()),
		slog.Bool("persistence", d.Pool != nil),
		slog.Bool("cache", d.Cache != nil),
	)
	return d, nil
}

// Close releases backends in reverse order of creation.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
