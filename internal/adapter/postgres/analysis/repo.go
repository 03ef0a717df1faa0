// Package analysis stores articles and their reconciled analyses in PostgreSQL.
// Articles are deduplicated by content hash; each analysis run appends a row so
// the latest result per (article, level) can be read back.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/frenchreader-backend/internal/adapter/postgres"
	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type analysisRow struct {
	ID        uuid.UUID `db:"id"`
	ArticleID uuid.UUID `db:"article_id"`
	Level     string    `db:"level"`
	Result    []byte    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}

// Repo provides analysis persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
	tx *postgres.TxManager
}

// New creates a new analysis repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db, tx: postgres.NewTxManager(db)}
}

// Save upserts the article by content hash and appends the analysis in one
// transaction. The returned Analysis carries the stored article ID, which
// differs from article.ID when the text was saved before.
func (r *Repo) Save(ctx context.Context, article domain.Article, a domain.Analysis) (domain.Analysis, error) {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("encode analysis result: %w", err)
	}

	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		query, args, err := psql.Insert("articles").
			Columns("id", "title", "source", "content", "content_hash").
			Values(article.ID, article.Title, article.Source, article.Content, article.ContentHash).
			Suffix(`ON CONFLICT (content_hash) DO UPDATE
				SET title = COALESCE(NULLIF(EXCLUDED.title, ''), articles.title),
				    source = COALESCE(NULLIF(EXCLUDED.source, ''), articles.source)
				RETURNING id`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build article upsert: %w", err)
		}
		if err := q.QueryRow(ctx, query, args...).Scan(&a.ArticleID); err != nil {
			return postgres.MapError(err, "article", article.ContentHash)
		}

		query, args, err = psql.Insert("analyses").
			Columns("id", "article_id", "level", "result", "match_rate").
			Values(a.ID, a.ArticleID, string(a.Level), result, a.Result.Stats.MatchRate).
			Suffix("RETURNING created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build analysis insert: %w", err)
		}
		if err := q.QueryRow(ctx, query, args...).Scan(&a.CreatedAt); err != nil {
			return postgres.MapError(err, "analysis", a.ID.String())
		}
		return nil
	})
	if err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// LatestAnalysis returns the most recent analysis of an article at level.
// Returns domain.ErrNotFound if there is none.
func (r *Repo) LatestAnalysis(ctx context.Context, articleID uuid.UUID, level domain.CEFRLevel) (domain.Analysis, error) {
	query, args, err := psql.Select("id", "article_id", "level", "result", "created_at").
		From("analyses").
		Where(sq.Eq{"article_id": articleID, "level": string(level)}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("build analysis select: %w", err)
	}

	var row analysisRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return domain.Analysis{}, postgres.MapError(notFound(err), "analysis", articleID.String()+"/"+string(level))
	}

	out := domain.Analysis{
		ID:        row.ID,
		ArticleID: row.ArticleID,
		Level:     domain.CEFRLevel(row.Level),
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.Result, &out.Result); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis %s: %w", row.ID, err)
	}
	return out, nil
}

// notFound normalizes scany's empty-result error to pgx.ErrNoRows.
func notFound(err error) error {
	if pgxscan.NotFound(err) {
		return pgx.ErrNoRows
	}
	return err
}
