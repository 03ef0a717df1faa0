package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// SeedArticle inserts an article with unique content and returns it.
func SeedArticle(t *testing.T, pool *pgxpool.Pool) domain.Article {
	t.Helper()

	a := domain.Article{
		ID:          uuid.New(),
		Title:       "Seed",
		Content:     "Le chat dort sur le canapé.",
		ContentHash: "seed-" + uuid.NewString()[:8],
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO articles (id, title, source, content, content_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		a.ID, a.Title, a.Source, a.Content, a.ContentHash,
	).Scan(&a.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: seed article: %v", err)
	}

	return a
}
