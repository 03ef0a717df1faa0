package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/frenchreader-backend/internal/adapter/postgres"
	"github.com/heartmarshall/frenchreader-backend/internal/adapter/postgres/testhelper"
)

func articleExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("articleExists query: %v", err)
	}
	return exists
}

func insertArticle(ctx context.Context, q postgres.Querier, id uuid.UUID) error {
	_, err := q.Exec(ctx,
		`INSERT INTO articles (id, content, content_hash) VALUES ($1, $2, $3)`,
		id, "Bonjour.", "tx-"+id.String(),
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertArticle(ctx, postgres.QuerierFromCtx(ctx, pool), id)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !articleExists(t, pool, id) {
		t.Fatal("expected article to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if execErr := insertArticle(ctx, postgres.QuerierFromCtx(ctx, pool), id); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if articleExists(t, pool, id) {
		t.Fatal("expected article NOT to exist after rolled-back transaction")
	}
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_Mock_CommitAndRollback(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO articles").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
			return insertArticle(ctx, postgres.QuerierFromCtx(ctx, mock), uuid.New())
		})
		if err != nil {
			t.Fatalf("RunInTx returned error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("rollback", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		sentinel := errors.New("boom")
		err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("begin fails", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		called := false
		err := postgres.NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
			called = true
			return nil
		})
		if err == nil || called {
			t.Fatalf("expected begin error without running fn, got err=%v called=%v", err, called)
		}
	})
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return tm.RunInTx(ctx, func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("nested call must not open a second transaction: %v", err)
	}
}

func TestRunInTx_PanicRollsBack(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	}()

	_ = postgres.NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
		panic("boom")
	})
}
