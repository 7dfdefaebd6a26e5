package sqlite_test

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

// newTestDB is a helper function that creates a temporary database for a test.
func newTestDB(t *testing.T) *sqlite.Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if err = repo.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return repo
}

var baseTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newProduct(url string, price float64, created time.Time) *models.TrackedProduct {
	return &models.TrackedProduct{
		Title:          "Phone",
		Description:    models.NoDescription,
		SourceURL:      url,
		CurrentPrice:   price,
		PriceHistory:   []float64{price},
		ReviewsSummary: models.NoReviews,
		PurchaseCount:  models.PurchaseCountNotKnown,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestRepository_Integration_Lifecycle(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	var created *models.TrackedProduct

	t.Run("insert assigns id", func(t *testing.T) {
		var err error
		created, err = repo.Insert(ctx, newProduct("https://www.flipkart.com/item/p1", 999, baseTime))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, []float64{999}, created.PriceHistory)
	})

	t.Run("duplicate source url is rejected", func(t *testing.T) {
		_, err := repo.Insert(ctx, newProduct("https://www.flipkart.com/item/p1", 500, baseTime))
		require.ErrorIs(t, err, models.ErrDuplicateSource)

		_, total, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("get returns stored product", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.SourceURL, got.SourceURL)
		assert.True(t, baseTime.Equal(got.CreatedAt))
		assert.True(t, baseTime.Equal(got.UpdatedAt))
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("append price keeps history and current price in sync", func(t *testing.T) {
		later := baseTime.Add(time.Hour)
		updated, err := repo.AppendPrice(ctx, created.ID, 849, later)
		require.NoError(t, err)

		assert.Equal(t, []float64{999, 849}, updated.PriceHistory)
		assert.InDelta(t, 849.0, updated.CurrentPrice, 0)
		assert.True(t, later.Equal(updated.UpdatedAt))
		assert.True(t, baseTime.Equal(updated.CreatedAt))
	})

	t.Run("append with an older timestamp never moves updatedAt back", func(t *testing.T) {
		updated, err := repo.AppendPrice(ctx, created.ID, 0, baseTime)
		require.NoError(t, err)

		assert.Equal(t, []float64{999, 849, 0}, updated.PriceHistory)
		assert.True(t, baseTime.Add(time.Hour).Equal(updated.UpdatedAt))
	})

	t.Run("append to unknown id", func(t *testing.T) {
		_, err := repo.AppendPrice(ctx, "missing", 1, baseTime)
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRepository_Integration_ConcurrentAppends(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	created, err := repo.Insert(ctx, newProduct("https://www.flipkart.com/item/c1", 100, baseTime))
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, appendErr := repo.AppendPrice(ctx, created.ID, float64(n+1), baseTime.Add(time.Duration(n)*time.Second))
			assert.NoError(t, appendErr)
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.PriceHistory, writers+1)
	assert.InDelta(t, got.PriceHistory[len(got.PriceHistory)-1], got.CurrentPrice, 0)
}

func TestRepository_Integration_ListPagination(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	for i := range 15 {
		_, err := repo.Insert(ctx, newProduct(
			fmt.Sprintf("https://www.flipkart.com/item/p%d", i),
			float64(100+i),
			baseTime.Add(time.Duration(i)*time.Minute),
		))
		require.NoError(t, err)
	}

	first, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	require.Len(t, first, 10)
	assert.Equal(t, "https://www.flipkart.com/item/p14", first[0].SourceURL)

	second, _, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, "https://www.flipkart.com/item/p0", second[4].SourceURL)

	again, _, err := repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, second, again)

	empty, _, err := repo.List(ctx, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

// newMockedRepo creates a repository with a mocked database connection for testing failures.
func newMockedRepo(t *testing.T) (*sqlite.Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := sqlite.NewForTest(mockDB)

	t.Cleanup(func() { mockDB.Close() })

	return repo, mock
}

var productCols = []string{
	"id", "title", "description", "source_url", "current_price", "price_history",
	"reviews_summary", "purchase_count", "created_at", "updated_at",
}

func TestRepository_Insert_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_exec", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO products").WillReturnError(assert.AnError)

		_, err := repo.Insert(ctx, newProduct("https://www.flipkart.com/item/p1", 1, baseTime))

		require.ErrorIs(t, err, models.ErrPersistence)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to insert product")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps caller supplied id", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT INTO products").
			WithArgs("fixed-id", "Phone", sqlmock.AnyArg(), "https://www.flipkart.com/item/p1", 1.0, "[1]",
				sqlmock.AnyArg(), sqlmock.AnyArg(), baseTime.UnixNano(), baseTime.UnixNano()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		p := newProduct("https://www.flipkart.com/item/p1", 1, baseTime)
		p.ID = "fixed-id"
		stored, err := repo.Insert(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "fixed-id", stored.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Get_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id").WillReturnError(assert.AnError)

		_, err := repo.Get(ctx, "id-1")

		require.ErrorIs(t, err, models.ErrPersistence)
		assert.Contains(t, err.Error(), "repository.sqlite.Get")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_corrupt_history", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		rows := sqlmock.NewRows(productCols).
			AddRow("id-1", "t", "d", "u", 1.0, "not-json", "r", "p", int64(1), int64(1))
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id").WillReturnRows(rows)

		_, err := repo.Get(ctx, "id-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode price history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_AppendPrice_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_begin_transaction", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin().WillReturnError(assert.AnError)

		_, err := repo.AppendPrice(ctx, "id-1", 10, baseTime)

		require.ErrorIs(t, err, models.ErrPersistence)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_update", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").
			WithArgs(10.0, 10.0, baseTime.UnixNano(), "id-1").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := repo.AppendPrice(ctx, "id-1", 10, baseTime)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to append price")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no_rows_is_not_found", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.AppendPrice(ctx, "id-1", 10, baseTime)

		require.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_commit", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
		rows := sqlmock.NewRows(productCols).
			AddRow("id-1", "t", "d", "u", 10.0, "[5,10]", "r", "p", int64(1), int64(2))
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id").WillReturnRows(rows)
		mock.ExpectCommit().WillReturnError(assert.AnError)

		_, err := repo.AppendPrice(ctx, "id-1", 10, baseTime)

		require.ErrorIs(t, err, models.ErrPersistence)
		assert.Contains(t, err.Error(), "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_List_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_count", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT COUNT").WillReturnError(assert.AnError)

		_, _, err := repo.List(ctx, 0, 10)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to count products")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_rows", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		rows := sqlmock.NewRows(productCols).
			AddRow("id-1", "t", "d", "u", 1.0, "[1]", "r", "p", int64(1), int64(1)).
			RowError(0, assert.AnError)
		mock.ExpectQuery("SELECT (.+) FROM products ORDER BY").WithArgs(10, 0).WillReturnRows(rows)

		_, _, err := repo.List(ctx, 0, 10)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "rows iteration error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
