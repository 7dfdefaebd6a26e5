package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const productColumns = `id, title, description, source_url, current_price, price_history,
	reviews_summary, purchase_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Insert stores a new product. The UNIQUE constraint on source_url rejects duplicates atomically.
func (r *Repository) Insert(ctx context.Context, p *models.TrackedProduct) (*models.TrackedProduct, error) {
	const opn = "repository.sqlite.Insert"

	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.PriceHistory = append([]float64(nil), p.PriceHistory...)

	history, err := json.Marshal(stored.PriceHistory)
	if err != nil {
		return nil, persistenceErr(opn, "failed to encode price history", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Title, stored.Description, stored.SourceURL, stored.CurrentPrice, string(history),
		stored.ReviewsSummary, stored.PurchaseCount,
		stored.CreatedAt.UnixNano(), stored.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", opn, models.WrapError(models.KindDuplicateSource,
				fmt.Sprintf("product with url %s is already tracked", stored.SourceURL), err))
		}
		return nil, persistenceErr(opn, "failed to insert product", err)
	}

	r.log.DebugContext(ctx, "Product inserted", "op", opn, "id", stored.ID)

	return &stored, nil
}

// Get returns a product by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.TrackedProduct, error) {
	const opn = "repository.sqlite.Get"

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", opn, notFound(id))
		}
		return nil, persistenceErr(opn, "failed to get product", err)
	}

	return p, nil
}

// AppendPrice atomically updates the current price and appends it to the history using a transaction.
func (r *Repository) AppendPrice(
	ctx context.Context,
	id string,
	price float64,
	at time.Time,
) (*models.TrackedProduct, error) {
	const opn = "repository.sqlite.AppendPrice"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return nil, persistenceErr(opn, "failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit returns sql.ErrTxDone

	// 2. One statement moves both current_price and price_history, so they never diverge.
	// max() keeps updated_at monotonic even if a caller's clock runs behind.
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET current_price = ?,
			price_history = json_insert(price_history, '$[#]', ?),
			updated_at = max(updated_at, ?)
		WHERE id = ?`,
		price, price, at.UnixNano(), id,
	)
	if err != nil {
		return nil, persistenceErr(opn, "failed to append price", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, persistenceErr(opn, "failed to read affected rows", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", opn, notFound(id))
	}

	// 3. Read back the committed shape inside the same transaction.
	p, err := scanProduct(tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return nil, persistenceErr(opn, "failed to read updated product", err)
	}

	// 4. confirm the transaction.
	if err = tx.Commit(); err != nil {
		return nil, persistenceErr(opn, "failed to commit transaction", err)
	}

	return p, nil
}

// List returns a page of products ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error) {
	const opn = "repository.sqlite.List"

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return nil, 0, persistenceErr(opn, "failed to count products", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, persistenceErr(opn, "failed to get products", err)
	}
	defer rows.Close()

	products := make([]models.TrackedProduct, 0, limit)
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, 0, persistenceErr(opn, "failed to scan product", scanErr)
		}
		products = append(products, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, persistenceErr(opn, "rows iteration error", err)
	}

	return products, total, nil
}

func scanProduct(row rowScanner) (*models.TrackedProduct, error) {
	var (
		p                    models.TrackedProduct
		history              string
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.SourceURL, &p.CurrentPrice, &history,
		&p.ReviewsSummary, &p.PurchaseCount, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal([]byte(history), &p.PriceHistory); err != nil {
		return nil, fmt.Errorf("failed to decode price history: %w", err)
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &p, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func notFound(id string) error {
	return models.NewError(models.KindNotFound, fmt.Sprintf("product %s not found", id))
}

func persistenceErr(opn, msg string, err error) error {
	return models.WrapError(models.KindPersistence, fmt.Sprintf("%s: %s", opn, msg), err)
}
