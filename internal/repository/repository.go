// Package repository defines the persistence contract of the price ledger.
package repository

import (
	"context"
	"time"

	"github.com/Houeta/price-ledger/internal/models"
)

// ProductRepository persists tracked products. Implementations must be safe for
// concurrent use and must enforce source URL uniqueness at write time.
type ProductRepository interface {
	// Insert stores a new product, assigning its ID. It fails with models.ErrDuplicateSource
	// when the source URL is already tracked.
	Insert(ctx context.Context, product *models.TrackedProduct) (*models.TrackedProduct, error)
	// Get returns a product by ID or models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.TrackedProduct, error)
	// AppendPrice sets the current price, appends it to the history and moves updatedAt
	// forward in one atomic update.
	AppendPrice(ctx context.Context, id string, price float64, at time.Time) (*models.TrackedProduct, error)
	// List returns products ordered newest first, plus the total number of products.
	List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the connection.
	Close() error
}
