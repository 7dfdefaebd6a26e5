// Package ledger is the single writer of tracked products. It validates what enters
// storage, builds the initial price history and stamps the record timestamps.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/pkg/clock"
	"github.com/Houeta/price-ledger/internal/repository"
	"github.com/Houeta/price-ledger/internal/validator"
)

// Store is the contract the rest of the application uses to read and mutate the ledger.
type Store interface {
	Create(ctx context.Context, in models.NewProduct) (*models.TrackedProduct, error)
	Get(ctx context.Context, id string) (*models.TrackedProduct, error)
	AppendPrice(ctx context.Context, id string, price float64) (*models.TrackedProduct, error)
	List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error)
}

// Ledger implements Store on top of a ProductRepository.
type Ledger struct {
	log       *slog.Logger
	repo      repository.ProductRepository
	validator *validator.Validator
	clock     clock.Clock
}

// New creates a Ledger.
func New(
	log *slog.Logger,
	repo repository.ProductRepository,
	v *validator.Validator,
	clk clock.Clock,
) *Ledger {
	return &Ledger{log: log, repo: repo, validator: v, clock: clk}
}

// Create validates a new product and persists it with a single-entry history.
// A second product with the same source URL fails with models.ErrDuplicateSource.
func (l *Ledger) Create(ctx context.Context, in models.NewProduct) (*models.TrackedProduct, error) {
	const opn = "ledger.Create"
	log := l.log.With("op", opn)

	in = withDefaults(in)
	history := []float64{in.CurrentPrice}

	if err := l.validator.ValidateNew(validator.Candidate{
		Title:        in.Title,
		SourceURL:    in.SourceURL,
		CurrentPrice: in.CurrentPrice,
		PriceHistory: history,
	}); err != nil {
		log.DebugContext(ctx, "Rejected new product", "url", in.SourceURL, "error", err)
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	now := l.clock.Now()
	product, err := l.repo.Insert(ctx, &models.TrackedProduct{
		Title:          in.Title,
		Description:    in.Description,
		SourceURL:      in.SourceURL,
		CurrentPrice:   in.CurrentPrice,
		PriceHistory:   history,
		ReviewsSummary: in.ReviewsSummary,
		PurchaseCount:  in.PurchaseCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	log.InfoContext(ctx, "Product tracked", "id", product.ID, "url", product.SourceURL, "price", product.CurrentPrice)

	return product, nil
}

// Get returns a product by id.
func (l *Ledger) Get(ctx context.Context, id string) (*models.TrackedProduct, error) {
	const opn = "ledger.Get"

	product, err := l.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	return product, nil
}

// AppendPrice records a newly observed price. Zero is a legitimate observation, negative prices are not.
func (l *Ledger) AppendPrice(ctx context.Context, id string, price float64) (*models.TrackedProduct, error) {
	const opn = "ledger.AppendPrice"
	log := l.log.With("op", opn)

	if err := l.validator.ValidateObservedPrice(price); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	product, err := l.repo.AppendPrice(ctx, strings.TrimSpace(id), price, l.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	log.InfoContext(ctx, "Price appended", "id", product.ID, "price", price, "history_len", len(product.PriceHistory))

	return product, nil
}

// List returns products newest first along with the total count.
func (l *Ledger) List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error) {
	const opn = "ledger.List"

	items, total, err := l.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", opn, err)
	}
	return items, total, nil
}

func withDefaults(in models.NewProduct) models.NewProduct {
	in.Title = strings.TrimSpace(in.Title)
	in.SourceURL = strings.TrimSpace(in.SourceURL)
	if strings.TrimSpace(in.Description) == "" {
		in.Description = models.NoDescription
	}
	if strings.TrimSpace(in.ReviewsSummary) == "" {
		in.ReviewsSummary = models.NoReviews
	}
	if strings.TrimSpace(in.PurchaseCount) == "" {
		in.PurchaseCount = models.PurchaseCountNotKnown
	}
	return in
}
