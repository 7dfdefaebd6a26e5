// Package listing serves paginated, newest-first reads over the price ledger.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Houeta/price-ledger/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Source is the read side of the ledger store.
type Source interface {
	List(ctx context.Context, offset, limit int) ([]models.TrackedProduct, int64, error)
}

// Page is one page of tracked products.
type Page struct {
	Items    []models.TrackedProduct
	Count    int
	Total    int64
	Pages    int
	Page     int
	PageSize int
}

// Service computes page windows and delegates the read to the store.
type Service struct {
	log    *slog.Logger
	source Source
}

// NewService creates a listing Service.
func NewService(log *slog.Logger, source Source) *Service {
	return &Service{log: log, source: source}
}

// List returns the requested page. Zero values select the defaults, page sizes above
// MaxPageSize are clamped. A page past the end yields no items and no error.
func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	const opn = "listing.List"

	if page < 0 || pageSize < 0 {
		return nil, fmt.Errorf("%s: %w", opn, models.NewValidationError([]models.Violation{{
			Code:    models.ViolationInvalidPage,
			Field:   "page",
			Message: "page and limit must be positive integers",
		}}))
	}
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)

	var (
		items []models.TrackedProduct
		total int64
		err   error
	)
	if page-1 > math.MaxInt/pageSize {
		// The window starts past any addressable offset, only the total is read.
		_, total, err = s.source.List(ctx, 0, 1)
	} else {
		items, total, err = s.source.List(ctx, (page-1)*pageSize, pageSize)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	if items == nil {
		items = []models.TrackedProduct{}
	}

	s.log.DebugContext(ctx, "Listed products", "op", opn, "page", page, "limit", pageSize, "count", len(items))

	return &Page{
		Items:    items,
		Count:    len(items),
		Total:    total,
		Pages:    pageCount(total, pageSize),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func pageCount(total int64, pageSize int) int {
	size := int64(pageSize)
	return int((total + size - 1) / size)
}
