// Package tracker implements the track path: extract fields from a product page and
// create a ledger record from them.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/price-ledger/internal/extractor"
	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/validator"
)

// Creator is the write side of the ledger store used when tracking.
type Creator interface {
	Create(ctx context.Context, in models.NewProduct) (*models.TrackedProduct, error)
}

// Service glues the extractor and the ledger together.
type Service struct {
	log       *slog.Logger
	validator *validator.Validator
	extractor extractor.FieldExtractor
	ledger    Creator
}

// NewService creates a tracker Service.
func NewService(log *slog.Logger, v *validator.Validator, ext extractor.FieldExtractor, ledger Creator) *Service {
	return &Service{log: log, validator: v, extractor: ext, ledger: ledger}
}

// FetchDetails extracts product fields from url without persisting anything.
// URLs outside the retailer domain are rejected before any page is opened.
func (s *Service) FetchDetails(ctx context.Context, url string) (*models.ExtractedFields, error) {
	const opn = "tracker.FetchDetails"

	url = strings.TrimSpace(url)
	if err := s.validator.ValidateSource(url); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	fields, err := s.extractor.Extract(ctx, url)
	if err != nil {
		s.log.WarnContext(ctx, "Extraction failed", "op", opn, "url", url, "kind", models.KindOf(err), "error", err)
		return nil, err
	}

	return fields, nil
}

// Track creates a ledger record from caller supplied fields.
func (s *Service) Track(ctx context.Context, in models.NewProduct) (*models.TrackedProduct, error) {
	return s.ledger.Create(ctx, in)
}

// TrackURL extracts url and tracks the result in one call.
func (s *Service) TrackURL(ctx context.Context, url string) (*models.TrackedProduct, error) {
	url = strings.TrimSpace(url)

	fields, err := s.FetchDetails(ctx, url)
	if err != nil {
		return nil, err
	}

	return s.ledger.Create(ctx, models.FromExtracted(url, *fields))
}
