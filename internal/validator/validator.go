// Package validator holds the rules that gate what may enter the price ledger.
package validator

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/Houeta/price-ledger/internal/models"
)

// Candidate is a record about to be written to the ledger.
type Candidate struct {
	Title        string
	SourceURL    string
	CurrentPrice float64
	PriceHistory []float64
}

// Validator checks candidates against the retailer domain it was built for.
type Validator struct {
	domain string
}

// New creates a Validator accepting source URLs on the given retailer domain, e.g. "flipkart.com".
func New(retailerDomain string) *Validator {
	return &Validator{domain: strings.ToLower(strings.TrimSpace(retailerDomain))}
}

// Domain returns the retailer domain the validator accepts.
func (v *Validator) Domain() string {
	return v.domain
}

// ValidateNew checks a record for a newly tracked product. Every rule is evaluated,
// and all broken rules are reported together.
func (v *Validator) ValidateNew(c Candidate) error {
	var violations []models.Violation

	if strings.TrimSpace(c.Title) == "" {
		violations = append(violations, models.Violation{
			Code:    models.ViolationInvalidTitle,
			Field:   "title",
			Message: "title is required",
		})
	}

	if vl := v.checkSource(c.SourceURL); vl != nil {
		violations = append(violations, *vl)
	}

	if !isFinite(c.CurrentPrice) || c.CurrentPrice <= 0 {
		violations = append(violations, models.Violation{
			Code:    models.ViolationInvalidPrice,
			Field:   "currentPrice",
			Message: "price must be a positive number",
		})
	}

	if len(c.PriceHistory) == 0 {
		violations = append(violations, models.Violation{
			Code:    models.ViolationEmptyHistory,
			Field:   "priceHistory",
			Message: "price history must contain at least one entry",
		})
	}

	if len(violations) > 0 {
		return models.NewValidationError(violations)
	}
	return nil
}

// ValidateSource checks only the source URL rule.
func (v *Validator) ValidateSource(rawURL string) error {
	if vl := v.checkSource(rawURL); vl != nil {
		return models.NewValidationError([]models.Violation{*vl})
	}
	return nil
}

// ValidateObservedPrice checks a price observed during a recheck. Zero is allowed.
func (v *Validator) ValidateObservedPrice(price float64) error {
	if !isFinite(price) || price < 0 {
		return models.NewValidationError([]models.Violation{{
			Code:    models.ViolationInvalidPrice,
			Field:   "currentPrice",
			Message: fmt.Sprintf("invalid price value %v", price),
		}})
	}
	return nil
}

func (v *Validator) checkSource(rawURL string) *models.Violation {
	bad := func(msg string) *models.Violation {
		return &models.Violation{Code: models.ViolationInvalidSource, Field: "url", Message: msg}
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return bad("url is required")
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return bad("invalid URL format")
	}

	host := strings.ToLower(u.Hostname())
	if host != v.domain && !strings.HasSuffix(host, "."+v.domain) {
		return bad(fmt.Sprintf("URL must be from %s", v.domain))
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
