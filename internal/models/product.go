package models

import "time"

// Placeholders used when a field could not be resolved or was omitted by the caller.
const (
	NotAvailable          = "Not available"
	NoDescription         = "No description available"
	NoReviews             = "No reviews"
	PurchaseCountNotKnown = "N/A"
)

// TrackedProduct is a product whose price is observed over time.
// PriceHistory is append-only and its last element always equals CurrentPrice.
type TrackedProduct struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	SourceURL      string    `json:"sourceUrl"`
	CurrentPrice   float64   `json:"currentPrice"`
	PriceHistory   []float64 `json:"priceHistory"`
	ReviewsSummary string    `json:"reviewsSummary"`
	PurchaseCount  string    `json:"purchaseCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ExtractedFields is the structured result of one extraction against a product page.
type ExtractedFields struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	CurrentPrice   float64 `json:"currentPrice"`
	ReviewsSummary string  `json:"reviewsSummary"`
	PurchaseCount  string  `json:"purchaseCount"`
}

// NewProduct is the caller-supplied input for tracking a product.
type NewProduct struct {
	Title          string
	Description    string
	SourceURL      string
	CurrentPrice   float64
	ReviewsSummary string
	PurchaseCount  string
}

// FromExtracted builds a NewProduct out of an extraction result for the given URL.
func FromExtracted(sourceURL string, fields ExtractedFields) NewProduct {
	return NewProduct{
		Title:          fields.Title,
		Description:    fields.Description,
		SourceURL:      sourceURL,
		CurrentPrice:   fields.CurrentPrice,
		ReviewsSummary: fields.ReviewsSummary,
		PurchaseCount:  fields.PurchaseCount,
	}
}
