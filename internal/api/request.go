package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Houeta/price-ledger/internal/models"
)

var errPriceNotNumeric = errors.New("currentPrice must be a number or a numeric string")

// FetchDetailsRequest is the body of POST /products/fetch-details.
type FetchDetailsRequest struct {
	URL string `json:"url"`
}

// AddProductRequest is the body of POST /products/add.
type AddProductRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	CurrentPrice   Price  `json:"currentPrice"`
	ReviewsSummary string `json:"reviewsSummary"`
	PurchaseCount  string `json:"purchaseCount"`
}

// NewProduct converts the request into ledger input.
func (r AddProductRequest) NewProduct() models.NewProduct {
	return models.NewProduct{
		Title:          r.Title,
		Description:    r.Description,
		SourceURL:      r.URL,
		CurrentPrice:   float64(r.CurrentPrice),
		ReviewsSummary: r.ReviewsSummary,
		PurchaseCount:  r.PurchaseCount,
	}
}

// Price accepts a JSON number or a string holding one, e.g. 999 or "999.00".
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Price(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errPriceNotNumeric
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errPriceNotNumeric
	}
	*p = Price(f)

	return nil
}
