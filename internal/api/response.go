package api

import (
	"github.com/Houeta/price-ledger/internal/models"
)

// Envelope is the response wrapper for single results and errors.
type Envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Code    string             `json:"code,omitempty"`
	Error   string             `json:"error,omitempty"`
	Errors  []models.Violation `json:"errors,omitempty"`
	Data    any                `json:"data,omitempty"`
}

// ListEnvelope is the response wrapper for a page of products. Data is always present.
type ListEnvelope struct {
	Success bool                    `json:"success"`
	Count   int                     `json:"count"`
	Total   int64                   `json:"total"`
	Pages   int                     `json:"pages"`
	Data    []models.TrackedProduct `json:"data"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// NewError returns an error envelope.
func NewError(message string, err error) Envelope {
	env := Envelope{Success: false, Message: message}
	if err != nil {
		env.Code = string(models.KindOf(err))
		env.Error = models.PublicMessage(err)
		env.Errors = models.ViolationsOf(err)
	}
	return env
}
