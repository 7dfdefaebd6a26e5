// Package api exposes the price ledger over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/valyala/fasthttp"
)

type baseHandler struct {
	adapter *Adapter
	log     *slog.Logger
}

func newBaseHandler(adapter *Adapter, log *slog.Logger) baseHandler {
	if adapter == nil {
		adapter = NewAdapter(0)
	}
	return baseHandler{adapter: adapter, log: log}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to encode response", "error", err)
		ctx.Error(`{"success":false,"message":"failed to encode response"}`, http.StatusInternalServerError)
		ctx.Response.Header.SetContentType("application/json")
		return
	}

	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data any) {
	h.respondJSON(ctx, status, NewSuccess(data))
}

// respondError writes err with the status of its kind. fallback is the message for
// failures that carry no caller-facing message of their own.
func (h baseHandler) respondError(reqCtx context.Context, ctx *fasthttp.RequestCtx, err error, fallback string) {
	status, message := mapError(err, fallback)

	log := h.log.With("request_id", RequestIDFrom(reqCtx), "status", status, "kind", models.KindOf(err))
	if status >= http.StatusInternalServerError {
		log.ErrorContext(reqCtx, "Request failed", "path", string(ctx.Path()), "error", err)
	} else {
		log.InfoContext(reqCtx, "Request rejected", "path", string(ctx.Path()), "error", err)
	}

	h.respondJSON(ctx, status, NewError(message, err))
}

func mapError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, models.ErrDuplicateSource):
		return http.StatusConflict, "Product is already tracked"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// decodeBody unmarshals a JSON request body. Empty bodies decode into the zero value.
func decodeBody(ctx *fasthttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return models.NewValidationError([]models.Violation{{
			Code:    models.ViolationInvalidBody,
			Field:   "body",
			Message: "request body must be valid JSON: " + err.Error(),
		}})
	}
	return nil
}
