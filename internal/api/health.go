package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Houeta/price-ledger/internal/pkg/clock"
	"github.com/valyala/fasthttp"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	baseHandler
	storage Pinger
	clock   clock.Clock
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(storage Pinger, clk clock.Clock, adapter *Adapter, log *slog.Logger) *HealthHandler {
	return &HealthHandler{baseHandler: newBaseHandler(adapter, log), storage: storage, clock: clk}
}

// Check pings the storage backend.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payload := map[string]any{
		"timestamp": h.clock.Now().Format(time.RFC3339),
		"storage":   "up",
	}

	if err := h.storage.Ping(reqCtx); err != nil {
		h.log.WarnContext(reqCtx, "Storage ping failed", "request_id", RequestIDFrom(reqCtx), "error", err)
		payload["storage"] = "down"
		h.respondJSON(ctx, http.StatusServiceUnavailable, Envelope{
			Success: false,
			Message: "dependencies unhealthy",
			Code:    "DEGRADED",
			Data:    payload,
		})
		return
	}

	h.respondSuccess(ctx, http.StatusOK, payload)
}
