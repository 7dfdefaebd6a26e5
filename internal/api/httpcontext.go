package api

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const defaultRequestTimeout = 60 * time.Second

type contextKey string

const (
	keyRequestID  contextKey = "request_id"
	keyRemoteAddr contextKey = "remote_addr"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context bounded by the request timeout.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Adapter{timeout: timeout}
}

// Attach creates a context with the adapter timeout and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := requestID(ctx)
	stdCtx = context.WithValue(stdCtx, keyRequestID, reqID)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, keyRemoteAddr, remoteAddr.String())
	}

	return stdCtx, cancel
}

// RequestIDFrom returns the request id stored by Attach, or an empty string.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(keyRequestID).(string); ok {
		return id
	}
	return ""
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID))); header != "" {
		return header
	}
	return uuid.NewString()
}
