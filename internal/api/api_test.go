package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/Houeta/price-ledger/internal/api"
	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/pkg/clock"
	"github.com/Houeta/price-ledger/internal/services/listing"
	"github.com/Houeta/price-ledger/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fixture struct {
	handler   fasthttp.RequestHandler
	tracker   *mocks.Tracker
	rechecker *mocks.Rechecker
	lister    *mocks.Lister
	pinger    *mocks.Pinger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tracker:   mocks.NewTracker(t),
		rechecker: mocks.NewRechecker(t),
		lister:    mocks.NewLister(t),
		pinger:    mocks.NewPinger(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := api.NewAdapter(time.Second)
	clk := clock.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	f.handler = api.NewRouter(api.Handlers{
		Products: api.NewProductHandler(f.tracker, f.rechecker, f.lister, adapter, logger),
		Health:   api.NewHealthHandler(f.pinger, clk, adapter, logger),
	}, logger)

	return f
}

func (f *fixture) do(method, uri, body string, headers ...string) *fasthttp.RequestCtx {
	req := fasthttp.AcquireRequest()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(req, nil, nil)
	f.handler(&ctx)
	fasthttp.ReleaseRequest(req)

	return &ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out), string(ctx.Response.Body()))
	return out
}

func TestFetchDetails(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.On("FetchDetails", mock.Anything, "https://www.flipkart.com/item/p1").Return(&models.ExtractedFields{
			Title:          "Phone",
			Description:    "Big screen",
			CurrentPrice:   999,
			ReviewsSummary: "4.4",
			PurchaseCount:  "10K+",
		}, nil).Once()

		ctx := f.do(http.MethodPost, "/api/products/fetch-details", `{"url":"https://www.flipkart.com/item/p1"}`)

		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, true, out["success"])
		data := out["data"].(map[string]any)
		assert.Equal(t, "Phone", data["title"])
		assert.InDelta(t, 999.0, data["currentPrice"], 0)
		assert.Equal(t, "10K+", data["purchaseCount"])
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newFixture(t)

		ctx := f.do(http.MethodPost, "/api/products/fetch-details", `{"url":`)

		require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "VALIDATION", out["code"])
	})

	t.Run("foreign domain", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.On("FetchDetails", mock.Anything, "https://example.com/x").Return(nil,
			models.NewValidationError([]models.Violation{{
				Code: models.ViolationInvalidSource, Field: "url", Message: "URL must be from flipkart.com",
			}})).Once()

		ctx := f.do(http.MethodPost, "/api/products/fetch-details", `{"url":"https://example.com/x"}`)

		require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
		out := decode(t, ctx)
		errs := out["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "INVALID_SOURCE", errs[0].(map[string]any)["code"])
	})

	t.Run("blocked page", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.On("FetchDetails", mock.Anything, "https://www.flipkart.com/item/p1").
			Return(nil, models.NewError(models.KindExtractionBlocked, "page shows a bot challenge")).Once()

		ctx := f.do(http.MethodPost, "/api/products/fetch-details", `{"url":"https://www.flipkart.com/item/p1"}`)

		require.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, "Failed to fetch product details", out["message"])
		assert.Equal(t, "EXTRACTION_BLOCKED", out["code"])
		assert.Contains(t, out["error"], "bot challenge")
	})
}

func TestAdd(t *testing.T) {
	t.Run("numeric string price is accepted", func(t *testing.T) {
		f := newFixture(t)
		created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		f.tracker.On("Track", mock.Anything, models.NewProduct{
			Title:        "Phone",
			Description:  "Big screen",
			SourceURL:    "https://www.flipkart.com/item/p1",
			CurrentPrice: 999,
		}).Return(&models.TrackedProduct{
			ID:           "p1",
			Title:        "Phone",
			SourceURL:    "https://www.flipkart.com/item/p1",
			CurrentPrice: 999,
			PriceHistory: []float64{999},
			CreatedAt:    created,
			UpdatedAt:    created,
		}, nil).Once()

		ctx := f.do(http.MethodPost, "/api/products/add",
			`{"title":"Phone","description":"Big screen","url":"https://www.flipkart.com/item/p1","currentPrice":"999"}`)

		require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
		data := decode(t, ctx)["data"].(map[string]any)
		assert.Equal(t, "p1", data["id"])
		assert.Equal(t, []any{999.0}, data["priceHistory"])
		assert.Equal(t, "2026-05-01T12:00:00Z", data["createdAt"])
	})

	t.Run("duplicate source", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.On("Track", mock.Anything, mock.Anything).
			Return(nil, models.NewError(models.KindDuplicateSource, "already tracked")).Once()

		ctx := f.do(http.MethodPost, "/api/products/add",
			`{"title":"Phone","url":"https://www.flipkart.com/item/p1","currentPrice":999}`)

		require.Equal(t, http.StatusConflict, ctx.Response.StatusCode())
		assert.Equal(t, "DUPLICATE_SOURCE", decode(t, ctx)["code"])
	})

	t.Run("non numeric price", func(t *testing.T) {
		f := newFixture(t)

		ctx := f.do(http.MethodPost, "/api/products/add",
			`{"title":"Phone","url":"https://www.flipkart.com/item/p1","currentPrice":"cheap"}`)

		require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	})

	t.Run("persistence failure", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.On("Track", mock.Anything, mock.Anything).
			Return(nil, models.WrapError(models.KindPersistence, "insert failed", assert.AnError)).Once()

		ctx := f.do(http.MethodPost, "/api/products/add",
			`{"title":"Phone","url":"https://www.flipkart.com/item/p1","currentPrice":999}`)

		require.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, "Failed to add product to database", out["message"])
		assert.Equal(t, "PERSISTENCE", out["code"])
		assert.Equal(t, "persistence failure", out["error"])
		assert.NotContains(t, string(ctx.Response.Body()), "insert failed")
		assert.NotContains(t, string(ctx.Response.Body()), assert.AnError.Error())
	})
}

func TestList(t *testing.T) {
	t.Run("page and limit are forwarded", func(t *testing.T) {
		f := newFixture(t)
		f.lister.On("List", mock.Anything, 2, 10).Return(&listing.Page{
			Items: []models.TrackedProduct{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}},
			Count: 5, Total: 15, Pages: 2, Page: 2, PageSize: 10,
		}, nil).Once()

		ctx := f.do(http.MethodGet, "/api/products?page=2&limit=10", "")

		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, true, out["success"])
		assert.InDelta(t, 5.0, out["count"], 0)
		assert.InDelta(t, 15.0, out["total"], 0)
		assert.InDelta(t, 2.0, out["pages"], 0)
		assert.Len(t, out["data"], 5)
	})

	t.Run("missing or garbage params select defaults", func(t *testing.T) {
		f := newFixture(t)
		f.lister.On("List", mock.Anything, 0, 0).Return(&listing.Page{
			Items: []models.TrackedProduct{}, Page: 1, PageSize: 10,
		}, nil).Once()

		ctx := f.do(http.MethodGet, "/api/products?page=abc", "")

		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		assert.JSONEq(t, `{"success":true,"count":0,"total":0,"pages":0,"data":[]}`, string(ctx.Response.Body()))
	})

	t.Run("negative page", func(t *testing.T) {
		f := newFixture(t)
		f.lister.On("List", mock.Anything, -1, 0).Return(nil,
			models.NewValidationError([]models.Violation{{Code: models.ViolationInvalidPage, Field: "page"}})).Once()

		ctx := f.do(http.MethodGet, "/api/products?page=-1", "")

		require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	})
}

func TestRecheck(t *testing.T) {
	t.Run("body is ignored and price re-extracted", func(t *testing.T) {
		f := newFixture(t)
		f.rechecker.On("Recheck", mock.Anything, "p1").Return(&models.TrackedProduct{
			ID: "p1", CurrentPrice: 849, PriceHistory: []float64{999, 849},
		}, nil).Once()

		ctx := f.do(http.MethodPut, "/api/products/recheck/p1", `{"newPrice":1}`)

		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		data := decode(t, ctx)["data"].(map[string]any)
		assert.InDelta(t, 849.0, data["currentPrice"], 0)
		assert.Equal(t, []any{999.0, 849.0}, data["priceHistory"])
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.rechecker.On("Recheck", mock.Anything, "nope").
			Return(nil, models.NewError(models.KindNotFound, "product nope not found")).Once()

		ctx := f.do(http.MethodPut, "/api/products/recheck/nope", "")

		require.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
		assert.Equal(t, "Product not found", decode(t, ctx)["message"])
	})

	t.Run("extraction timeout", func(t *testing.T) {
		f := newFixture(t)
		f.rechecker.On("Recheck", mock.Anything, "p1").
			Return(nil, models.NewError(models.KindExtractionTimeout, "navigation timed out")).Once()

		ctx := f.do(http.MethodPut, "/api/products/recheck/p1", "")

		require.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, "Failed to update product price", out["message"])
		assert.Equal(t, "EXTRACTION_TIMEOUT", out["code"])
	})
}

func TestHealth(t *testing.T) {
	t.Run("storage up", func(t *testing.T) {
		f := newFixture(t)
		f.pinger.On("Ping", mock.Anything).Return(nil).Once()

		ctx := f.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		data := decode(t, ctx)["data"].(map[string]any)
		assert.Equal(t, "up", data["storage"])
		assert.Equal(t, "2026-05-01T12:00:00Z", data["timestamp"])
	})

	t.Run("storage down", func(t *testing.T) {
		f := newFixture(t)
		f.pinger.On("Ping", mock.Anything).Return(assert.AnError).Once()

		ctx := f.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
		out := decode(t, ctx)
		assert.Equal(t, "DEGRADED", out["code"])
		assert.Equal(t, "down", out["data"].(map[string]any)["storage"])
	})
}

func TestCrossCutting(t *testing.T) {
	t.Run("preflight", func(t *testing.T) {
		f := newFixture(t)

		ctx := f.do(http.MethodOptions, "/api/products/add", "")

		assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
		assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		f := newFixture(t)
		f.pinger.On("Ping", mock.Anything).Return(nil).Once()

		ctx := f.do(http.MethodGet, "/health", "", api.HeaderRequestID, "req-42")

		assert.Equal(t, "req-42", string(ctx.Response.Header.Peek(api.HeaderRequestID)))
	})

	t.Run("request id is generated", func(t *testing.T) {
		f := newFixture(t)
		f.pinger.On("Ping", mock.Anything).Return(nil).Once()

		ctx := f.do(http.MethodGet, "/health", "")

		assert.Len(t, string(ctx.Response.Header.Peek(api.HeaderRequestID)), 36)
	})

	t.Run("unknown route", func(t *testing.T) {
		f := newFixture(t)

		ctx := f.do(http.MethodGet, "/api/unknown", "")

		assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
		assert.Equal(t, false, decode(t, ctx)["success"])
	})
}
