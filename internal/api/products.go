package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/services/listing"
	"github.com/valyala/fasthttp"
)

// Tracker handles the track path.
type Tracker interface {
	FetchDetails(ctx context.Context, url string) (*models.ExtractedFields, error)
	Track(ctx context.Context, in models.NewProduct) (*models.TrackedProduct, error)
}

// Rechecker re-extracts a tracked product.
type Rechecker interface {
	Recheck(ctx context.Context, id string) (*models.TrackedProduct, error)
}

// Lister serves product pages.
type Lister interface {
	List(ctx context.Context, page, limit int) (*listing.Page, error)
}

// ProductHandler serves the /products routes.
type ProductHandler struct {
	baseHandler
	tracker   Tracker
	rechecker Rechecker
	lister    Lister
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(
	tracker Tracker,
	rechecker Rechecker,
	lister Lister,
	adapter *Adapter,
	log *slog.Logger,
) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(adapter, log),
		tracker:     tracker,
		rechecker:   rechecker,
		lister:      lister,
	}
}

// FetchDetails extracts fields from a product page without storing them.
func (h *ProductHandler) FetchDetails(ctx *fasthttp.RequestCtx) {
	const failed = "Failed to fetch product details"

	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req FetchDetailsRequest
	if err := decodeBody(ctx, &req); err != nil {
		h.respondError(reqCtx, ctx, err, failed)
		return
	}

	fields, err := h.tracker.FetchDetails(reqCtx, req.URL)
	if err != nil {
		h.respondError(reqCtx, ctx, err, failed)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, fields)
}

// Add starts tracking a product from caller supplied fields.
func (h *ProductHandler) Add(ctx *fasthttp.RequestCtx) {
	const failed = "Failed to add product to database"

	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req AddProductRequest
	if err := decodeBody(ctx, &req); err != nil {
		h.respondError(reqCtx, ctx, err, failed)
		return
	}

	product, err := h.tracker.Track(reqCtx, req.NewProduct())
	if err != nil {
		h.respondError(reqCtx, ctx, err, failed)
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, product)
}

// List returns a page of tracked products, newest first.
func (h *ProductHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	args := ctx.QueryArgs()
	page, err := h.lister.List(reqCtx, queryInt(args, "page"), queryInt(args, "limit"))
	if err != nil {
		h.respondError(reqCtx, ctx, err, "Failed to fetch products")
		return
	}

	h.respondJSON(ctx, http.StatusOK, ListEnvelope{
		Success: true,
		Count:   page.Count,
		Total:   page.Total,
		Pages:   page.Pages,
		Data:    page.Items,
	})
}

// Recheck re-extracts the product and appends the observed price. The request body is ignored.
func (h *ProductHandler) Recheck(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, _ := ctx.UserValue("id").(string)

	product, err := h.rechecker.Recheck(reqCtx, id)
	if err != nil {
		h.respondError(reqCtx, ctx, err, "Failed to update product price")
		return
	}

	h.respondSuccess(ctx, http.StatusOK, product)
}

// queryInt reads an integer query argument. Missing or non-numeric values yield 0, the default marker.
func queryInt(args *fasthttp.Args, key string) int {
	n, err := strconv.Atoi(string(args.Peek(key)))
	if err != nil {
		return 0
	}
	return n
}
