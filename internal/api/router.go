package api

import (
	"log/slog"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// Handlers groups the route handlers.
type Handlers struct {
	Products *ProductHandler
	Health   *HealthHandler
}

// NewRouter mounts the product routes under /api/products and wraps them with CORS.
func NewRouter(handlers Handlers, log *slog.Logger) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	products := r.Group("/api/products")
	products.POST("/fetch-details", handlers.Products.FetchDetails)
	products.POST("/add", handlers.Products.Add)
	products.PUT("/recheck/{id}", handlers.Products.Recheck)
	r.GET("/api/products", handlers.Products.List)

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeStatic(ctx, http.StatusNotFound, `{"success":false,"message":"Route not found"}`)
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, rcv any) {
		log.Error("Recovered from panic", "path", string(ctx.Path()), "panic", rcv)
		writeStatic(ctx, http.StatusInternalServerError, `{"success":false,"message":"Something went wrong!"}`)
	}

	return cors(r.Handler)
}

func cors(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
		ctx.Response.Header.Set("Access-Control-Expose-Headers", HeaderRequestID)

		if ctx.IsOptions() {
			ctx.SetStatusCode(http.StatusNoContent)
			return
		}

		next(ctx)
	}
}

func writeStatic(ctx *fasthttp.RequestCtx, status int, body string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(body)
}
