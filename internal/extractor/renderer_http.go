package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Houeta/price-ledger/internal/models"
)

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 10 << 20

// HTTPRenderer fetches pages with a plain HTTP GET. It does not execute scripts,
// so it only suits pages that ship their product data server-side.
type HTTPRenderer struct {
	log       *slog.Logger
	client    *http.Client
	userAgent string
}

// NewHTTPRenderer creates an HTTPRenderer presenting the given user agent.
func NewHTTPRenderer(log *slog.Logger, userAgent string) *HTTPRenderer {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	// A fresh cookie-less client per renderer; requests share no session state.
	return &HTTPRenderer{log: log, client: &http.Client{}, userAgent: userAgent}
}

// Render implements PageRenderer.
func (r *HTTPRenderer) Render(ctx context.Context, rawURL string) (string, error) {
	resp, err := r.getHTMLResponse(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

func (r *HTTPRenderer) getHTMLResponse(ctx context.Context, rawURL string) (*http.Response, error) {
	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	r.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", rawURL, err)
	}

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		res.Body.Close()
		return nil, models.NewError(
			models.KindExtractionBlocked,
			fmt.Sprintf("remote site blocked the request: [%d] %s", res.StatusCode, res.Status),
		)
	default:
		res.Body.Close()
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	r.log.DebugContext(ctx, "Successfully received http response", "status code", res.StatusCode)

	return res, nil
}
