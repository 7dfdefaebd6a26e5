// Package extractor fetches a retailer product page and turns it into structured fields.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DefaultNavigationTimeout bounds page navigation.
const DefaultNavigationTimeout = 30 * time.Second

// DefaultUserAgent is the client identity presented to the retailer.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// FieldExtractor extracts product fields from a page URL.
type FieldExtractor interface {
	Extract(ctx context.Context, url string) (*models.ExtractedFields, error)
}

// PageRenderer loads a URL and returns the rendered document HTML.
type PageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Extractor drives a PageRenderer and applies field rules to the loaded page.
type Extractor struct {
	log        *slog.Logger
	renderer   PageRenderer
	rules      []FieldRule
	signals    []BlockSignal
	limiter    *rate.Limiter
	navTimeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRules replaces the field rules.
func WithRules(rules []FieldRule) Option {
	return func(e *Extractor) { e.rules = rules }
}

// WithBlockSignals replaces the block signals.
func WithBlockSignals(signals []BlockSignal) Option {
	return func(e *Extractor) { e.signals = signals }
}

// WithRateLimit caps how many extractions may start per second. A non-positive rps disables the cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(e *Extractor) {
		if rps <= 0 {
			e.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithNavigationTimeout overrides DefaultNavigationTimeout.
func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.navTimeout = d
		}
	}
}

// New creates an Extractor using the default Flipkart rules.
func New(log *slog.Logger, renderer PageRenderer, opts ...Option) *Extractor {
	e := &Extractor{
		log:        log,
		renderer:   renderer,
		rules:      DefaultRules,
		signals:    DefaultBlockSignals,
		navTimeout: DefaultNavigationTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract loads the page at url and returns its product fields. It never retries.
func (e *Extractor) Extract(ctx context.Context, url string) (*models.ExtractedFields, error) {
	const opn = "extractor.Extract"
	log := e.log.With("op", opn, "url", url)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, models.WrapError(models.KindExtractionTimeout, "extraction slot not acquired", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	defer cancel()

	started := time.Now()
	html, err := e.renderer.Render(navCtx, url)
	if err != nil {
		log.WarnContext(ctx, "Page render failed", "error", err, "elapsed", time.Since(started))
		return nil, classifyRenderError(err)
	}
	log.DebugContext(ctx, "Page rendered", "bytes", len(html), "elapsed", time.Since(started))

	fields, err := e.parse(ctx, html)
	if err != nil {
		log.WarnContext(ctx, "Extraction rejected", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "Product details extracted", "title", fields.Title, "price", fields.CurrentPrice)
	return fields, nil
}

// parse applies block detection and field rules to a rendered page.
func (e *Extractor) parse(ctx context.Context, html string) (*models.ExtractedFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.WrapError(models.KindIncompleteExtraction, "data cannot be parsed as HTML", err)
	}
	doc.Find("script, style, noscript").Remove()

	if sig, blocked := blockedBy(doc, e.signals); blocked {
		return nil, models.NewError(
			models.KindExtractionBlocked,
			fmt.Sprintf("remote site blocked the request (%s contains %q)", sig.Selector, sig.Contains),
		)
	}

	values := make(map[Field]string, len(e.rules))
	for _, rule := range e.rules {
		if v, ok := resolve(doc, rule.Strategies); ok {
			values[rule.Field] = v
		} else {
			e.log.DebugContext(ctx, "Field not found on page", "field", rule.Field)
		}
	}

	fields := &models.ExtractedFields{
		Title:          valueOr(values, FieldTitle, models.NotAvailable),
		Description:    valueOr(values, FieldDescription, models.NotAvailable),
		CurrentPrice:   NormalizePrice(values[FieldPrice]),
		ReviewsSummary: valueOr(values, FieldReviewsSummary, models.NotAvailable),
		PurchaseCount:  valueOr(values, FieldPurchaseCount, models.NotAvailable),
	}

	if _, ok := values[FieldTitle]; !ok || fields.CurrentPrice == 0 {
		return nil, models.NewError(models.KindIncompleteExtraction, "essential product details not found")
	}

	return fields, nil
}

func valueOr(values map[Field]string, f Field, placeholder string) string {
	if v, ok := values[f]; ok {
		return v
	}
	return placeholder
}

func classifyRenderError(err error) error {
	var classified *models.Error
	switch {
	case errors.As(err, &classified):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return models.WrapError(models.KindExtractionTimeout, "page navigation timed out", err)
	default:
		return models.WrapError(models.KindNavigation, "failed to load product page", err)
	}
}
