package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeRenderer renders pages in headless Chrome. Every Render call launches its own
// browser process with a fresh profile and tears it down before returning.
type ChromeRenderer struct {
	log       *slog.Logger
	userAgent string
	execPath  string
}

// NewChromeRenderer creates a ChromeRenderer. An empty execPath lets chromedp locate Chrome.
func NewChromeRenderer(log *slog.Logger, userAgent, execPath string) *ChromeRenderer {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &ChromeRenderer{log: log, userAgent: userAgent, execPath: execPath}
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.userAgent),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	return opts
}

// Render implements PageRenderer. It waits for the network to go quiet after load.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	const opn = "extractor.ChromeRenderer.Render"

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkAlmostIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	var html string
	err := chromedp.Run(browserCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		// chromedp reports the parent deadline as its own error in some paths.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", opn, ctxErr)
		}
		return "", fmt.Errorf("%s: %w", opn, err)
	}

	r.log.DebugContext(ctx, "Page captured", "op", opn, "url", url)

	return html, nil
}
