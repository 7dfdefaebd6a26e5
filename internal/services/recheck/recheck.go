// Package recheck re-extracts tracked products and appends the observed price to their history.
package recheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Houeta/price-ledger/internal/extractor"
	"github.com/Houeta/price-ledger/internal/models"
)

// State is the position of a product id in the recheck protocol.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateAppending  State = "appending"
	StateFailed     State = "failed"
)

// Ledger is the part of the ledger store the coordinator needs.
type Ledger interface {
	Get(ctx context.Context, id string) (*models.TrackedProduct, error)
	AppendPrice(ctx context.Context, id string, price float64) (*models.TrackedProduct, error)
}

// Interface is implemented by Coordinator.
type Interface interface {
	// Recheck extracts fresh data for a tracked product and appends the observed price.
	Recheck(ctx context.Context, id string) (*models.TrackedProduct, error)
}

// Coordinator runs rechecks. Rechecks of different ids run in parallel;
// a recheck of an id already in flight waits for the first one to finish.
type Coordinator struct {
	log       *slog.Logger
	ledger    Ledger
	extractor extractor.FieldExtractor
	locks     *keyedMutex

	mu     sync.Mutex
	states map[string]State
}

// NewCoordinator creates a new Coordinator instance.
func NewCoordinator(log *slog.Logger, ledger Ledger, ext extractor.FieldExtractor) *Coordinator {
	return &Coordinator{
		log:       log,
		ledger:    ledger,
		extractor: ext,
		locks:     newKeyedMutex(),
		states:    make(map[string]State),
	}
}

// Recheck performs the full recheck protocol for one product.
// Extraction failures are returned unchanged and leave the record untouched.
func (c *Coordinator) Recheck(ctx context.Context, id string) (*models.TrackedProduct, error) {
	const opn = "recheck.Recheck"
	id = strings.TrimSpace(id)
	log := c.log.With("op", opn, "id", id)

	// 1. Wait for any in-flight recheck of the same id.
	unlock, err := c.locks.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, models.WrapError(models.KindExtractionTimeout,
			"gave up waiting for an in-flight recheck", err))
	}
	defer unlock()
	defer c.setState(id, StateIdle)

	// 2. Resolve the source url.
	product, err := c.ledger.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get product: %w", opn, err)
	}

	// 3. Extract fresh fields.
	c.setState(id, StateExtracting)
	log.InfoContext(ctx, "Rechecking product", "url", product.SourceURL)

	fields, err := c.extractor.Extract(ctx, product.SourceURL)
	if err != nil {
		c.setState(id, StateFailed)
		log.WarnContext(ctx, "Recheck extraction failed", "kind", models.KindOf(err), "error", err)
		return nil, err
	}

	// 4. Append the observed price.
	c.setState(id, StateAppending)
	updated, err := c.ledger.AppendPrice(ctx, id, fields.CurrentPrice)
	if err != nil {
		c.setState(id, StateFailed)
		return nil, fmt.Errorf("%s: failed to append price: %w", opn, err)
	}

	log.InfoContext(ctx, "Recheck complete",
		"previous_price", product.CurrentPrice,
		"current_price", updated.CurrentPrice,
		"history_len", len(updated.PriceHistory),
	)

	return updated, nil
}

// Status reports the current protocol state of an id.
func (c *Coordinator) Status(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.states[id]; ok {
		return s
	}
	return StateIdle
}

func (c *Coordinator) setState(id string, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, ok := c.states[id]
	if !ok {
		from = StateIdle
	}
	c.log.Debug("Recheck state transition", "id", id, "from", from, "to", s)

	if s == StateIdle {
		delete(c.states, id)
		return
	}
	c.states[id] = s
}
