package bot

import (
	"context"

	"github.com/Houeta/price-ledger/internal/models"
	"github.com/Houeta/price-ledger/internal/services/listing"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()
}

// Tracker starts tracking a product page.
type Tracker interface {
	TrackURL(ctx context.Context, url string) (*models.TrackedProduct, error)
}

// Rechecker re-extracts a tracked product.
type Rechecker interface {
	Recheck(ctx context.Context, id string) (*models.TrackedProduct, error)
}

// Lister serves product pages.
type Lister interface {
	List(ctx context.Context, page, limit int) (*listing.Page, error)
}
