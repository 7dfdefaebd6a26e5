package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Houeta/price-ledger/internal/models"
	"gopkg.in/telebot.v4"
)

const listPageSize = 5

const helpText = `Hello! I track product prices.

/track <url> - start tracking a product page
/recheck <id> - fetch the current price of a tracked product
/list [page] - show tracked products`

// startHandler process command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", username(ctx))

	if err := ctx.Send(helpText); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// trackHandler process command /track <url>.
func (b *Bot) trackHandler(ctx telebot.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return b.reply(ctx, "Usage: /track <product url>")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	product, err := b.services.Tracker.TrackURL(reqCtx, args[0])
	if err != nil {
		b.log.Warn("Track command failed", "username", username(ctx), "url", args[0], "error", err)
		return b.reply(ctx, describeError(err))
	}

	return b.reply(ctx, "Now tracking:\n"+formatProduct(product))
}

// recheckHandler process command /recheck <id>.
func (b *Bot) recheckHandler(ctx telebot.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return b.reply(ctx, "Usage: /recheck <product id>")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	product, err := b.services.Rechecker.Recheck(reqCtx, args[0])
	if err != nil {
		b.log.Warn("Recheck command failed", "username", username(ctx), "id", args[0], "error", err)
		return b.reply(ctx, describeError(err))
	}

	return b.reply(ctx, "Price updated:\n"+formatProduct(product))
}

// listHandler process command /list [page].
func (b *Bot) listHandler(ctx telebot.Context) error {
	page := 1
	if args := ctx.Args(); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return b.reply(ctx, "Usage: /list [page number]")
		}
		page = n
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	result, err := b.services.Lister.List(reqCtx, page, listPageSize)
	if err != nil {
		b.log.Error("List command failed", "username", username(ctx), "error", err)
		return b.reply(ctx, describeError(err))
	}

	if result.Count == 0 {
		if result.Total == 0 {
			return b.reply(ctx, "No products are tracked yet.")
		}
		return b.reply(ctx, fmt.Sprintf("Page %d is empty, there are %d page(s).", page, result.Pages))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tracked products, page %d of %d (%d total):\n", page, result.Pages, result.Total)
	for _, p := range result.Items {
		fmt.Fprintf(&sb, "\n%s\n%.2f | id %s\n", p.Title, p.CurrentPrice, p.ID)
	}

	return b.reply(ctx, sb.String())
}

func (b *Bot) reply(ctx telebot.Context, text string) error {
	if err := ctx.Send(text); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func formatProduct(p *models.TrackedProduct) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\nPrice: %.2f", p.Title, p.CurrentPrice)
	if n := len(p.PriceHistory); n > 1 {
		fmt.Fprintf(&sb, " (was %.2f)", p.PriceHistory[n-2])
	}
	fmt.Fprintf(&sb, "\nObservations: %d\nID: %s", len(p.PriceHistory), p.ID)

	return sb.String()
}

func describeError(err error) string {
	switch kind := models.KindOf(err); {
	case kind == models.KindValidation:
		msgs := make([]string, 0)
		for _, v := range models.ViolationsOf(err) {
			msgs = append(msgs, v.Message)
		}
		return "Invalid input: " + strings.Join(msgs, "; ")
	case kind == models.KindNotFound:
		return "Product not found."
	case kind == models.KindDuplicateSource:
		return "This product is already tracked."
	case kind == models.KindExtractionBlocked:
		return "The store refused to serve the page. Try again later."
	case kind == models.KindExtractionTimeout || errors.Is(err, context.DeadlineExceeded):
		return "The product page took too long to load. Try again later."
	case models.IsExtractionFailure(err):
		return "Could not read product details from the page."
	default:
		return "Something went wrong, please try again."
	}
}

func username(ctx telebot.Context) string {
	if sender := ctx.Sender(); sender != nil {
		return sender.Username
	}
	return ""
}
