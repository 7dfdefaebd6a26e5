package bot

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v4"
)

const defaultCommandTimeout = 60 * time.Second

// Services are the application services the bot commands call into.
type Services struct {
	Tracker   Tracker
	Rechecker Rechecker
	Lister    Lister
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot      API
	log      *slog.Logger
	services Services
	timeout  time.Duration
}

// NewBot authorizes against Telegram and registers the command routes.
// commandTimeout bounds every track, recheck and list call made on behalf of a user.
func NewBot(
	log *slog.Logger,
	token string,
	poller time.Duration,
	commandTimeout time.Duration,
	services Services,
) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	return newBot(bot, log, commandTimeout, services), nil
}

func newBot(api API, log *slog.Logger, commandTimeout time.Duration, services Services) *Bot {
	if commandTimeout <= 0 {
		commandTimeout = defaultCommandTimeout
	}

	botInstance := &Bot{bot: api, log: log, services: services, timeout: commandTimeout}
	botInstance.registerRoutes()

	return botInstance
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/track", b.trackHandler)
	b.bot.Handle("/recheck", b.recheckHandler)
	b.bot.Handle("/list", b.listHandler)
}
