package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Houeta/price-ledger/internal/api"
	"github.com/Houeta/price-ledger/internal/bot"
	"github.com/Houeta/price-ledger/internal/config"
	"github.com/Houeta/price-ledger/internal/extractor"
	"github.com/Houeta/price-ledger/internal/pkg/clock"
	"github.com/Houeta/price-ledger/internal/repository"
	"github.com/Houeta/price-ledger/internal/repository/mongodb"
	"github.com/Houeta/price-ledger/internal/repository/sqlite"
	"github.com/Houeta/price-ledger/internal/services/ledger"
	"github.com/Houeta/price-ledger/internal/services/listing"
	"github.com/Houeta/price-ledger/internal/services/recheck"
	"github.com/Houeta/price-ledger/internal/services/tracker"
	"github.com/Houeta/price-ledger/internal/validator"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Application stopped with error", "error", err)
		stop()
		os.Exit(1)
	}

	// Log graceful shutdown completion.
	logger.Info("Application stopped gracefully.")
}

// run wires the components and blocks until ctx is canceled or a component fails.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repo, err := newRepository(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer repo.Close() //nolint:errcheck // Close logs its own failure
	logger.InfoContext(ctx, "Storage ready", "driver", cfg.Storage.Driver)

	clk := clock.NewRealClock()
	v := validator.New(cfg.Extractor.RetailerDomain)

	ext := extractor.New(logger, newRenderer(cfg.Extractor, logger),
		extractor.WithNavigationTimeout(cfg.Extractor.NavigationTimeout),
		extractor.WithRateLimit(cfg.Extractor.Rate, cfg.Extractor.Burst),
	)

	store := ledger.New(logger, repo, v, clk)
	trackerService := tracker.NewService(logger, v, ext, store)
	coordinator := recheck.NewCoordinator(logger, store, ext)
	lister := listing.NewService(logger, store)

	adapter := api.NewAdapter(cfg.HTTP.RequestTimeout)
	server := &fasthttp.Server{
		Handler: api.NewRouter(api.Handlers{
			Products: api.NewProductHandler(trackerService, coordinator, lister, adapter, logger),
			Health:   api.NewHealthHandler(repo, clk, adapter, logger),
		}, logger),
		Name:         "price-ledger",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	var chatBot *bot.Bot
	if cfg.Tg.Enabled() {
		chatBot, err = bot.NewBot(logger, cfg.Tg.Token, cfg.Tg.Timeout, cfg.HTTP.RequestTimeout, bot.Services{
			Tracker:   trackerService,
			Rechecker: coordinator,
			Lister:    lister,
		})
		if err != nil {
			return fmt.Errorf("failed to init bot: %w", err)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.InfoContext(ctx, "HTTP server started", "addr", cfg.HTTP.Addr)
		if serveErr := server.ListenAndServe(cfg.HTTP.Addr); serveErr != nil {
			return fmt.Errorf("http server: %w", serveErr)
		}
		return nil
	})

	if chatBot != nil {
		group.Go(func() error {
			chatBot.Start()
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			chatBot.Stop()
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Shutdown signal received. Stopping application...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if shutdownErr := server.ShutdownWithContext(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("http server shutdown: %w", shutdownErr)
		}
		return nil
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newRepository opens the configured storage backend.
func newRepository(ctx context.Context, cfg config.Storage, logger *slog.Logger) (repository.ProductRepository, error) {
	if cfg.Driver == config.DriverMongo {
		repo, err := mongodb.NewRepository(ctx, logger, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	repo, err := sqlite.NewRepository(ctx, logger, cfg.Path)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// newRenderer picks the page renderer. Headless Chrome is the default.
func newRenderer(cfg config.Extractor, logger *slog.Logger) extractor.PageRenderer {
	if cfg.Renderer == config.RendererHTTP {
		return extractor.NewHTTPRenderer(logger, cfg.UserAgent)
	}
	return extractor.NewChromeRenderer(logger, cfg.UserAgent, cfg.ChromePath)
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log.With(slog.String("app", "price-ledger"))
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
