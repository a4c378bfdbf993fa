package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okarv/pricetracker/internal/adapters/discord"
	httpAdapter "github.com/okarv/pricetracker/internal/adapters/http"
	"github.com/okarv/pricetracker/internal/adapters/postgres"
	"github.com/okarv/pricetracker/internal/adapters/scrape"
	"github.com/okarv/pricetracker/internal/config"
	"github.com/okarv/pricetracker/internal/services"
)

func main() {
	// Initialize logger
	logger := initLogger()
	slog.SetDefault(logger)

	logger.Info("starting price tracker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build and start application
	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Start application components
	if err := app.Start(ctx); err != nil {
		logger.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	waitForShutdown(ctx, cancel, app, logger)
}

func initLogger() *slog.Logger {
	logLevel := os.Getenv("LOG_LEVEL")
	logFormat := os.Getenv("LOG_FORMAT")

	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// Application holds all components
type Application struct {
	db         *postgres.DB
	httpServer *httpAdapter.Server
	bot        *discord.Bot
	logger     *slog.Logger
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("building application")

	// 1. Infrastructure Layer - Database
	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// 2. Infrastructure Layer - Repositories
	accountRepo := postgres.NewAccountRepository(db)
	productRepo := postgres.NewProductRepository(db)

	// 3. Infrastructure Layer - Scrape Client
	scrapeOpts := []scrape.ClientOption{
		scrape.WithTimeout(cfg.Scraper.Timeout),
		scrape.WithRetry(cfg.Scraper.MaxRetries, cfg.Scraper.RetryBackoff),
		scrape.WithLogger(logger),
	}
	if cfg.Scraper.Selector != "" {
		scrapeOpts = append(scrapeOpts, scrape.WithSelector(cfg.Scraper.Selector))
	}
	if cfg.Scraper.UserAgent != "" {
		scrapeOpts = append(scrapeOpts, scrape.WithUserAgent(cfg.Scraper.UserAgent))
	}
	scraper := scrape.NewClient(scrapeOpts...)

	// 4. Service Layer
	metrics := services.NewMetrics()

	trackingService := services.NewTracking(
		accountRepo,
		productRepo,
		scraper,
		logger,
	)

	updateService := services.NewUpdate(
		accountRepo,
		productRepo,
		scraper,
		metrics,
		cfg.Scraper.Concurrency,
		logger,
	)

	queryService := services.NewQuery(
		accountRepo,
		productRepo,
		logger,
	)

	// 5. Transport Layer - HTTP Server
	httpServer := httpAdapter.NewServer(
		cfg.Server,
		trackingService,
		updateService,
		queryService,
		metrics,
		logger,
	)

	// 6. Transport Layer - Discord Bot (optional)
	var bot *discord.Bot
	if cfg.Discord.Token != "" {
		bot, err = discord.NewBot(
			cfg.Discord.Token,
			trackingService,
			updateService,
			queryService,
			logger,
			discord.WithChannelID(cfg.Discord.ChannelID),
			discord.WithCommandTimeout(cfg.Discord.CommandTimeout),
		)
		if err != nil {
			db.Close()
			return nil, err
		}
	} else {
		logger.Warn("no discord token configured, chat interface disabled")
	}

	logger.Info("application built successfully")

	return &Application{
		db:         db,
		httpServer: httpServer,
		bot:        bot,
		logger:     logger,
	}, nil
}

func (a *Application) Start(ctx context.Context) error {
	a.logger.Info("starting application components")

	if a.bot != nil {
		if err := a.bot.Start(); err != nil {
			return err
		}
	}

	// Start HTTP server in background (will block until shutdown)
	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("http server error", "error", err)
		}
	}()

	a.logger.Info("application started",
		"http_addr", a.httpServer.Addr(),
		"discord_enabled", a.bot != nil,
	)

	return nil
}

func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop the bot first so no new commands arrive
	if a.bot != nil {
		if err := a.bot.Stop(); err != nil {
			a.logger.Error("failed to stop discord bot", "error", err)
		}
	}

	// Stop HTTP server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", "error", err)
	}

	// Close database connection
	a.db.Close()

	a.logger.Info("application shutdown complete")
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, app *Application, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		app.Shutdown()
	case <-ctx.Done():
		app.Shutdown()
	}
}
