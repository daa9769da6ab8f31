package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/steemit/socialschema/internal/cache"
	"github.com/steemit/socialschema/internal/db"
	"github.com/steemit/socialschema/internal/diagram"
	"github.com/steemit/socialschema/internal/models"
	"github.com/steemit/socialschema/internal/schema"
	"github.com/steemit/socialschema/pkg/config"
	"github.com/steemit/socialschema/pkg/logging"
	"github.com/steemit/socialschema/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting schema migration", zap.String("driver", cfg.Database.Driver))

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		stop()
		telemetryShutdown()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Migration finished")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	if !cfg.Diagram.OnMigrate {
		return nil
	}

	// The diagram is optional output; a cache or export problem never fails the migration.
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Render cache unavailable, continuing without it", zap.Error(err))
		redisCache = nil
	}
	defer redisCache.Close()

	s, err := schema.Describe(models.All()...)
	if err != nil {
		logger.Error("There was a problem generating the diagram", zap.Error(err))
		return nil
	}
	diagram.New(&cfg.Diagram, redisCache).Export(ctx, s, cfg.Diagram.Output)
	return nil
}
