package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/steemit/socialschema/internal/cache"
	"github.com/steemit/socialschema/internal/diagram"
	"github.com/steemit/socialschema/internal/models"
	"github.com/steemit/socialschema/internal/schema"
	"github.com/steemit/socialschema/pkg/config"
	"github.com/steemit/socialschema/pkg/logging"
	"github.com/steemit/socialschema/pkg/telemetry"
)

// erd writes the entity-relationship diagram of the declared models. It
// needs no database. An optional argument overrides the output path.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		if err := cfg.Diagram.SetOutput(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid output path: %v\n", err)
			os.Exit(1)
		}
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Render cache unavailable, continuing without it", zap.Error(err))
		redisCache = nil
	}
	defer redisCache.Close()

	s, err := schema.Describe(models.All()...)
	if err != nil {
		logger.Error("There was a problem generating the diagram", zap.Error(err))
		return
	}

	// Export logs its own outcome; failure is not an error exit.
	diagram.New(&cfg.Diagram, redisCache).Export(ctx, s, cfg.Diagram.Output)
}
