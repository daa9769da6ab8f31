package db

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/steemit/socialschema/internal/models"
	"github.com/steemit/socialschema/pkg/telemetry"
)

// Migrate creates or updates every table of the schema, including the
// post_tags association table. GORM orders the tables by their foreign keys.
func (d *DB) Migrate(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "db.migrate")
	defer span.End()

	all := models.All()
	span.SetAttributes(attribute.Int("models", len(all)))

	if err := d.WithContext(ctx).AutoMigrate(all...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "auto-migrate failed")
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	d.logger.Info("Schema migrated", zap.Int("models", len(all)))
	return nil
}
