package diagram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/steemit/socialschema/internal/cache"
	"github.com/steemit/socialschema/internal/schema"
	"github.com/steemit/socialschema/pkg/config"
	"github.com/steemit/socialschema/pkg/logging"
	"github.com/steemit/socialschema/pkg/telemetry"
)

const (
	resultWritten   = "written"
	resultUnchanged = "unchanged"
	resultFailed    = "failed"

	exportsCounter     = "diagram_exports_total"
	exportsDescription = "Number of ER diagram exports by result"
)

// Exporter writes the ER diagram of a schema. It never fails loudly: every
// problem is logged and reported through the boolean result.
type Exporter struct {
	Renderer Renderer
	Format   string

	// Cache, when set, skips renders whose schema digest has not changed
	// since the last successful export to the same path.
	Cache *cache.Cache
	TTL   time.Duration

	Logger  *zap.Logger
	exports metric.Int64Counter
}

// New creates an exporter from the diagram settings. A nil cache disables
// the unchanged-digest skip.
func New(cfg *config.DiagramConfig, c *cache.Cache) *Exporter {
	format := cfg.Format
	if format == "" {
		format = config.FormatPNG
	}
	return &Exporter{
		Renderer: NewGraphvizRenderer(),
		Format:   format,
		Cache:    c,
		TTL:      cfg.CacheTTL,
		Logger:   logging.WithComponent("diagram"),
		exports:  telemetry.Counter(exportsCounter, exportsDescription),
	}
}

// Export renders s to path and reports whether a diagram is in place.
// Errors, including a panicking renderer, are logged and swallowed. A
// zero Exporter renders PNG through Graphviz and logs globally.
func (e *Exporter) Export(ctx context.Context, s *schema.Schema, path string) (ok bool) {
	run := e.withDefaults(path)

	ctx, span := telemetry.StartSpan(ctx, "diagram.export")
	defer span.End()
	span.SetAttributes(
		attribute.String("path", path),
		attribute.String("format", run.Format),
	)

	result := resultFailed
	defer func() {
		if r := recover(); r != nil {
			run.fail(span, fmt.Errorf("panic: %v", r))
			result, ok = resultFailed, false
		}
		run.exports.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}()

	if s == nil {
		run.fail(span, errors.New("no schema to export"))
		return false
	}

	digest := s.Digest() + ":" + run.Format
	key := "erd:" + cache.HashKey(absPath(path))

	if run.unchanged(ctx, key, digest, path) {
		result = resultUnchanged
		run.Logger.Info("Diagram unchanged")
		return true
	}

	if err := run.Renderer.Render(ctx, DOT(s), run.Format, path); err != nil {
		run.fail(span, err)
		return false
	}

	if err := run.Cache.Set(ctx, key, digest, run.TTL); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		run.Logger.Warn("Failed to record diagram digest", zap.Error(err))
	}

	result = resultWritten
	run.Logger.Info("Diagram written",
		zap.Int("tables", len(s.Tables)),
		zap.Int("foreign_keys", len(s.ForeignKeys)),
	)
	return true
}

// withDefaults returns a copy of e for one export, with unset fields
// filled in and the logger carrying the path and format.
func (e *Exporter) withDefaults(path string) *Exporter {
	var run Exporter
	if e != nil {
		run = *e
	}
	if run.exports == nil {
		run.exports = telemetry.Counter(exportsCounter, exportsDescription)
	}
	if run.Renderer == nil {
		run.Renderer = NewGraphvizRenderer()
	}
	if run.Format == "" {
		run.Format = config.FormatPNG
	}
	fields := []zap.Field{zap.String("path", path), zap.String("format", run.Format)}
	if run.Logger == nil {
		run.Logger = logging.WithContext(append(fields, zap.String("component", "diagram"))...)
	} else {
		run.Logger = run.Logger.With(fields...)
	}
	return &run
}

// absPath keys the cache by absolute path, so the same relative name in
// two working directories does not share a digest.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (e *Exporter) unchanged(ctx context.Context, key, digest, path string) bool {
	prev, err := e.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheDisabled) && !errors.Is(err, cache.ErrMiss) {
			e.Logger.Warn("Failed to read diagram digest", zap.Error(err))
		}
		return false
	}
	if prev != digest {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (e *Exporter) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "diagram export failed")
	e.Logger.Error("There was a problem generating the diagram", zap.Error(err))
}
