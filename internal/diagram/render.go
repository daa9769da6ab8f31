package diagram

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"

	"github.com/steemit/socialschema/pkg/config"
)

// Renderer turns Graphviz source into a file at path
type Renderer interface {
	Render(ctx context.Context, src []byte, format, path string) error
}

// GraphvizRenderer renders through the embedded Graphviz library. The "dot"
// format writes the source unchanged.
type GraphvizRenderer struct{}

// NewGraphvizRenderer creates a renderer
func NewGraphvizRenderer() *GraphvizRenderer {
	return &GraphvizRenderer{}
}

// Render implements Renderer
func (r *GraphvizRenderer) Render(ctx context.Context, src []byte, format, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var gvFormat graphviz.Format
	switch format {
	case config.FormatDOT:
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	case config.FormatPNG:
		gvFormat = graphviz.PNG
	case config.FormatSVG:
		gvFormat = graphviz.SVG
	default:
		return fmt.Errorf("unsupported diagram format: %q", format)
	}

	graph, err := graphviz.ParseBytes(src)
	if err != nil {
		return fmt.Errorf("failed to parse graph: %w", err)
	}
	defer graph.Close()

	g := graphviz.New()
	defer g.Close()

	if err := g.RenderFilename(graph, gvFormat, path); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}
