// Package leaderboard is the top-level entry point: it fetches a leaderboard
// JSON document and renders it as an HTML table (or Markdown/text).
//
// Quick start:
//
//	src, _ := source.Resolve("https://example.org/docs/", "")
//	html, err := leaderboard.GenerateHTML(ctx, src)
package leaderboard

import (
	"context"

	"github.com/goliatone/go-leaderboard/pkg/pipeline"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/source"
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describes per-request presentation settings.
type RenderOptions = render.RenderOptions

// NewPipeline exposes the pipeline constructor from the top-level module.
func NewPipeline(options ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// GenerateHTML loads src once, bypassing caches, and renders it with the
// html renderer.
func GenerateHTML(ctx context.Context, src source.Source, options ...pipeline.Option) ([]byte, error) {
	return Generate(ctx, src, "html", RenderOptions{}, options...)
}

// Generate loads src and renders it with the named renderer. An empty name
// selects the pipeline default.
func Generate(ctx context.Context, src source.Source, rendererName string, opts RenderOptions, options ...pipeline.Option) ([]byte, error) {
	p := pipeline.New(options...)
	result, err := p.Generate(ctx, pipeline.Request{
		Source:        src,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// WithThemeSelector passes a go-theme selector through to the pipeline.
func WithThemeSelector(selector theme.ThemeSelector) pipeline.Option {
	return pipeline.WithThemeSelector(selector)
}
