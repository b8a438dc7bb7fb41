package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-leaderboard/internal/config"
	internalLoader "github.com/goliatone/go-leaderboard/internal/loader"
	"github.com/goliatone/go-leaderboard/internal/prompt"
	"github.com/goliatone/go-leaderboard/pkg/pipeline"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

// newPipeline builds the pipeline the commands share from cfg.
func newPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	loader := internalLoader.New(source.NewLoaderOptions(source.WithHTTPFallback(cfg.Timeout)))

	options := []pipeline.Option{
		pipeline.WithLoader(loader),
		pipeline.WithLogger(logger),
		pipeline.WithDefaultRenderer(cfg.Renderer),
	}

	if cfg.ThemeFile != "" {
		data, err := os.ReadFile(cfg.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("read theme file: %w", err)
		}
		manifest, err := render.ParseThemeManifest(data)
		if err != nil {
			return nil, err
		}
		selector, err := render.NewManifestSelector(manifest)
		if err != nil {
			return nil, err
		}
		options = append(options, pipeline.WithThemeSelector(selector))
	}

	p := pipeline.New(options...)
	if _, err := p.Registry().Get(cfg.Renderer); err != nil {
		return nil, err
	}
	return p, nil
}

func renderOptions(cfg *config.Config) render.RenderOptions {
	return render.RenderOptions{
		Title:   cfg.Title,
		Caption: cfg.Caption,
	}
}

func (a *app) promptDriver() prompt.Driver {
	if a.driver == nil {
		a.driver = prompt.NewSurveyDriver()
	}
	return a.driver
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
