package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leaderboard/internal/config"
	"github.com/goliatone/go-leaderboard/internal/logging"
	"github.com/goliatone/go-leaderboard/internal/prompt"
	"github.com/goliatone/go-leaderboard/pkg/pipeline"
)

func newRenderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Fetch the leaderboard once and render it",
		Long: `Fetch leaderboard.json (resolved against --base) without caches and render
one row per record with its rank and score. Falsy values (missing, null,
false, 0, "") render as empty cells.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *GetConfig(ctx)
			logger := logging.FromContext(ctx)

			p, err := newPipeline(&cfg, logger)
			if err != nil {
				return err
			}

			if cfg.Interactive {
				choices, err := prompt.Ask(ctx, a.promptDriver(), p.Registry().List(), prompt.Choices{
					Renderer: cfg.Renderer,
					Title:    cfg.Title,
					Output:   cfg.Output,
				})
				if err != nil {
					return err
				}
				cfg.Renderer, cfg.Title, cfg.Output = choices.Renderer, choices.Title, choices.Output
			}

			result, err := renderOnce(ctx, p, &cfg)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), cfg.Output, result.Body); err != nil {
				return err
			}
			logger.Info("leaderboard rendered",
				zap.String("renderer", result.Renderer),
				zap.Int("rows", p.Table().Body.Len()),
				zap.String("output", cfg.Output),
			)
			return nil
		},
	}
}

func renderOnce(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config) (pipeline.Result, error) {
	src, err := cfg.Source()
	if err != nil {
		return pipeline.Result{}, err
	}
	result, err := p.Generate(ctx, pipeline.Request{
		Source:        src,
		Renderer:      cfg.Renderer,
		RenderOptions: renderOptions(cfg),
		ThemeName:     cfg.Theme,
		ThemeVariant:  cfg.Variant,
	})
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("render leaderboard: %w", err)
	}
	return result, nil
}
