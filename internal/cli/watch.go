package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leaderboard/internal/logging"
	"github.com/goliatone/go-leaderboard/internal/watch"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

func newWatchCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the local leaderboard document changes",
		Long: `Render once, then watch the local document and render again after every
change. A change that cannot be loaded leaves the previous output in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := GetConfig(ctx)
			logger := logging.FromContext(ctx)

			src, err := cfg.Source()
			if err != nil {
				return err
			}
			if src.Kind() != source.SourceKindFile {
				return fmt.Errorf("watch needs a local document, got %s", src.Location())
			}

			p, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			update := func(ctx context.Context) error {
				result, err := renderOnce(ctx, p, cfg)
				if err != nil {
					return err
				}
				if err := writeOutput(out, cfg.Output, result.Body); err != nil {
					return err
				}
				logger.Info("leaderboard re-rendered",
					zap.Int("rows", p.Table().Body.Len()),
					zap.String("output", cfg.Output),
				)
				return nil
			}

			w, err := watch.New(watch.Config{
				Path:     src.Location(),
				Debounce: cfg.Debounce,
				OnChange: update,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			if err := update(ctx); err != nil {
				logger.Warn("initial render failed", zap.Error(err))
			}
			return w.Run(ctx)
		},
	}
}
