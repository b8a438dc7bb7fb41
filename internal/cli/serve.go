package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leaderboard/internal/logging"
	"github.com/goliatone/go-leaderboard/internal/server"
)

func newServeCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered leaderboard over HTTP",
		Long: `Serve the leaderboard page on --addr. Every page request fetches the
document again; when that fails the last good table is served and marked
stale.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := GetConfig(ctx)
			logger := logging.FromContext(ctx)

			p, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}
			src, err := cfg.Source()
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Pipeline:       p,
				Source:         src,
				Addr:           cfg.Addr,
				Renderer:       cfg.Renderer,
				RenderOptions:  renderOptions(cfg),
				ThemeName:      cfg.Theme,
				ThemeVariant:   cfg.Variant,
				AllowedOrigins: cfg.AllowedOrigins,
				Logger:         logger,
			})
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		},
	}
}
