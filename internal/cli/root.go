// Package cli provides the leaderboard command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leaderboard/internal/config"
	"github.com/goliatone/go-leaderboard/internal/logging"
	"github.com/goliatone/go-leaderboard/internal/prompt"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

// Version information (set at build time).
var Version = "0.1.0"

type configKey struct{}

// Option customises the root command, mainly for tests.
type Option func(*app)

// WithPromptDriver replaces the terminal prompt used by --interactive.
func WithPromptDriver(driver prompt.Driver) Option {
	return func(a *app) {
		if driver != nil {
			a.driver = driver
		}
	}
}

// WithLogger bypasses logger construction from --verbose.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
		a.loggerFixed = logger != nil
	}
}

type app struct {
	cfgFile     string
	driver      prompt.Driver
	logger      *zap.Logger
	loggerFixed bool
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(options ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Fetch leaderboard.json and render it as a table",
		Long: `leaderboard fetches a leaderboard JSON document, always bypassing caches,
and renders its rank and score columns as an HTML page, Markdown, or a
terminal table. It can also serve the page, watch a local document, and build
the document from a ranked CSV.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			if !a.loggerFixed {
				logger, err := logging.New(cfg.Verbose)
				if err != nil {
					return err
				}
				a.logger = logger
			}
			if cfg.ConfigFile != "" {
				a.logger.Debug("using config file", zap.String("path", cfg.ConfigFile))
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = logging.WithLogger(ctx, a.logger)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./leaderboard.yaml)")
	flags.String("base", config.DefaultBase, "directory or URL the document path is resolved against")
	flags.String("path", source.DefaultPath, "document path relative to --base")
	flags.StringP("renderer", "r", config.DefaultRenderer, "renderer (html|markdown|text)")
	flags.StringP("output", "o", "", "output file (stdout if empty)")
	flags.String("title", "", "page title")
	flags.String("caption", "", "caption shown under the title (inline HTML allowed)")
	flags.Duration("timeout", config.DefaultTimeout, "HTTP request timeout")
	flags.String("addr", config.DefaultAddr, "listen address for serve")
	flags.String("theme", "", "theme name from --theme-file")
	flags.String("variant", "", "theme variant")
	flags.String("theme-file", "", "go-theme manifest (YAML)")
	flags.StringSlice("allowed-origins", nil, "CORS origins allowed by serve (default: any)")
	flags.Duration("debounce", config.DefaultDebounce, "watch debounce interval")
	flags.BoolP("verbose", "v", false, "verbose (debug) logging")
	flags.BoolP("interactive", "i", false, "prompt for renderer, title, and output")

	_ = rootCmd.RegisterFlagCompletionFunc("renderer", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"html", "markdown", "text"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newRenderCommand(a),
		newServeCommand(a),
		newWatchCommand(a),
		newBuildCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Base:     config.DefaultBase,
		Path:     source.DefaultPath,
		Renderer: config.DefaultRenderer,
		Timeout:  config.DefaultTimeout,
		Addr:     config.DefaultAddr,
		Debounce: config.DefaultDebounce,
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leaderboard %s\n", Version)
		},
	}
}
