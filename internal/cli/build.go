package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leaderboard/internal/logging"
	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/renderers/markdown"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

type buildOptions struct {
	csvPath      string
	scoresPath   string
	jsonPath     string
	markdownPath string
}

func newBuildCommand(_ *app) *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build leaderboard.json (and optionally Markdown) from ranked results",
		Long: `Build the leaderboard document from either a rank,score CSV (--csv) or a
file of raw scores, one per line (--scores). Raw scores are sorted
descending, given competition ranks (1, 2, 2, 4), and formatted with eight
decimals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := logging.FromContext(ctx)

			list, err := readResults(opts)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := leaderboard.Encode(&buf, list); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), opts.jsonPath, buf.Bytes()); err != nil {
				return err
			}

			if opts.markdownPath != "" {
				md, err := markdown.New().Render(ctx, table.FromRecords(list), render.RenderOptions{
					Title:   cfg.Title,
					Caption: cfg.Caption,
				})
				if err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), opts.markdownPath, md); err != nil {
					return err
				}
			}

			logger.Info("leaderboard built",
				zap.Int("rows", len(list)),
				zap.String("json", opts.jsonPath),
				zap.String("markdown", opts.markdownPath),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.csvPath, "csv", "", "ranked CSV with rank and score columns")
	flags.StringVar(&opts.scoresPath, "scores", "", "file with one raw score per line")
	flags.StringVar(&opts.jsonPath, "json", "leaderboard.json", "JSON output path (empty for stdout)")
	flags.StringVar(&opts.markdownPath, "markdown", "", "Markdown output path")
	cmd.MarkFlagsMutuallyExclusive("csv", "scores")
	return cmd
}

func readResults(opts *buildOptions) (leaderboard.RecordList, error) {
	switch {
	case opts.csvPath != "":
		return readWith(opts.csvPath, leaderboard.ReadCSV)
	case opts.scoresPath != "":
		return readWith(opts.scoresPath, func(r io.Reader) (leaderboard.RecordList, error) {
			scores, err := leaderboard.ParseScores(r)
			if err != nil {
				return nil, err
			}
			return leaderboard.Rank(scores), nil
		})
	default:
		return nil, errors.New("build needs --csv or --scores")
	}
}

func readWith(path string, read func(io.Reader) (leaderboard.RecordList, error)) (leaderboard.RecordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return read(f)
}
