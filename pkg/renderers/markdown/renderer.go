// Package markdown renders the leaderboard as a GitHub-flavoured Markdown
// table, right-aligning every column.
package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

// EmptyCell fills every column of the placeholder row written for an empty
// table.
const EmptyCell = "-"

// ScoreHeader labels the score column of the published leaderboard table.
const ScoreHeader = "Combined Score"

type Option func(*Renderer)

// WithHeaderLabels overrides the fallback header labels by column name. A
// translator in RenderOptions still takes precedence.
func WithHeaderLabels(labels map[string]string) Option {
	return func(r *Renderer) {
		for column, label := range labels {
			r.labels[column] = label
		}
	}
}

// WithoutHeading omits the "# title" heading and caption paragraph.
func WithoutHeading() Option {
	return func(r *Renderer) {
		r.heading = false
	}
}

type Renderer struct {
	heading bool
	labels  map[string]string
}

func New(options ...Option) *Renderer {
	r := &Renderer{
		heading: true,
		labels:  map[string]string{leaderboard.FieldScore: ScoreHeader},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "markdown"
}

func (r *Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, tbl table.Table, opts render.RenderOptions) ([]byte, error) {
	if tbl.Body == nil {
		return nil, fmt.Errorf("markdown renderer: %w", leaderboard.ErrMissingTarget)
	}

	columns := tbl.Columns
	if len(columns) == 0 {
		columns = leaderboard.Columns
	}

	var b strings.Builder
	if r.heading {
		fmt.Fprintf(&b, "# %s\n\n", opts.TitleOrDefault())
		if caption := render.CaptionText(opts.Caption); caption != "" {
			fmt.Fprintf(&b, "%s\n\n", caption)
		}
		if opts.Stale {
			b.WriteString("_Showing the last available results._\n\n")
		}
	}

	writeRow(&b, render.HeadersWithLabels(columns, opts, r.labels))
	align := make([]string, len(columns))
	for i := range align {
		align[i] = "---:"
	}
	b.WriteString("|" + strings.Join(align, "|") + "|\n")

	rows := tbl.Body.Rows()
	for _, row := range rows {
		writeRow(&b, row)
	}
	if len(rows) == 0 {
		empty := make([]string, len(columns))
		for i := range empty {
			empty[i] = EmptyCell
		}
		writeRow(&b, empty)
	}
	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(cell))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
