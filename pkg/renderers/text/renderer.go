// Package text renders the leaderboard as a terminal table.
package text

import (
	"bytes"
	"context"
	"fmt"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

type Option func(*Renderer)

// WithStyle overrides the go-pretty table style. Defaults to StyleLight.
func WithStyle(style prettytable.Style) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

type Renderer struct {
	style prettytable.Style
}

func New(options ...Option) *Renderer {
	r := &Renderer{style: prettytable.StyleLight}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, tbl table.Table, opts render.RenderOptions) ([]byte, error) {
	if tbl.Body == nil {
		return nil, fmt.Errorf("text renderer: %w", leaderboard.ErrMissingTarget)
	}

	columns := tbl.Columns
	if len(columns) == 0 {
		columns = leaderboard.Columns
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, opts.TitleOrDefault())
	if caption := render.CaptionText(opts.Caption); caption != "" {
		fmt.Fprintln(&buf, caption)
	}
	if opts.Stale {
		fmt.Fprintln(&buf, "(stale: showing the last available results)")
	}

	rows := tbl.Body.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(&buf, "(0 rows)")
		return buf.Bytes(), nil
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetStyle(r.style)

	headers := render.Headers(columns, opts)
	header := make(prettytable.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(prettytable.Row, len(row))
		for i, cell := range row {
			out[i] = cell
		}
		t.AppendRow(out)
	}

	t.Render()
	fmt.Fprintf(&buf, "(%d rows)\n", len(rows))
	return buf.Bytes(), nil
}
