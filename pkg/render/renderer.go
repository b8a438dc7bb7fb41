package render

import (
	"context"

	"github.com/goliatone/go-leaderboard/pkg/table"
)

// Renderer converts a leaderboard table into a byte representation (HTML,
// Markdown, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tbl table.Table, options RenderOptions) ([]byte, error)
}
