package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", leaderboard.ErrTransport, ctx.Err())
	default:
	}

	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", leaderboard.ErrTransport, err)
	}
	return data, nil
}
