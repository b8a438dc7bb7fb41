// Package watch re-runs a callback when a file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

// Config holds configuration for a Watcher.
type Config struct {
	// Path is the file to watch. Its directory is watched so editors that
	// replace the file on save are still seen.
	Path string
	// Debounce coalesces bursts of events. Defaults to 200ms.
	Debounce time.Duration
	// OnChange runs after each debounced burst. Errors are logged and do not
	// stop the watcher.
	OnChange func(ctx context.Context) error
	Logger   *zap.Logger
}

// Watcher owns an fsnotify watcher for a single file.
type Watcher struct {
	cfg     Config
	target  string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// New starts watching cfg.Path. Events are delivered once Run is called.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, errors.New("watch: path is required")
	}
	if cfg.OnChange == nil {
		return nil, errors.New("watch: OnChange is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	target, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(target), err)
	}

	return &Watcher{cfg: cfg, target: target, logger: logger, watcher: fw}, nil
}

// Run blocks until ctx is cancelled, calling OnChange after every debounced
// change to the file. The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("leaderboard file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.cfg.OnChange(ctx); err != nil {
				w.logger.Error("leaderboard refresh after change failed", zap.Error(err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.target
}
