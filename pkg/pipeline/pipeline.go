package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-leaderboard/internal/loader"
	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/renderers/markdown"
	"github.com/goliatone/go-leaderboard/pkg/renderers/text"
	"github.com/goliatone/go-leaderboard/pkg/renderers/vanilla"
	"github.com/goliatone/go-leaderboard/pkg/source"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

const defaultRendererName = "html"

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithLoader injects a custom document loader.
func WithLoader(loader source.Loader) Option {
	return func(p *Pipeline) {
		p.loader = loader
	}
}

// WithRegistry injects a renderer registry. The built-in renderers are only
// registered when no registry is supplied.
func WithRegistry(registry *render.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(p *Pipeline) {
		p.defaultRenderer = name
	}
}

// WithTable shares an existing table with the pipeline. Refresh writes into
// its body.
func WithTable(tbl table.Table) Option {
	return func(p *Pipeline) {
		p.table = tbl
		p.tableSet = true
	}
}

// WithLogger sets the logger used for refresh outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithThemeSelector enables go-theme resolution for Generate requests.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(p *Pipeline) {
		p.themeSelector = selector
	}
}

// Pipeline loads leaderboard documents into a shared table and renders it.
// A Pipeline is safe for concurrent use; refreshes are serialised.
type Pipeline struct {
	loader          source.Loader
	registry        *render.Registry
	defaultRenderer string
	table           table.Table
	tableSet        bool
	logger          *zap.Logger
	themeSelector   theme.ThemeSelector
	initialiseErr   error

	// refreshMu serialises refreshes; statusMu only guards status so Status
	// never waits on an in-flight load.
	refreshMu sync.Mutex
	statusMu  sync.RWMutex
	status    Status
}

// Status reports the outcome of the most recent refresh.
type Status struct {
	// Loaded is true once any refresh has succeeded.
	Loaded bool
	// LastSuccess is the time of the most recent successful refresh.
	LastSuccess time.Time
	// LastError is the error of the most recent refresh, nil when it
	// succeeded.
	LastError error
	// Rows is the number of rows in the table after the most recent
	// successful refresh.
	Rows int
}

// New constructs a Pipeline applying any provided options. Missing
// dependencies get the built-in implementations: an HTTP-capable loader, the
// html, markdown and text renderers, and a fresh table.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.applyDefaults()
	return p
}

func (p *Pipeline) applyDefaults() {
	if p.loader == nil {
		p.loader = internalLoader.New(source.NewLoaderOptions(source.WithDefaultSources()))
	}
	if !p.tableSet {
		p.table = table.New()
	}
	if p.registry == nil {
		p.registry = render.NewRegistry()
		html, err := vanilla.New(vanilla.WithDefaultStyles())
		if err != nil {
			p.initialiseErr = fmt.Errorf("pipeline: default renderer: %w", err)
		} else {
			p.registry.MustRegister(html)
		}
		p.registry.MustRegister(markdown.New())
		p.registry.MustRegister(text.New())
	}
	if p.defaultRenderer == "" {
		p.defaultRenderer = defaultRendererName
	}
}

// Table returns the shared table the pipeline populates.
func (p *Pipeline) Table() table.Table {
	return p.table
}

// Registry returns the renderer registry.
func (p *Pipeline) Registry() *render.Registry {
	return p.registry
}

// Status returns the outcome of the most recent refresh.
func (p *Pipeline) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Fetch loads the raw document behind src.
func (p *Pipeline) Fetch(ctx context.Context, src source.Source) (source.Document, error) {
	if ctx == nil {
		return source.Document{}, errors.New("pipeline: context is required")
	}
	if src == nil {
		return source.Document{}, errors.New("pipeline: source is required")
	}
	doc, err := p.loader.Load(ctx, src)
	if err != nil {
		return source.Document{}, fmt.Errorf("pipeline: load %s: %w", src.Location(), err)
	}
	return doc, nil
}

// Load fetches and decodes the document behind src without touching the
// table.
func (p *Pipeline) Load(ctx context.Context, src source.Source) (leaderboard.RecordList, error) {
	doc, err := p.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	list, err := leaderboard.DecodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("pipeline: decode %s: %w", src.Location(), err)
	}
	return list, nil
}

// Refresh loads src and replaces the table rows with the result. When the
// load fails the table keeps its previous rows and the error is returned.
func (p *Pipeline) Refresh(ctx context.Context, src source.Source) (leaderboard.RecordList, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	list, err := p.Load(ctx, src)
	if err == nil {
		err = table.Populate(p.table.Body, list)
	}
	if err != nil {
		p.statusMu.Lock()
		p.status.LastError = err
		p.statusMu.Unlock()
		p.logger.Warn("leaderboard refresh failed",
			zap.String("source", location(src)),
			zap.Int("kept_rows", p.rowCount()),
			zap.Error(err),
		)
		return nil, err
	}

	p.statusMu.Lock()
	p.status = Status{
		Loaded:      true,
		LastSuccess: time.Now(),
		Rows:        len(list),
	}
	p.statusMu.Unlock()
	p.logger.Info("leaderboard refreshed",
		zap.String("source", src.Location()),
		zap.Int("rows", len(list)),
	)
	return list, nil
}

func (p *Pipeline) rowCount() int {
	if p.table.Body == nil {
		return 0
	}
	return p.table.Body.Len()
}

// Request describes one render.
type Request struct {
	// Source, when set, is refreshed into the shared table before rendering.
	Source source.Source

	// Records bypasses the loader and the shared table: the records are
	// rendered into a fresh table.
	Records leaderboard.RecordList

	// AllowStale renders the previous table, marked stale, when refreshing
	// Source fails after an earlier success.
	AllowStale bool

	// Renderer names the renderer to use. If empty, the pipeline falls back to
	// the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select a go-theme manifest when a selector is
	// configured.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Result is a rendered leaderboard.
type Result struct {
	Body        []byte
	ContentType string
	Renderer    string
	Stale       bool
}

// Generate optionally refreshes the table, then renders it with the requested
// renderer.
func (p *Pipeline) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := p.initialiseErr; err != nil {
		return Result{}, err
	}

	renderer, err := p.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil && p.themeSelector != nil {
		cfg, err := render.ResolveTheme(p.themeSelector, req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Result{}, fmt.Errorf("pipeline: %w", err)
		}
		opts.Theme = cfg
	}

	var tbl table.Table
	switch {
	case req.Records != nil:
		tbl = table.FromRecords(req.Records)
	default:
		if req.Source != nil {
			if _, err := p.Refresh(ctx, req.Source); err != nil {
				if !req.AllowStale || !p.Status().Loaded {
					return Result{}, err
				}
				opts.Stale = true
			}
		}
		tbl = p.table.Snapshot()
	}

	output, err := renderer.Render(ctx, tbl, opts)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: render output: %w", err)
	}

	return Result{
		Body:        output,
		ContentType: renderer.ContentType(),
		Renderer:    renderer.Name(),
		Stale:       opts.Stale,
	}, nil
}

func (p *Pipeline) rendererFor(name string) (render.Renderer, error) {
	if p.registry == nil {
		return nil, errors.New("pipeline: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = p.defaultRenderer
	}

	if target != "" {
		renderer, err := p.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("pipeline: renderer %q: %w", name, err)
		}
	}

	names := p.registry.List()
	if len(names) == 0 {
		return nil, errors.New("pipeline: no renderers registered")
	}

	renderer, err := p.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("pipeline: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func location(src source.Source) string {
	if src == nil {
		return ""
	}
	return src.Location()
}
