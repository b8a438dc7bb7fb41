// Package vanilla renders the leaderboard table as plain HTML (no client-side
// framework) using embedded pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	rendertemplate "github.com/goliatone/go-leaderboard/pkg/render/template"
	"github.com/goliatone/go-leaderboard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

const (
	pageTemplate = "templates/page.tmpl"
	defaultClass = "leaderboard"
	defaultLang  = "en"

	// DefaultStaleNotice is shown above the table when the page falls back to
	// the last good load.
	DefaultStaleNotice = "Showing the last available results."
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	stylesheets      []string
	inlineDefaults   bool
	fragment         bool
	tableClass       string
	lang             string
	staleNotice      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. The directory
// must contain templates/page.tmpl and takes precedence over WithTemplatesFS.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page head.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineDefaults = true
	}
}

// WithStylesheet links an external stylesheet. May be repeated.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithFragment renders only the <table> element, without the page shell.
func WithFragment() Option {
	return func(cfg *config) {
		cfg.fragment = true
	}
}

// WithTableClass overrides the table's class attribute.
func WithTableClass(class string) Option {
	return func(cfg *config) {
		cfg.tableClass = sanitizeClassList(class)
	}
}

// WithStaleNotice replaces the notice shown when the page serves the last
// good load.
func WithStaleNotice(text string) Option {
	return func(cfg *config) {
		if text = strings.TrimSpace(text); text != "" {
			cfg.staleNotice = text
		}
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang = strings.TrimSpace(lang); lang != "" {
			cfg.lang = lang
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	cfg       config
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		tableClass:  defaultClass,
		lang:        defaultLang,
		staleNotice: DefaultStaleNotice,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		source := gotemplate.WithFS(cfg.templateFS)
		if cfg.templateDir != "" {
			source = gotemplate.WithBaseDir(cfg.templateDir)
		}
		engine, err := gotemplate.New(source, gotemplate.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	globals := map[string]any{
		"lang":         cfg.lang,
		"stale_notice": cfg.staleNotice,
	}
	if err := renderer.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("vanilla renderer: set template globals: %w", err)
	}

	return &Renderer{templates: renderer, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the page. A table without a body fails with
// leaderboard.ErrMissingTarget.
func (r *Renderer) Render(_ context.Context, tbl table.Table, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	data, err := r.viewData(tbl, opts)
	if err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) viewData(tbl table.Table, opts render.RenderOptions) (map[string]any, error) {
	if tbl.Body == nil {
		return nil, fmt.Errorf("vanilla renderer: %w", leaderboard.ErrMissingTarget)
	}

	rows := tbl.Body.Rows()
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string(row))
	}

	id := tbl.ID
	if id == "" {
		id = table.DefaultID
	}

	stylesheets := append([]string(nil), r.cfg.stylesheets...)
	if href := opts.Theme.Stylesheet(); href != "" {
		stylesheets = append(stylesheets, href)
	}

	inline := ""
	if r.cfg.inlineDefaults {
		inline = defaultStylesheet()
	}

	cssVars := cssVarsStyle(opts.Theme.CSSVarList())

	themeName, variant := "", ""
	if opts.Theme != nil {
		themeName, variant = opts.Theme.Theme, opts.Theme.Variant
	}

	return map[string]any{
		"fragment":      r.cfg.fragment,
		"title":         opts.TitleOrDefault(),
		"caption":       render.SanitizeCaption(opts.Caption),
		"stale":         opts.Stale,
		"stylesheets":   stylesheets,
		"inline_styles": inline,
		"css_vars":      cssVars,
		"theme":         themeName,
		"variant":       variant,
		"table_id":      id,
		"table_class":   r.cfg.tableClass,
		"headers":       render.Headers(tbl.Columns, opts),
		"rows":          cells,
		"row_count":     len(cells),
	}, nil
}
