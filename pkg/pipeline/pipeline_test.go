package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/pipeline"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/source"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

type stubLoader struct {
	payloads []string
	errs     []error
	calls    int
}

func (s *stubLoader) Load(_ context.Context, src source.Source) (source.Document, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return source.Document{}, s.errs[i]
	}
	return source.NewDocument(src, []byte(s.payloads[i]))
}

func rowsOf(tbl table.Table) [][]string {
	out := [][]string{}
	for _, row := range tbl.Body.Rows() {
		out = append(out, []string(row))
	}
	return out
}

func TestRefresh_PopulatesAndReplaces(t *testing.T) {
	loader := &stubLoader{payloads: []string{
		`[{"rank":1,"score":100},{"rank":2,"score":90}]`,
		`[{"rank":1,"score":0}]`,
		`[]`,
	}}
	p := pipeline.New(pipeline.WithLoader(loader))
	src := source.SourceFromFile("leaderboard.json")

	want := [][][]string{
		{{"1", "100"}, {"2", "90"}},
		{{"1", ""}},
		{},
	}
	for i, expected := range want {
		if _, err := p.Refresh(context.Background(), src); err != nil {
			t.Fatalf("refresh %d: %v", i, err)
		}
		if diff := cmp.Diff(expected, rowsOf(p.Table())); diff != "" {
			t.Fatalf("refresh %d rows mismatch (-want +got):\n%s", i, diff)
		}
	}
	if status := p.Status(); !status.Loaded || status.Rows != 0 || status.LastError != nil {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRefresh_FailureKeepsRows(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	loader := &stubLoader{
		payloads: []string{`[{"rank":1,"score":100}]`, "", `not json`},
		errs:     []error{nil, leaderboard.ErrTransport, nil},
	}
	p := pipeline.New(pipeline.WithLoader(loader), pipeline.WithLogger(zap.New(core)))
	src := source.SourceFromFile("leaderboard.json")

	if _, err := p.Refresh(context.Background(), src); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	_, err := p.Refresh(context.Background(), src)
	if !errors.Is(err, leaderboard.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	_, err = p.Refresh(context.Background(), src)
	if !errors.Is(err, leaderboard.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	if diff := cmp.Diff([][]string{{"1", "100"}}, rowsOf(p.Table())); diff != "" {
		t.Fatalf("rows changed after failure (-want +got):\n%s", diff)
	}
	if got := logs.FilterMessage("leaderboard refresh failed").Len(); got != 2 {
		t.Fatalf("expected 2 failure logs, got %d", got)
	}
	status := p.Status()
	if !status.Loaded || status.Rows != 1 || status.LastError == nil {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRefresh_FetchRejectionOverHTTP(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "gone", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"rank":1,"score":"0.9"},{"rank":2,"score":"0.8"}]`))
	}))
	defer srv.Close()

	src, err := source.Resolve(srv.URL+"/", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p := pipeline.New()
	if _, err := p.Refresh(context.Background(), src); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	fail.Store(true)
	_, err = p.Refresh(context.Background(), src)
	var statusErr *leaderboard.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
	if got := p.Table().Body.Len(); got != 2 {
		t.Fatalf("expected prior 2 rows kept, got %d", got)
	}
}

func TestGenerate_DefaultRenderer(t *testing.T) {
	loader := &stubLoader{payloads: []string{`[{"rank":1,"score":100}]`}}
	p := pipeline.New(pipeline.WithLoader(loader))

	result, err := p.Generate(context.Background(), pipeline.Request{
		Source: source.SourceFromFile("leaderboard.json"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Renderer != "html" || !strings.HasPrefix(result.ContentType, "text/html") {
		t.Fatalf("unexpected renderer %s (%s)", result.Renderer, result.ContentType)
	}
	if !strings.Contains(string(result.Body), "<td>100</td>") {
		t.Fatalf("expected row in output:\n%s", result.Body)
	}
}

func TestGenerate_StaleOnFailure(t *testing.T) {
	loader := &stubLoader{
		payloads: []string{`[{"rank":1,"score":100}]`, ""},
		errs:     []error{nil, leaderboard.ErrTransport},
	}
	p := pipeline.New(pipeline.WithLoader(loader))
	src := source.SourceFromFile("leaderboard.json")

	if _, err := p.Generate(context.Background(), pipeline.Request{Source: src, Renderer: "markdown"}); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	result, err := p.Generate(context.Background(), pipeline.Request{Source: src, Renderer: "markdown", AllowStale: true})
	if err != nil {
		t.Fatalf("stale generate: %v", err)
	}
	if !result.Stale {
		t.Fatalf("expected stale result")
	}
	if !strings.Contains(string(result.Body), "| 1 | 100 |") {
		t.Fatalf("expected prior row in output:\n%s", result.Body)
	}
}

func TestGenerate_FailureWithoutPriorLoad(t *testing.T) {
	loader := &stubLoader{payloads: []string{""}, errs: []error{leaderboard.ErrTransport}}
	p := pipeline.New(pipeline.WithLoader(loader))

	_, err := p.Generate(context.Background(), pipeline.Request{
		Source:     source.SourceFromFile("leaderboard.json"),
		AllowStale: true,
	})
	if !errors.Is(err, leaderboard.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestGenerate_RecordsBypassSharedTable(t *testing.T) {
	p := pipeline.New(pipeline.WithLoader(&stubLoader{}))
	records, err := leaderboard.Decode([]byte(`[{"rank":3,"score":7}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	result, err := p.Generate(context.Background(), pipeline.Request{Records: records, Renderer: "markdown"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(result.Body), "| 3 | 7 |") {
		t.Fatalf("unexpected output:\n%s", result.Body)
	}
	if p.Table().Body.Len() != 0 {
		t.Fatalf("shared table should stay empty")
	}
}

func TestGenerate_UnknownRenderer(t *testing.T) {
	p := pipeline.New(pipeline.WithLoader(&stubLoader{}))
	if _, err := p.Generate(context.Background(), pipeline.Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

type captureRenderer struct {
	options render.RenderOptions
}

func (c *captureRenderer) Name() string        { return "capture" }
func (c *captureRenderer) ContentType() string { return "text/plain" }
func (c *captureRenderer) Render(_ context.Context, _ table.Table, opts render.RenderOptions) ([]byte, error) {
	c.options = opts
	return []byte("ok"), nil
}

func TestGenerate_ResolvesTheme(t *testing.T) {
	selector, err := render.NewManifestSelector(&theme.Manifest{
		Name:   "acme",
		Tokens: map[string]string{"brand": "#123456"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#000000"}},
		},
	})
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	capture := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(capture)

	p := pipeline.New(
		pipeline.WithLoader(&stubLoader{}),
		pipeline.WithRegistry(registry),
		pipeline.WithDefaultRenderer(capture.Name()),
		pipeline.WithThemeSelector(selector),
	)
	if _, err := p.Generate(context.Background(), pipeline.Request{ThemeName: "acme", ThemeVariant: "dark"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.options.Theme == nil || capture.options.Theme.CSSVars["--brand"] != "#000000" {
		t.Fatalf("expected dark theme vars, got %+v", capture.options.Theme)
	}
}

type blockingLoader struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLoader) Load(ctx context.Context, src source.Source) (source.Document, error) {
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
		return source.Document{}, ctx.Err()
	}
	return source.NewDocument(src, []byte(`[{"rank":1,"score":5}]`))
}

func TestStatus_DoesNotWaitForRefresh(t *testing.T) {
	loader := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	p := pipeline.New(pipeline.WithLoader(loader))

	refreshed := make(chan error, 1)
	go func() {
		_, err := p.Refresh(context.Background(), source.SourceFromFile("leaderboard.json"))
		refreshed <- err
	}()
	<-loader.started

	statusc := make(chan pipeline.Status, 1)
	go func() { statusc <- p.Status() }()
	select {
	case status := <-statusc:
		if status.Loaded {
			t.Fatalf("status reported loaded before the refresh finished: %+v", status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Status blocked while a refresh was in flight")
	}

	close(loader.release)
	if err := <-refreshed; err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if status := p.Status(); !status.Loaded || status.Rows != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
}
