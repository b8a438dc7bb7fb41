package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, table.Table, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("markdown"))
	registry.MustRegister(namedRenderer("html"))

	if err := registry.Register(namedRenderer("HTML")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected ErrDuplicateRenderer, got %v", err)
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name error")
	}

	if diff := cmp.Diff([]string{"html", "markdown"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("html") || registry.Has("text") {
		t.Fatalf("unexpected Has results")
	}
	_, err := registry.Get("text")
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: html, markdown") {
		t.Fatalf("expected available formats in %q", err)
	}
	if got := registry.MustGet(" Markdown ").Name(); got != "markdown" {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
	if got := registry.MustGet("markdown").Name(); got != "markdown" {
		t.Fatalf("unexpected renderer %q", got)
	}
}
