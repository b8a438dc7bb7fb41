package text_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/render"
	"github.com/goliatone/go-leaderboard/pkg/renderers/text"
	"github.com/goliatone/go-leaderboard/pkg/table"
	"github.com/goliatone/go-leaderboard/pkg/testsupport"
)

func TestRenderer_Table(t *testing.T) {
	out, err := text.New().Render(testsupport.Context(), testsupport.Table(t, `[{"rank":1,"score":100},{"rank":2,"score":90}]`), render.RenderOptions{
		Title:   "GNN Challenge",
		Caption: "Macro <b>F1</b>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "GNN Challenge" || lines[1] != "Macro F1" {
		t.Fatalf("unexpected heading lines: %q", lines[:2])
	}
	if lines[len(lines)-1] != "(2 rows)" {
		t.Fatalf("expected row count footer, got %q", lines[len(lines)-1])
	}
	for _, want := range []string{"100", "90", "┌"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, got)
		}
	}
	if idx100, idx90 := strings.Index(got, "100"), strings.Index(got, "90"); idx100 > idx90 {
		t.Fatalf("rows out of order:\n%s", got)
	}
}

func TestRenderer_Empty(t *testing.T) {
	out, err := text.New().Render(testsupport.Context(), testsupport.Table(t, `[]`), render.RenderOptions{Stale: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Leaderboard\n(stale: showing the last available results)\n(0 rows)\n"
	if string(out) != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_MissingBody(t *testing.T) {
	_, err := text.New().Render(testsupport.Context(), table.Table{}, render.RenderOptions{})
	if !errors.Is(err, leaderboard.ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
}
