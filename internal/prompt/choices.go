package prompt

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Choices are the render settings a user can adjust interactively.
type Choices struct {
	Renderer string
	Title    string
	Output   string
}

// Ask walks the user through renderer, title, and output. current supplies
// the defaults; renderers lists the registered renderer names. Overwriting
// an existing output file needs confirmation.
func Ask(ctx context.Context, driver Driver, renderers []string, current Choices) (Choices, error) {
	if driver == nil {
		return current, fmt.Errorf("prompt: driver is nil")
	}
	out := current

	if len(renderers) > 0 {
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      "Renderer",
			Options:      renderers,
			DefaultIndex: indexOf(renderers, current.Renderer),
			Help:         "Output format for the leaderboard table.",
		})
		if err != nil {
			return current, err
		}
		if idx >= 0 && idx < len(renderers) {
			out.Renderer = renderers[idx]
		}
	}

	title, err := driver.Input(ctx, InputConfig{
		Message: "Title",
		Default: current.Title,
	})
	if err != nil {
		return current, err
	}
	out.Title = strings.TrimSpace(title)

	output, err := driver.Input(ctx, InputConfig{
		Message: "Output file (empty for stdout)",
		Default: current.Output,
	})
	if err != nil {
		return current, err
	}
	out.Output = strings.TrimSpace(output)

	if out.Output != "" {
		if _, statErr := os.Stat(out.Output); statErr == nil {
			ok, err := driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("%s exists. Overwrite?", out.Output),
			})
			if err != nil {
				return current, err
			}
			if !ok {
				return current, ErrAborted
			}
		}
	}
	return out, nil
}
