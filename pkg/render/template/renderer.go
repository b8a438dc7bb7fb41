package template

import (
	"io"
)

// TemplateRenderer is the seam renderers rely on to execute named templates.
// Globals registered through GlobalContext are visible to every template;
// per-call data shadows them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
