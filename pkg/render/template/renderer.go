package template

import (
	"io"
)

// TemplateRenderer executes named templates for the HTML renderer.
// Implementations must autoescape interpolated values. The rendered output is
// returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
