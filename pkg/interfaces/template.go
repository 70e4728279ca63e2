package interfaces

import "io"

// TemplateRenderer renders named templates or inline template strings. When
// an optional writer is supplied output streams to it; otherwise the rendered
// content is returned as a string.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
