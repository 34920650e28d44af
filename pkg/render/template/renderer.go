package template

import (
	"io"
)

// TemplateRenderer is the seam renderers rely on. It mirrors the
// github.com/goliatone/go-template engine contract.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// DialectSource is implemented by engines that expose their configured
// dialects.
type DialectSource interface {
	Dialects() []Dialect
}
