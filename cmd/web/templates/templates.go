// Package templates renders the console's server-side pages from an
// embedded template set.
package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

//go:embed *.html
var files embed.FS

// templateFuncs defines custom template functions.
var templateFuncs = template.FuncMap{
	"comma":     humanize.Comma,
	"humantime": humanize.Time,
	"json":      toJSON,
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// Renderer implements echo.Renderer over the embedded set. Pages are
// addressed by file name ("home.html").
type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
