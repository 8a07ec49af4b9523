package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/slok/renderci/internal/model"
)

var htmlTpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{ .Title }}</title>
  </head>
  <body>
    <h1>{{ .Title }}</h1>
    <p>Commit: {{ .Commit.Hash }}</p>
    <p>Commit description: {{ .Commit.Message }}</p>
{{- range .Tasks }}{{ $task := .Name }}{{ range .Jobs }}
    <h2>{{ $task }}</h2>
    <p><img src="{{ .ImageLink }}" /></p>
    <p>{{ .Caption }}</p>
    <p><a href="{{ .LogLink }}">Log</a></p>
    <p>Time cost: {{ .TimeCostSeconds }}</p>
{{- end }}{{ end }}
  </body>
</html>
`))

// HTMLRenderer renders reports as a single self-contained HTML document.
type HTMLRenderer struct{}

// NewHTMLRenderer returns a new HTML renderer.
func NewHTMLRenderer() HTMLRenderer { return HTMLRenderer{} }

// Render writes the report HTML to w. The output only depends on the report,
// jobs are rendered in the order they were appended.
func (HTMLRenderer) Render(w io.Writer, r model.Report) error {
	if err := htmlTpl.Execute(w, r); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	return nil
}
