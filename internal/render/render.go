// Package render turns an assembled report into a print-ready HTML document.
// Pagination is driven entirely by the section hints (atomic regions,
// forced page breaks); no scoring logic lives here.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/safestreets/livability-report/internal/report"
)

//go:embed templates
var templateFS embed.FS

// Renderer holds the parsed report template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded template set. A parse failure is a build
// defect and surfaces at startup.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report.html").Funcs(template.FuncMap{
		"meters": func(v float64) string {
			if report.Unavailable(v) {
				return "—"
			}
			return fmt.Sprintf("%.0f m", v)
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v)
		},
		"barWidth": func(fraction float64) string {
			return fmt.Sprintf("%.1f%%", fraction*100)
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			r, size := utf8.DecodeRuneInString(s)
			return string(unicode.ToUpper(r)) + s[size:]
		},
	}).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML document for one report.
func (r *Renderer) Render(w io.Writer, rep *report.Report) error {
	if err := r.tmpl.Execute(w, rep); err != nil {
		return fmt.Errorf("failed to render report %s: %w", rep.ID, err)
	}
	return nil
}
