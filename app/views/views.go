// Package views renders the server-side HTML pages. Templates are embedded
// so the binary ships self-contained.
package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/floracart/floracart/pkg/logger"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

// Render writes the named page with the given status and data.
func Render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already out; all we can do is log.
		logger.Error("render template", "template", name, "error", err)
	}
}
