// Package views holds the embedded html templates behind the page and
// component constructors.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").ParseFS(templateFS, "templates/*.html"))

// Lookup returns a named template. It panics on unknown names since the set is
// fixed at build time.
func Lookup(name string) *template.Template {
	t := templates.Lookup(name)
	if t == nil {
		panic("views: unknown template " + name)
	}
	return t
}
