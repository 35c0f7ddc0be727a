// Package web embeds the front-end assets: the index page template, the
// graph script and its stylesheet.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/index.html.tmpl
var indexSource string

//go:embed static
var staticFiles embed.FS

var indexTemplate = template.Must(template.New("index").Parse(indexSource))

// Page is the data rendered into the index template.
type Page struct {
	Title      string
	Background string
	// Inline pages carry the document and assets in the page itself and
	// work from the filesystem. Served pages load them over HTTP.
	Inline   bool
	Document template.JS
	Style    template.CSS
	Script   template.JS
}

// RenderIndex writes the index page.
func RenderIndex(w io.Writer, page Page) error {
	if page.Title == "" {
		page.Title = "Lore Graph"
	}
	if err := indexTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	return nil
}

// Static returns the asset tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// InlinePage returns a page with the stylesheet and script inlined and
// the document assigned to the global the script reads first.
func InlinePage(title, background string, document []byte) (Page, error) {
	style, err := fs.ReadFile(staticFiles, "static/style.css")
	if err != nil {
		return Page{}, fmt.Errorf("reading stylesheet: %w", err)
	}
	script, err := fs.ReadFile(staticFiles, "static/app.js")
	if err != nil {
		return Page{}, fmt.Errorf("reading script: %w", err)
	}
	return Page{
		Title:      title,
		Background: background,
		Inline:     true,
		Document:   template.JS(document),
		Style:      template.CSS(style),
		Script:     template.JS(script),
	}, nil
}
