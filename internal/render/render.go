package render

import (
	"bytes"
	"embed"
	"fmt"
	"hash/fnv"
	"html/template"
	"io"
	"net/url"

	"dconn.dev/showcase/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Links builds the hrefs behind dropdown options and the toggle area.
// The server and the static export address pages differently.
type Links interface {
	Tag(value string) string
	Menu(filter string, open bool) string
}

// QueryLinks addresses pages with ?tag= and ?menu= on a base path
type QueryLinks struct {
	Base string
}

// Tag links to the grid filtered by value, menu closed
func (l QueryLinks) Tag(value string) string {
	return l.build(value, false)
}

// Menu links to the grid with the dropdown open or closed
func (l QueryLinks) Menu(filter string, open bool) string {
	return l.build(filter, open)
}

func (l QueryLinks) build(filter string, open bool) string {
	base := l.Base
	if base == "" {
		base = "/"
	}
	q := url.Values{}
	if filter != "" {
		q.Set("tag", filter)
	}
	if open {
		q.Set("menu", "open")
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

// PageData is the input to the full page template
type PageData struct {
	Title      string
	Stylesheet string
	Grid       models.Grid
}

// Renderer executes the embedded page and grid templates
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates with link helpers bound to links
func New(links Links) (*Renderer, error) {
	funcs := template.FuncMap{
		"tagURL":  links.Tag,
		"menuURL": links.Menu,
		// DescriptionHTML has already been through the sanitizer
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}

	tmpl, err := template.New("showcase").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes a complete HTML document
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.execute(w, "page", data)
}

// Grid writes only the projects container
func (r *Renderer) Grid(w io.Writer, grid models.Grid) error {
	return r.execute(w, "grid", grid)
}

// execute renders into a buffer first so a template error never leaves half a page
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// FileLinks addresses the flat set of files written by the static export
type FileLinks struct{}

// Tag links to the exported page for value
func (FileLinks) Tag(value string) string {
	return PageFile(value, false)
}

// Menu links to the exported page for filter with the dropdown open or closed
func (FileLinks) Menu(filter string, open bool) string {
	return PageFile(filter, open)
}

// PageFile names the exported file for a filter and dropdown state.
// Tag pages carry a hash of the exact tag, so tags that slugify alike
// ("C" and "C++", or any two non-ASCII tags) never share a file.
func PageFile(filter string, open bool) string {
	name := "index"
	if filter != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(filter))
		name = fmt.Sprintf("tag-%08x", h.Sum32())
		if slug := models.Slugify(filter); slug != "" {
			name = "tag-" + slug + name[len("tag"):]
		}
	}
	if open {
		name += "-menu"
	}
	return name + ".html"
}
