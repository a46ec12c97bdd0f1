// Package render is the template-rendering sink for generated course files.
// HTML pages go through html/template so that course text is escaped in every context
// (element text, attributes, URLs and inline scripts). PHP, JS and README output uses
// text/template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"strings"
	texttmpl "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// Template names
const (
	SlideTemplate       = "slide.gohtml"
	IndexTemplate       = "index.gohtml"
	CelebrationTemplate = "celebration.gohtml"
	DescriptionTemplate = "description.gohtml"

	ConfigPHPTemplate         = "config.php.tmpl"
	HandlerPHPTemplate        = "handler.php.tmpl"
	HandlerJSTemplate         = "handler.js.tmpl"
	ReadmeCourseTemplate      = "readme_course.md.tmpl"
	ReadmeModuleTemplate      = "readme_module.md.tmpl"
	ReadmeDescriptionTemplate = "readme_description.md.tmpl"
)

// Site holds the external base URLs referenced by generated pages
type Site struct {
	StaticBaseURL   string
	LearningBaseURL string
}

// Renderer renders the embedded templates
type Renderer struct {
	site Site
	html *htmltmpl.Template
	text *texttmpl.Template
}

// New parses the embedded templates
func New(site Site) (*Renderer, error) {
	site.StaticBaseURL = strings.TrimRight(site.StaticBaseURL, "/")
	site.LearningBaseURL = strings.TrimRight(site.LearningBaseURL, "/")

	html, err := htmltmpl.New("html").Option("missingkey=error").ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttmpl.New("text").
		Option("missingkey=error").
		Funcs(texttmpl.FuncMap{"php": phpSingleQuoted}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &Renderer{site: site, html: html, text: text}, nil
}

// Site returns the base URLs the renderer was built with
func (r *Renderer) Site() Site {
	return r.site
}

// HTML renders an HTML page template
func (r *Renderer) HTML(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Text renders a plain text template (PHP, JS, Markdown)
func (r *Renderer) Text(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// phpSingleQuoted escapes s for use inside a single-quoted PHP string
func phpSingleQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
