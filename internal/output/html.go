package output

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLPageWriter renders a page as a standalone HTML document.
type HTMLPageWriter struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
}

// NewHTMLPageWriter creates an HTML writer. Entry details are rendered as
// Markdown; raw HTML in details is dropped.
func NewHTMLPageWriter() *HTMLPageWriter {
	w := &HTMLPageWriter{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	w.tmpl = template.Must(template.New("page").Funcs(template.FuncMap{
		"displayDate": formatDate,
		"isoDate":     machineDate,
		"detail":      w.renderDetail,
	}).Parse(pageTemplate))
	return w
}

type htmlPage struct {
	*Page
	Previous htmlLink
	Next     htmlLink
	Pages    []htmlLink
}

type htmlLink struct {
	Label  string
	Href   string // empty when disabled
	Active bool
}

// Write outputs the page as HTML.
func (w *HTMLPageWriter) Write(out io.Writer, page *Page, options Options) error {
	view := htmlPage{Page: page}

	view.Previous = htmlLink{Label: "Previous"}
	if page.Controls.Previous.Enabled {
		view.Previous.Href = options.link(page.Controls.Previous.Page)
	}
	view.Next = htmlLink{Label: "Next"}
	if page.Controls.Next.Enabled {
		view.Next.Href = options.link(page.Controls.Next.Page)
	}
	for _, b := range page.Controls.Pages {
		view.Pages = append(view.Pages, htmlLink{
			Label:  itoa(b.Page),
			Href:   options.link(b.Page),
			Active: b.Active,
		})
	}

	return w.tmpl.Execute(out, view)
}

// renderDetail converts a detail line from Markdown to HTML.
func (w *HTMLPageWriter) renderDetail(detail string) (template.HTML, error) {
	if strings.TrimSpace(detail) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := w.markdown.Convert([]byte(detail), &buf); err != nil {
		return "", err
	}
	// goldmark escapes text and omits raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<meta name="description" content="View the change history for {{.Identity.Name}}">
	<title>{{.Title}}</title>
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; color: #333; }
		h1 { margin-bottom: 0.25rem; }
		.repository { color: #666; margin-top: 0; }
		.entry h4 { margin: 0.25rem 0; }
		.entry time { color: #666; font-size: 0.9rem; }
		hr { border: none; border-top: 1px solid #e0e0e0; margin: 1.5rem 0; }
		.pagination { display: flex; gap: 0.25rem; margin-top: 2rem; flex-wrap: wrap; }
		.pagination_button { padding: 0.35rem 0.75rem; border: 1px solid #e0e0e0; border-radius: 4px; text-decoration: none; color: #0066cc; }
		.pagination_button.active { background: #0066cc; color: white; border-color: #0066cc; }
		.pagination_button.disabled { color: #aaa; cursor: default; }
	</style>
</head>
<body>
	<section>
		<h1>{{.Title}}</h1>
		<p class="repository">View the change history for <code>{{.Identity.Path}}</code></p>
	</section>
	<section class="entries">
	{{- if not .Items}}
		<p class="empty">No changes recorded yet.</p>
	{{- end}}
	{{- range .Items}}
		<article class="entry" id="entry-{{.Index}}">
			{{with isoDate .Entry.Date}}<time datetime="{{.}}">{{else}}<time>{{end}}{{displayDate .Entry.Date}}</time>
			{{- if .Entry.Summary}}
			<h4>{{.Entry.Summary}}</h4>
			{{- end}}
			{{- with .Entry.Detail}}
			<div class="detail">{{detail .}}</div>
			{{- end}}
		</article>
		{{- if .Separator}}
		<hr>
		{{- end}}
	{{- end}}
	</section>
	<nav class="pagination" aria-label="Pagination">
		{{- template "link" .Previous}}
		{{- range .Pages}}{{template "link" .}}{{end}}
		{{- template "link" .Next}}
	</nav>
	<footer><small>Page {{.CurrentPage}} of {{.TotalPages}}</small></footer>
</body>
</html>
{{define "link"}}
		{{- if .Href}}<a class="pagination_button{{if .Active}} active{{end}}" href="{{.Href}}"{{if .Active}} aria-current="page"{{end}}>{{.Label}}</a>
		{{- else}}<span class="pagination_button disabled" aria-disabled="true">{{.Label}}</span>{{end}}
{{- end}}
`
