package output

import (
	"io"
	"time"

	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/pagination"
)

// Compile-time interface conformance checks.
var (
	_ PageWriter = (*ConsolePageWriter)(nil)
	_ PageWriter = (*JSONPageWriter)(nil)
	_ PageWriter = (*CSVPageWriter)(nil)
	_ PageWriter = (*MarkdownPageWriter)(nil)
	_ PageWriter = (*HTMLPageWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
)

// ParseFormat maps a format name, including short aliases, to an OutputFormat.
// Unknown names fall back to the console format.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "markdown", "md":
		return FormatMarkdown
	case "html", "htm":
		return FormatHTML
	default:
		return FormatConsole
	}
}

// LinkFunc returns the URL of a page for navigation controls.
type LinkFunc func(page int) string

// QueryLink links pages with a ?page=N query string.
func QueryLink(page int) string {
	return "?page=" + itoa(page)
}

// FileLink links pages of a static site: page 1 is index.html, the rest page-N.html.
func FileLink(page int) string {
	if page == 1 {
		return "index.html"
	}
	return "page-" + itoa(page) + ".html"
}

// Options controls rendering.
type Options struct {
	Link  LinkFunc // page links; QueryLink when nil
	Width int      // console wrap width; detected when zero
}

func (o Options) link(page int) string {
	if o.Link == nil {
		return QueryLink(page)
	}
	return o.Link(page)
}

// Page is everything a writer needs to render one page of a changelog.
type Page struct {
	Title        string
	Identity     changelog.Identity
	Items        []pagination.Item[changelog.Entry]
	Controls     pagination.Controls
	CurrentPage  int
	TotalPages   int
	TotalEntries int
	PageSize     int
	GeneratedAt  time.Time
}

// NewPage builds the view of page for cl. A page outside [1, TotalPages]
// is not a valid transition, so the first page is shown instead.
func NewPage(cl changelog.Changelog, title string, pageSize, page int) *Page {
	p := pagination.New(cl.Len(), pageSize)
	p.RequestPageChange(page)

	if title == "" {
		title = cl.Identity.Name + " Changelog"
	}

	return &Page{
		Title:        title,
		Identity:     cl.Identity,
		Items:        pagination.Items(cl.Entries, pageSize, p.Current()),
		Controls:     p.Controls(),
		CurrentPage:  p.Current(),
		TotalPages:   p.TotalPages(),
		TotalEntries: p.TotalItems(),
		PageSize:     pageSize,
		GeneratedAt:  time.Now(),
	}
}

// PageWriter renders a Page.
type PageWriter interface {
	Write(w io.Writer, page *Page, options Options) error
}

// NewPageWriter creates a page writer for the specified format.
func NewPageWriter(format OutputFormat) PageWriter {
	switch format {
	case FormatJSON:
		return &JSONPageWriter{}
	case FormatCSV:
		return &CSVPageWriter{}
	case FormatMarkdown:
		return &MarkdownPageWriter{}
	case FormatHTML:
		return NewHTMLPageWriter()
	default:
		return &ConsolePageWriter{}
	}
}
