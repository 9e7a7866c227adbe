package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/pagination"
)

// JSONPageWriter writes a page as JSON.
type JSONPageWriter struct{}

// JSONPage is the JSON output structure for a page.
type JSONPage struct {
	Title        string              `json:"title"`
	Repository   changelog.Identity  `json:"repository"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"pageSize"`
	TotalPages   int                 `json:"totalPages"`
	TotalEntries int                 `json:"totalEntries"`
	GeneratedAt  string              `json:"generatedAt"`
	Entries      []JSONEntry         `json:"entries"`
	Controls     pagination.Controls `json:"controls"`
}

// JSONEntry is one visible entry in JSON format.
type JSONEntry struct {
	Index   int    `json:"index"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// Write outputs the page as indented JSON.
func (w *JSONPageWriter) Write(out io.Writer, page *Page, _ Options) error {
	entries := make([]JSONEntry, len(page.Items))
	for i, item := range page.Items {
		entries[i] = JSONEntry{
			Index:   item.Index,
			Date:    item.Entry.Date,
			Summary: item.Entry.Summary,
			Detail:  item.Entry.Detail,
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(JSONPage{
		Title:        page.Title,
		Repository:   page.Identity,
		Page:         page.CurrentPage,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		TotalEntries: page.TotalEntries,
		GeneratedAt:  page.GeneratedAt.Format(time.RFC3339),
		Entries:      entries,
		Controls:     page.Controls,
	})
}
