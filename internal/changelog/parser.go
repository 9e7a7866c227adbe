package changelog

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	paragraphDelimiter = "\n\n"
	lineDelimiter      = "\n"
)

// Parse splits a changelog source into its identity block and entries.
//
// The source is trimmed, then split on blank lines. The first paragraph is the
// repository path; every following paragraph is one entry of up to three lines
// (date, summary, detail). Missing lines default to the empty string and lines
// past the third are ignored. Entries are returned in file order; dates are not
// validated and no sorting is applied.
func Parse(source string) (Changelog, error) {
	text := strings.TrimSpace(strings.ReplaceAll(source, "\r\n", "\n"))
	if text == "" {
		return Changelog{}, ErrMissingSource
	}

	paragraphs := strings.Split(text, paragraphDelimiter)

	entries := make([]Entry, 0, len(paragraphs)-1)
	for _, paragraph := range paragraphs[1:] {
		entries = append(entries, parseEntry(strings.Split(paragraph, lineDelimiter)))
	}

	return Changelog{
		Identity: NewIdentity(paragraphs[0]),
		Entries:  entries,
	}, nil
}

// parseEntry maps the lines of one paragraph onto an Entry.
func parseEntry(lines []string) Entry {
	return Entry{
		Date:    lineAt(lines, 0),
		Summary: lineAt(lines, 1),
		Detail:  lineAt(lines, 2),
	}
}

// lineAt returns lines[i], or "" when the paragraph is shorter than that.
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}

// LoadFile reads and parses the changelog file at path.
func LoadFile(path string) (Changelog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Changelog{}, fmt.Errorf("failed to read changelog: %w", err)
	}
	cl, err := Parse(string(data))
	if err != nil {
		if errors.Is(err, ErrMissingSource) {
			return Changelog{}, &MissingSourceError{Source: path}
		}
		return Changelog{}, err
	}
	return cl, nil
}
