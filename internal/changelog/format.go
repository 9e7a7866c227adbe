package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnformattableEntry is returned by Format for an entry the text form
// cannot hold: an empty date, a line containing a line break, or a detail
// without a summary. Each of these would read back as a different entry.
var ErrUnformattableEntry = errors.New("entry cannot be written as changelog text")

// Format renders a changelog back into the text form read by Parse.
// Trailing empty lines of an entry are omitted, so an entry without a
// detail is written as two lines and one with only a date as one.
func Format(cl Changelog) (string, error) {
	var b strings.Builder
	b.WriteString(cl.Identity.Path)
	for i, e := range cl.Entries {
		if err := checkEntry(e); err != nil {
			return "", fmt.Errorf("entry %d (%q): %w", i, e.Date, err)
		}
		b.WriteString(paragraphDelimiter)
		b.WriteString(strings.Join(entryLines(e), lineDelimiter))
	}
	b.WriteString(lineDelimiter)
	return b.String(), nil
}

func checkEntry(e Entry) error {
	if strings.TrimSpace(e.Date) == "" {
		return fmt.Errorf("%w: empty date", ErrUnformattableEntry)
	}
	for _, line := range []string{e.Date, e.Summary, e.Detail} {
		if strings.ContainsAny(line, "\r\n") {
			return fmt.Errorf("%w: line break in %q", ErrUnformattableEntry, line)
		}
	}
	if e.Summary == "" && e.Detail != "" {
		return fmt.Errorf("%w: detail without a summary", ErrUnformattableEntry)
	}
	return nil
}

func entryLines(e Entry) []string {
	lines := []string{e.Date, e.Summary, e.Detail}
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
