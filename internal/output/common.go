package output

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const displayDateLayout = "January 2, 2006"

// sourceDateLayouts are the date forms changelog files are known to contain.
var sourceDateLayouts = []string{
	"2006-01-02",
	"01-02-2006", // older generator output
	time.RFC3339,
}

// formatDate renders a raw entry date for display. Dates in a known layout are
// shown as "January 2, 2006"; anything else is shown as written.
func formatDate(raw string) string {
	if t, ok := parseDate(raw); ok {
		return t.Format(displayDateLayout)
	}
	return raw
}

// machineDate returns the ISO form of raw for <time datetime>, or "" if unknown.
func machineDate(raw string) string {
	if t, ok := parseDate(raw); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range sourceDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OpenOutput returns stdout, or a newly created file when outputPath is set.
// The returned file is nil for stdout and must be closed by the caller otherwise.
func OpenOutput(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
