package output

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVPageWriter writes the entries of a page as CSV.
type CSVPageWriter struct{}

// Write outputs one row per visible entry.
func (w *CSVPageWriter) Write(out io.Writer, page *Page, _ Options) error {
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"index", "date", "summary", "detail"}); err != nil {
		return err
	}
	for _, item := range page.Items {
		if err := writer.Write([]string{
			strconv.Itoa(item.Index + 1),
			item.Entry.Date,
			item.Entry.Summary,
			item.Entry.Detail,
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
