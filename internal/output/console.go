package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const defaultConsoleWidth = 80

var (
	titleColor   = color.New(color.FgGreen, color.Bold)
	dateColor    = color.New(color.FgCyan)
	summaryColor = color.New(color.Bold)
	mutedColor   = color.New(color.Faint)
)

// ConsolePageWriter writes a page to a terminal.
type ConsolePageWriter struct{}

// Write outputs the page with colors and wrapped detail text.
func (w *ConsolePageWriter) Write(out io.Writer, page *Page, options Options) error {
	width := options.Width
	if width <= 0 {
		width = terminalWidth(out)
	}

	titleColor.Fprintln(out, page.Title)
	fmt.Fprintf(out, "Repository: %s\n", page.Identity.Path)
	fmt.Fprintf(out, "Page %d of %d (%d entries)\n\n", page.CurrentPage, page.TotalPages, page.TotalEntries)

	if len(page.Items) == 0 {
		mutedColor.Fprintln(out, "No changes recorded yet.")
	}

	rule := strings.Repeat("-", min(width, 40))
	for _, item := range page.Items {
		dateColor.Fprintln(out, formatDate(item.Entry.Date))
		if item.Entry.Summary != "" {
			summaryColor.Fprintln(out, item.Entry.Summary)
		}
		for _, line := range wrapText(item.Entry.Detail, width) {
			fmt.Fprintln(out, line)
		}
		if item.Separator {
			mutedColor.Fprintln(out, rule)
		}
	}

	fmt.Fprintln(out)
	_, err := fmt.Fprintln(out, consoleControls(page))
	return err
}

// consoleControls renders "< Previous  1 [2] 3  Next >" with disabled controls dimmed.
func consoleControls(page *Page) string {
	var b strings.Builder

	prev := "< Previous"
	if !page.Controls.Previous.Enabled {
		prev = mutedColor.Sprint(prev)
	}
	b.WriteString(prev)
	b.WriteString(" ")

	for _, button := range page.Controls.Pages {
		b.WriteString(" ")
		if button.Active {
			b.WriteString(summaryColor.Sprintf("[%d]", button.Page))
		} else {
			fmt.Fprintf(&b, "%d", button.Page)
		}
	}

	next := "Next >"
	if !page.Controls.Next.Enabled {
		next = mutedColor.Sprint(next)
	}
	b.WriteString("  ")
	b.WriteString(next)
	return b.String()
}

// terminalWidth returns the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultConsoleWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultConsoleWidth
	}
	return width
}

// wrapText splits s into lines of at most width runes, breaking on spaces.
// Words longer than width are kept whole.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
