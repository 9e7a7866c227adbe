package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownPageWriter writes a page as Markdown.
type MarkdownPageWriter struct{}

// Write outputs the page as Markdown.
func (w *MarkdownPageWriter) Write(out io.Writer, page *Page, options Options) error {
	fmt.Fprintf(out, "# %s\n\n", escapeMarkdown(page.Title))
	fmt.Fprintf(out, "View the change history for `%s`.\n\n", page.Identity.Path)

	if len(page.Items) == 0 {
		fmt.Fprintln(out, "_No changes recorded yet._")
		fmt.Fprintln(out)
	}

	for _, item := range page.Items {
		fmt.Fprintf(out, "### %s\n\n", escapeMarkdown(formatDate(item.Entry.Date)))
		if item.Entry.Summary != "" {
			fmt.Fprintf(out, "**%s**\n\n", escapeMarkdown(item.Entry.Summary))
		}
		if item.Entry.Detail != "" {
			fmt.Fprintf(out, "%s\n\n", item.Entry.Detail)
		}
		if item.Separator {
			fmt.Fprintln(out, "---")
			fmt.Fprintln(out)
		}
	}

	_, err := fmt.Fprintln(out, markdownControls(page, options))
	return err
}

// markdownControls renders the navigation line. Disabled controls are plain text.
func markdownControls(page *Page, options Options) string {
	parts := make([]string, 0, len(page.Controls.Pages)+2)

	if page.Controls.Previous.Enabled {
		parts = append(parts, fmt.Sprintf("[Previous](%s)", options.link(page.Controls.Previous.Page)))
	} else {
		parts = append(parts, "Previous")
	}
	for _, b := range page.Controls.Pages {
		if b.Active {
			parts = append(parts, fmt.Sprintf("**%d**", b.Page))
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d](%s)", b.Page, options.link(b.Page)))
	}
	if page.Controls.Next.Enabled {
		parts = append(parts, fmt.Sprintf("[Next](%s)", options.link(page.Controls.Next.Page)))
	} else {
		parts = append(parts, "Next")
	}

	return strings.Join(parts, " | ")
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
