package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/masmgr/changelog-go/config"
	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/output"
)

// writePage renders one page of cl in the configured format to outputPath,
// or to stdout when outputPath is empty.
func writePage(cfg *config.Config, cl changelog.Changelog, pageNum int, outputPath string) (*output.Page, error) {
	page := output.NewPage(cl, cfg.Title, cfg.PageSize, pageNum)

	w, file, err := output.OpenOutput(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}
	if file != nil {
		defer file.Close()
	}

	writer := output.NewPageWriter(getOutputFormat(cfg.Output.Format))
	if err := writer.Write(w, page, output.Options{Link: output.QueryLink}); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}
	return page, nil
}

// writeSite renders every page of cl as HTML into dir: page 1 as index.html
// and page N as page-N.html. It returns the number of pages written.
func writeSite(cfg *config.Config, cl changelog.Changelog, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	writer := output.NewHTMLPageWriter()
	first := output.NewPage(cl, cfg.Title, cfg.PageSize, 1)

	for n := 1; n <= first.TotalPages; n++ {
		page := output.NewPage(cl, cfg.Title, cfg.PageSize, n)
		page.GeneratedAt = first.GeneratedAt
		if err := writeFile(filepath.Join(dir, output.FileLink(n)), func(w io.Writer) error {
			return writer.Write(w, page, output.Options{Link: output.FileLink})
		}); err != nil {
			return n - 1, err
		}
	}
	return first.TotalPages, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
