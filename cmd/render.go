package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// RenderCmd creates the render command.
func RenderCmd() *cli.Command {
	flags := append(sourceFlags(),
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "Page to render (out-of-range pages render page 1)",
			Value:   1,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, html)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:   "render",
		Usage:  "Render one page of a changelog",
		Flags:  flags,
		Action: renderAction,
	}
}

func renderAction(c *cli.Context) error {
	cctx, err := NewCommandContext(c.Context, c)
	if err != nil {
		return err
	}

	if !cctx.HasEntries() {
		log.Info().Str("source", cctx.Loader.Describe()).Msg("Changelog has no entries")
	}

	requested := c.Int("page")
	page, err := writePage(cctx.Config, cctx.Changelog, requested, c.String("output"))
	if err != nil {
		return err
	}
	if page.CurrentPage != requested {
		log.Warn().Int("page", requested).Int("pages", page.TotalPages).Msg("Page out of range, rendered page 1")
	}
	return nil
}
