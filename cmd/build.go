package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// BuildCmd creates the build command for static sites.
func BuildCmd() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:  "out",
			Usage: "Output directory (default: from config or 'site')",
		},
	)

	return &cli.Command{
		Name:   "build",
		Usage:  "Build a static HTML site with one file per page",
		Flags:  flags,
		Action: buildAction,
	}
}

func buildAction(c *cli.Context) error {
	cctx, err := NewCommandContext(c.Context, c)
	if err != nil {
		return err
	}

	if !cctx.HasEntries() {
		log.Info().Str("source", cctx.Loader.Describe()).Msg("Changelog has no entries, building a single empty page")
	}

	dir := cctx.Config.Output.Dir
	pages, err := writeSite(cctx.Config, cctx.Changelog, dir)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %d entries in %d pages to %s\n", green("Wrote"), cctx.Changelog.Len(), pages, dir)
	return nil
}
