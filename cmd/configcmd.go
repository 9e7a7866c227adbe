package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
)

// ConfigCmd creates the config command.
func ConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration files",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default configuration (YAML, or JSON for .json paths)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Configuration file to create",
						Value: config.DefaultFileNames[0],
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInitAction,
			},
		},
	}
}

func configInitAction(c *cli.Context) error {
	path := c.String("path")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %s\n", green("Created"), path)
	return nil
}
