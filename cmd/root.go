package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
	"github.com/masmgr/changelog-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "changelog",
		Usage:   "Render, serve, and generate paginated changelogs",
		Version: "1.0.0",
		Commands: []*cli.Command{
			RenderCmd(),
			BuildCmd(),
			ServeCmd(),
			GenerateCmd(),
			ConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.String("log-level"))
		},
	}
}

// Flags shared by the commands that read a changelog.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Changelog file path or github:owner/repo/path[@ref]",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Entries per page",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Page title (default: \"<repository> Changelog\")",
		},
	}
}

// setupLogging configures the global zerolog logger to write to stderr.
// An empty level leaves the default (info).
func setupLogging(level string) error {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if level == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// parseDateFlag parses a date string flag.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	return output.ParseFormat(s)
}

// loadConfig loads configuration from file or defaults, then applies the
// flags set on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !c.IsSet("log-level") && cfg.Log.Level != "" {
		if err := setupLogging(cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
// Flags a command does not define are never set.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("title") {
		cfg.Title = c.String("title")
	}
	if c.IsSet("page-size") {
		cfg.PageSize = c.Int("page-size")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("out") {
		cfg.Output.Dir = c.String("out")
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("watch") {
		cfg.Server.Watch = c.Bool("watch")
	}
	if c.IsSet("summarizer") {
		cfg.Generate.Summarizer = c.String("summarizer")
	}
	if c.IsSet("max-count") {
		cfg.Generate.MaxCount = c.Int("max-count")
	}
	if c.IsSet("concurrency") {
		cfg.Generate.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("model") {
		cfg.Generate.Model = c.String("model")
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Generate.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Generate.Exclude = excludes
	}
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
