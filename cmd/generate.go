package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/generator"
	gitpkg "github.com/masmgr/changelog-go/internal/git"
	"github.com/masmgr/changelog-go/internal/source"
)

// GenerateCmd creates the generate command.
func GenerateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a changelog file from git history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to a local Git repository",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "URL of a remote Git repository to clone",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch to read (default: HEAD)",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Include commits since this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Include commits until this date (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:    "max-count",
				Aliases: []string{"n"},
				Usage:   "Maximum number of commits to read (0 = no limit)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Changelog file to write (default: the configured source)",
			},
			&cli.StringFlag{
				Name:  "summarizer",
				Usage: "How commits are summarized (message, chat)",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Chat model used by the chat summarizer",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Commits summarized in parallel",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Glob patterns to include (can be specified multiple times)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns to exclude (can be specified multiple times)",
			},
		},
		Action: generateAction,
	}
}

var (
	errRepoAndURL  = errors.New("you can only specify a remote repo (--url) or a local repo (--repo)")
	errNoRepoOrURL = errors.New("you must specify either a remote repo (--url) or a local repo (--repo)")
	errNeedOutput  = errors.New("the configured source is not a local file; use --output to choose where to write")
)

// outputPath returns --output, or the configured source when it is a local file.
func outputPath(c *cli.Context, cfg *config.Config) (string, error) {
	if out := c.String("output"); out != "" {
		return out, nil
	}
	loader, err := newLoader(cfg)
	if err != nil {
		return "", err
	}
	path, ok := source.IsLocal(loader)
	if !ok {
		return "", fmt.Errorf("%w: %s", errNeedOutput, loader.Describe())
	}
	return path, nil
}

// checkRepoFlags enforces that exactly one of --repo and --url is given.
func checkRepoFlags(repo, url string) error {
	switch {
	case repo != "" && url != "":
		return errRepoAndURL
	case repo == "" && url == "":
		return errNoRepoOrURL
	}
	return nil
}

func generateAction(c *cli.Context) error {
	repoPath, url := c.String("repo"), c.String("url")
	if err := checkRepoFlags(repoPath, url); err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	outPath, err := outputPath(c, cfg)
	if err != nil {
		return err
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return fmt.Errorf("invalid until date: %w", err)
	}

	opts := gitpkg.ReadOptions{
		RepoPath: repoPath,
		Branch:   c.String("branch"),
		Since:    since,
		Until:    until,
		MaxCount: cfg.Generate.MaxCount,
		Include:  cfg.Generate.Include,
		Exclude:  cfg.Generate.Exclude,
	}

	var (
		reader       *gitpkg.HistoryReader
		identityPath string
	)
	if url != "" {
		log.Info().Str("url", url).Msg("Cloning repository")
		cloned, err := gitpkg.Clone(c.Context, url, "")
		if err != nil {
			return err
		}
		defer func() {
			if err := cloned.Remove(); err != nil {
				log.Error().Err(err).Str("dir", cloned.Dir).Msg("Failed to remove clone")
			}
		}()
		reader = cloned.Reader(opts)
		identityPath = url
	} else {
		reader, err = gitpkg.NewHistoryReader(opts)
		if err != nil {
			return fmt.Errorf("failed to open repository: %w", err)
		}
		identityPath = reader.OriginURL()
		if identityPath == "" {
			if identityPath, err = filepath.Abs(repoPath); err != nil {
				return fmt.Errorf("failed to resolve repository path: %w", err)
			}
		}
	}

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return err
	}

	gen := generator.New(summarizer, cfg.Generate.Concurrency)
	cl, err := gen.FromReader(c.Context, reader, changelog.NewIdentity(identityPath))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := generator.WriteFile(outPath, cl); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %d entries to %s\n", green("Wrote"), cl.Len(), outPath)
	return nil
}

// newSummarizer creates the configured summarizer. The chat summarizer reads
// its API key from OPENAI_API_KEY.
func newSummarizer(cfg *config.Config) (generator.Summarizer, error) {
	switch cfg.Generate.Summarizer {
	case config.SummarizerChat:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" && cfg.Generate.BaseURL == generator.DefaultBaseURL {
			return nil, errors.New("the chat summarizer requires OPENAI_API_KEY")
		}
		return generator.NewChatSummarizer(cfg.Generate.BaseURL, apiKey, cfg.Generate.Model), nil
	default:
		return generator.MessageSummarizer{}, nil
	}
}
