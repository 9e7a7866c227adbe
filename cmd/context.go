package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/config"
	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/source"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup of the commands that read a changelog.
type CommandContext struct {
	Config    *config.Config
	Loader    source.Loader
	Changelog changelog.Changelog
}

// NewCommandContext loads configuration and reads and parses the changelog.
func NewCommandContext(ctx context.Context, c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	loader, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}

	text, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load changelog: %w", err)
	}
	cl, err := changelog.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse changelog from %s: %w", loader.Describe(), err)
	}
	log.Debug().Str("source", loader.Describe()).Int("entries", cl.Len()).Msg("Loaded changelog")

	return &CommandContext{
		Config:    cfg,
		Loader:    loader,
		Changelog: cl,
	}, nil
}

// newLoader creates the loader for the configured source. GITHUB_TOKEN, when
// set, authenticates GitHub sources.
func newLoader(cfg *config.Config) (source.Loader, error) {
	loader, err := source.New(cfg.Source, os.Getenv("GITHUB_TOKEN"))
	if err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}
	return loader, nil
}

// HasEntries returns true if the changelog has at least one entry.
func (ctx *CommandContext) HasEntries() bool {
	return ctx.Changelog.Len() > 0
}
