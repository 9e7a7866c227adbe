package generator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/git"
)

// EntryDateLayout is the layout of generated entry dates.
const EntryDateLayout = "2006-01-02"

// Generator turns commit change sets into a changelog.
type Generator struct {
	Summarizer  Summarizer
	Concurrency int // summaries in flight; values below 1 mean 1
}

// New creates a Generator.
func New(summarizer Summarizer, concurrency int) *Generator {
	return &Generator{Summarizer: summarizer, Concurrency: concurrency}
}

// Generate summarizes every change set and returns the changelog for identity.
// Entries keep the order of changeSets. Commits whose summary is incomplete
// are skipped; any other summarizer error aborts generation.
func (g *Generator) Generate(ctx context.Context, identity changelog.Identity, changeSets []git.CommitChangeSet) (changelog.Changelog, error) {
	slots := make([]*changelog.Entry, len(changeSets))

	limit := g.Concurrency
	if limit < 1 {
		limit = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, cs := range changeSets {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			summary, err := g.Summarizer.Summarize(egCtx, cs)
			if errors.Is(err, ErrIncompleteSummary) {
				log.Warn().Str("commit", cs.Commit.ShortSHA()).Msg("Skipping commit with incomplete summary")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to summarize commit %s: %w", cs.Commit.ShortSHA(), err)
			}

			slots[i] = &changelog.Entry{
				Date:    cs.Commit.When.UTC().Format(EntryDateLayout),
				Summary: summary.Title,
				Detail:  summary.Detail,
			}
			log.Debug().
				Str("commit", cs.Commit.ShortSHA()).
				Str("author", cs.Commit.Author.Name).
				Str("summary", summary.Title).
				Msg("Summarized commit")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return changelog.Changelog{}, err
	}

	entries := make([]changelog.Entry, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return changelog.Changelog{Identity: identity, Entries: entries}, nil
}

// FromReader reads the change history from reader and generates a changelog.
func (g *Generator) FromReader(ctx context.Context, reader git.RepositoryReader, identity changelog.Identity) (changelog.Changelog, error) {
	changeSets, err := reader.ReadChanges(ctx)
	if err != nil {
		return changelog.Changelog{}, fmt.Errorf("failed to read history: %w", err)
	}
	log.Info().Int("commits", len(changeSets)).Msg("Summarizing commits")
	return g.Generate(ctx, identity, changeSets)
}

// WriteFile writes cl to path in the changelog file format.
func WriteFile(path string, cl changelog.Changelog) error {
	text, err := changelog.Format(cl)
	if err != nil {
		return fmt.Errorf("failed to format changelog: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}
