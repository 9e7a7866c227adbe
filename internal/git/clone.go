package git

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

// ClonedRepository is a temporary clone of a remote repository.
// Remove deletes the working copy.
type ClonedRepository struct {
	URL  string
	Dir  string
	Repo *git.Repository
}

// Clone clones url into a new temporary directory under parentDir
// (the system temp dir when empty).
func Clone(ctx context.Context, url, parentDir string) (*ClonedRepository, error) {
	dir, err := os.MkdirTemp(parentDir, "changelog-clone-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}

	return &ClonedRepository{URL: url, Dir: dir, Repo: repo}, nil
}

// Reader returns a history reader over the clone.
func (c *ClonedRepository) Reader(opts ReadOptions) *HistoryReader {
	opts.RepoPath = c.Dir
	return NewHistoryReaderFromRepository(c.Repo, opts)
}

// Remove deletes the cloned working copy.
func (c *ClonedRepository) Remove() error {
	return os.RemoveAll(c.Dir)
}
