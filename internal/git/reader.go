package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// HistoryReader reads commit history from a Git repository.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return &HistoryReader{repo: repo, opts: opts}, nil
}

// NewHistoryReaderFromRepository wraps an already opened repository.
func NewHistoryReaderFromRepository(repo *git.Repository, opts ReadOptions) *HistoryReader {
	return &HistoryReader{repo: repo, opts: opts}
}

// OriginURL returns the first URL of the origin remote without a trailing
// ".git", or "" when the repository has no origin.
func (r *HistoryReader) OriginURL() string {
	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return strings.TrimSuffix(urls[0], ".git")
}

// ReadChanges walks the history of the configured branch, newest first.
// Root commits and commits whose changes are all filtered out are skipped.
func (r *HistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	from, err := r.resolveStart()
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{From: from, Order: git.LogOrderCommitterTime}
	if r.opts.Since != nil {
		logOpts.Since = r.opts.Since
	}
	if r.opts.Until != nil {
		logOpts.Until = r.opts.Until
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}
	defer cIter.Close()

	var results []CommitChangeSet

	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Skip commits without parents (initial commit)
		if c.NumParents() == 0 {
			return nil
		}

		changes, err := r.getCommitChanges(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to diff commit %s: %w", c.Hash, err)
		}
		if len(changes) == 0 {
			return nil
		}

		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:     c.Hash.String(),
				When:    c.Committer.When,
				Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
				Message: strings.TrimSpace(c.Message),
			},
			Changes: changes,
		})

		if r.opts.MaxCount > 0 && len(results) >= r.opts.MaxCount {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// resolveStart returns the commit the walk starts from.
func (r *HistoryReader) resolveStart() (plumbing.Hash, error) {
	if r.opts.Branch == "" || r.opts.Branch == "HEAD" {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		return ref.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(r.opts.Branch))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve branch %q: %w", r.opts.Branch, err)
	}
	return *hash, nil
}

// getCommitChanges extracts file changes between a commit and its first parent.
func (r *HistoryReader) getCommitChanges(ctx context.Context, c *object.Commit) ([]FileChange, error) {
	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}

	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	diff, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	var changes []FileChange
	for _, change := range diff {
		fc := classifyChange(change.From.Name, change.To.Name)
		if fc.Path == "" {
			continue
		}

		matched, err := r.matchesFilters(fc.Path)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		changes = append(changes, fc)
	}

	return changes, nil
}

// classifyChange maps the two sides of a tree change onto a FileChange.
func classifyChange(from, to string) FileChange {
	switch {
	case from == "" && to != "":
		return FileChange{Path: to, Kind: ChangeKindAdded}
	case from != "" && to == "":
		return FileChange{Path: from, Kind: ChangeKindDeleted}
	case from != to:
		return FileChange{Path: to, OldPath: from, Kind: ChangeKindRenamed}
	default:
		return FileChange{Path: to, Kind: ChangeKindModified}
	}
}

// matchesFilters checks if a path matches the include/exclude filters.
func (r *HistoryReader) matchesFilters(path string) (bool, error) {
	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")

	// Check exclude patterns first
	for _, pattern := range r.opts.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	// If no include patterns, accept all
	if len(r.opts.Include) == 0 {
		return true, nil
	}

	for _, pattern := range r.opts.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}
