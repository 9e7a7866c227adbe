// Package generator builds changelog entries from git history.
package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/masmgr/changelog-go/internal/git"
)

// ErrIncompleteSummary is returned when a summarizer cannot produce both a
// title and a detail for a commit. The commit is left out of the changelog.
var ErrIncompleteSummary = errors.New("incomplete summary")

// Summary is the human-readable description of one commit.
type Summary struct {
	Title  string
	Detail string
}

// Summarizer describes a commit for a changelog entry.
type Summarizer interface {
	Summarize(ctx context.Context, cs git.CommitChangeSet) (Summary, error)
}

// DescribeChanges renders file changes one per line, e.g. "Modified a.go" or
// "Renamed old.go to new.go".
func DescribeChanges(changes []git.FileChange) string {
	var b strings.Builder
	for _, c := range changes {
		kind := c.Kind
		if kind.String() == "unknown" {
			kind = git.ChangeKindModified
		}
		verb := kind.String()
		b.WriteString(strings.ToUpper(verb[:1]) + verb[1:] + " ")
		if kind == git.ChangeKindRenamed {
			b.WriteString(c.OldPath + " to ")
		}
		b.WriteString(c.Path)
		b.WriteByte('\n')
	}
	return b.String()
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var outputLabels = strings.NewReplacer(
	"Summary:", "",
	"Changes:", "",
	"Explanation", "",
)

// CleanupOutput removes list markers and section labels from one line of
// model output.
func CleanupOutput(line string) string {
	line = strings.TrimLeft(strings.TrimSpace(line), asciiPunctuation)
	line = outputLabels.Replace(line)
	return strings.TrimSpace(line)
}

// MessageSummarizer summarizes a commit from its own message: the subject
// becomes the title and the body becomes the detail. Commits without a body
// are described by their file changes.
type MessageSummarizer struct{}

// Summarize implements Summarizer.
func (MessageSummarizer) Summarize(_ context.Context, cs git.CommitChangeSet) (Summary, error) {
	title := cs.Commit.Subject()
	if title == "" {
		return Summary{}, ErrIncompleteSummary
	}

	detail := joinLines(cs.Commit.Body())
	if detail == "" {
		detail = joinLines(strings.ReplaceAll(DescribeChanges(cs.Changes), "\n", ".\n"))
	}
	return Summary{Title: title, Detail: detail}, nil
}

// joinLines collapses text onto one line; entries hold at most one detail line.
func joinLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
