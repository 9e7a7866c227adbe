package git

import (
	"strings"
	"time"
)

// CommitInfo represents the parts of a Git commit a changelog needs.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string // full message, surrounding whitespace trimmed
}

// Subject returns the first line of the commit message.
func (c CommitInfo) Subject() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx != -1 {
		return strings.TrimSpace(c.Message[:idx])
	}
	return c.Message
}

// Body returns the commit message after the subject line.
func (c CommitInfo) Body() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx != -1 {
		return strings.TrimSpace(c.Message[idx+1:])
	}
	return ""
}

// ShortSHA returns the abbreviated commit hash.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// FileChange represents a file change within a commit.
type FileChange struct {
	Path    string
	OldPath string // For renames
	Kind    ChangeKind
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// CommitChangeSet bundles a commit with its file changes.
type CommitChangeSet struct {
	Commit  CommitInfo
	Changes []FileChange
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath string
	Branch   string // empty means HEAD
	Since    *time.Time
	Until    *time.Time
	MaxCount int      // 0 means no limit
	Include  []string // Glob patterns to include
	Exclude  []string // Glob patterns to exclude
}
