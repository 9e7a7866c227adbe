package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// createTestRepo creates a temporary git repository.
func createTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	tmpDir := t.TempDir()

	repo, err := git.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return tmpDir, repo
}

// addCommitToRepo writes the given files and commits them at commitTime.
func addCommitToRepo(t *testing.T, repo *git.Repository, message string, filenames []string, commitTime time.Time) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	for _, filename := range filenames {
		filePath := filepath.Join(w.Filesystem.Root(), filename)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		content := fmt.Sprintf("Content for %s at %s\n", filename, commitTime.String())
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := w.Add(filename); err != nil {
			t.Fatalf("Failed to add file: %v", err)
		}
	}

	sig := &object.Signature{Name: "Test Author", Email: "test@example.com", When: commitTime}
	if _, err := w.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

// writeChangelog writes a changelog with n entries to dir and returns its path.
func writeChangelog(t *testing.T, dir string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("github.com/org/repo")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "\n\n2024-01-%02d\nChange %d\nDetail %d", i, i, i)
	}
	path := filepath.Join(dir, "changelog")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write changelog: %v", err)
	}
	return path
}

// captureOutput returns what fn writes to stdout.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	out := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		out <- string(data)
	}()

	fn()

	w.Close()
	return <-out
}

// runApp runs the CLI with args.
func runApp(t *testing.T, args ...string) error {
	t.Helper()
	return App().Run(append([]string{"changelog"}, args...))
}
