package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo is a throwaway repository with helpers for staging and committing.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

func (r *testRepo) move(from, to string) {
	r.t.Helper()
	if _, err := r.wt.Move(from, to); err != nil {
		r.t.Fatalf("Move: %v", err)
	}
}

func (r *testRepo) commit(msg string, when time.Time) {
	r.t.Helper()
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	if _, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
}

func readAll(t *testing.T, opts ReadOptions) []CommitChangeSet {
	t.Helper()
	reader, err := NewHistoryReader(opts)
	if err != nil {
		t.Fatalf("NewHistoryReader: %v", err)
	}
	changes, err := reader.ReadChanges(context.Background())
	if err != nil {
		t.Fatalf("ReadChanges: %v", err)
	}
	return changes
}

func TestHistoryReader_ReadChanges_Kinds(t *testing.T) {
	r := newTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	r.write("keep.txt", "one\n")
	r.write("old.txt", "a file that will be renamed\nwith enough content\nto be detected\n")
	r.write("gone.txt", "bye\n")
	r.commit("initial", base)

	r.write("keep.txt", "two\n")
	r.commit("Modify keep\n\nLonger explanation.", base.Add(time.Hour))

	r.write("new.txt", "hello\n")
	r.remove("gone.txt")
	r.commit("Add new, drop gone", base.Add(2*time.Hour))

	r.move("old.txt", "renamed.txt")
	r.commit("Rename old", base.Add(3*time.Hour))

	changes := readAll(t, ReadOptions{RepoPath: r.dir})
	if len(changes) != 3 {
		t.Fatalf("got %d change sets, expected 3 (root commit skipped)", len(changes))
	}

	// Newest first.
	rename := changes[0]
	if rename.Commit.Subject() != "Rename old" {
		t.Errorf("first subject = %q, expected %q", rename.Commit.Subject(), "Rename old")
	}
	if len(rename.Changes) != 1 || rename.Changes[0].Kind != ChangeKindRenamed ||
		rename.Changes[0].OldPath != "old.txt" || rename.Changes[0].Path != "renamed.txt" {
		t.Errorf("rename changes = %+v", rename.Changes)
	}

	addDrop := changes[1]
	kinds := map[string]ChangeKind{}
	for _, fc := range addDrop.Changes {
		kinds[fc.Path] = fc.Kind
	}
	if kinds["new.txt"] != ChangeKindAdded || kinds["gone.txt"] != ChangeKindDeleted {
		t.Errorf("add/drop kinds = %v", kinds)
	}

	modify := changes[2]
	if modify.Commit.Body() != "Longer explanation." {
		t.Errorf("Body() = %q", modify.Commit.Body())
	}
	if len(modify.Changes) != 1 || modify.Changes[0].Kind != ChangeKindModified {
		t.Errorf("modify changes = %+v", modify.Changes)
	}
	if modify.Commit.Author != (AuthorInfo{Name: "Test", Email: "test@example.com"}) {
		t.Errorf("Author = %+v", modify.Commit.Author)
	}
	if !modify.Commit.When.Equal(base.Add(time.Hour)) {
		t.Errorf("When = %v, expected %v", modify.Commit.When, base.Add(time.Hour))
	}
}

func TestHistoryReader_ReadChanges_MaxCountAndFilters(t *testing.T) {
	r := newTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	r.write("README.md", "init\n")
	r.commit("initial", base)
	for i, name := range []string{"src/a.go", "docs/a.md", "src/b.go", "src/b_test.go"} {
		r.write(name, name+"\n")
		r.commit("touch "+name, base.Add(time.Duration(i+1)*time.Hour))
	}

	if got := readAll(t, ReadOptions{RepoPath: r.dir, MaxCount: 2}); len(got) != 2 {
		t.Errorf("MaxCount 2 returned %d change sets", len(got))
	}

	got := readAll(t, ReadOptions{
		RepoPath: r.dir,
		Include:  []string{"src/**"},
		Exclude:  []string{"**/*_test.go"},
	})
	if len(got) != 2 {
		t.Fatalf("filtered change sets = %d, expected 2", len(got))
	}
	if got[0].Commit.Subject() != "touch src/b.go" || got[1].Commit.Subject() != "touch src/a.go" {
		t.Errorf("filtered subjects = %q, %q", got[0].Commit.Subject(), got[1].Commit.Subject())
	}
}

func TestHistoryReader_ReadChanges_RespectsBranch(t *testing.T) {
	r := newTestRepo(t)
	now := time.Now()

	r.write("file.txt", "initial\n")
	r.commit("initial", now.Add(-3*time.Hour))

	head, err := r.repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	baseBranch := head.Name()

	if err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	}); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	r.write("file.txt", "feature\n")
	r.commit("feature commit", now.Add(-2*time.Hour))

	if err := r.wt.Checkout(&gogit.CheckoutOptions{Branch: baseBranch}); err != nil {
		t.Fatalf("Checkout(%s): %v", baseBranch, err)
	}
	r.write("base.txt", "base\n")
	r.commit("base commit", now.Add(-1*time.Hour))

	feature := readAll(t, ReadOptions{RepoPath: r.dir, Branch: "feature"})
	if len(feature) != 1 || feature[0].Commit.Message != "feature commit" {
		t.Fatalf("feature history = %+v", feature)
	}

	base := readAll(t, ReadOptions{RepoPath: r.dir, Branch: baseBranch.Short()})
	if len(base) != 1 || base[0].Commit.Message != "base commit" {
		t.Fatalf("base history = %+v", base)
	}

	reader, err := NewHistoryReader(ReadOptions{RepoPath: r.dir, Branch: "missing"})
	if err != nil {
		t.Fatalf("NewHistoryReader: %v", err)
	}
	if _, err := reader.ReadChanges(context.Background()); err == nil {
		t.Error("expected error for unknown branch")
	}
}

func TestHistoryReader_ReadChanges_Cancelled(t *testing.T) {
	r := newTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.write("a.txt", "a\n")
	r.commit("initial", base)
	r.write("a.txt", "b\n")
	r.commit("second", base.Add(time.Hour))

	reader, err := NewHistoryReader(ReadOptions{RepoPath: r.dir})
	if err != nil {
		t.Fatalf("NewHistoryReader: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := reader.ReadChanges(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestHistoryReader_matchesFilters(t *testing.T) {
	tests := []struct {
		name    string
		opts    ReadOptions
		path    string
		want    bool
		wantErr bool
	}{
		{name: "No filters", path: "a.go", want: true},
		{name: "Included", opts: ReadOptions{Include: []string{"**/*.go"}}, path: "pkg/a.go", want: true},
		{name: "Not included", opts: ReadOptions{Include: []string{"**/*.go"}}, path: "README.md", want: false},
		{name: "Excluded wins", opts: ReadOptions{Include: []string{"**"}, Exclude: []string{"vendor/**"}}, path: "vendor/x.go", want: false},
		{name: "Backslashes normalised", opts: ReadOptions{Include: []string{"src/*.go"}}, path: `src\a.go`, want: true},
		{name: "Invalid exclude", opts: ReadOptions{Exclude: []string{"["}}, path: "a.go", wantErr: true},
		{name: "Invalid include", opts: ReadOptions{Include: []string{"["}}, path: "a.go", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &HistoryReader{opts: tt.opts}
			got, err := r.matchesFilters(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("matchesFilters(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestChangeKind_String(t *testing.T) {
	tests := map[ChangeKind]string{
		ChangeKindAdded:    "added",
		ChangeKindModified: "modified",
		ChangeKindDeleted:  "deleted",
		ChangeKindRenamed:  "renamed",
		ChangeKind(42):     "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestCommitInfo_Message(t *testing.T) {
	c := CommitInfo{SHA: "0123456789abcdef", Message: "Subject line\n\nBody text\nmore"}
	if c.Subject() != "Subject line" {
		t.Errorf("Subject() = %q", c.Subject())
	}
	if c.Body() != "Body text\nmore" {
		t.Errorf("Body() = %q", c.Body())
	}
	if c.ShortSHA() != "01234567" {
		t.Errorf("ShortSHA() = %q", c.ShortSHA())
	}

	single := CommitInfo{SHA: "abc", Message: "Only subject"}
	if single.Subject() != "Only subject" || single.Body() != "" || single.ShortSHA() != "abc" {
		t.Errorf("single-line accessors = %q %q %q", single.Subject(), single.Body(), single.ShortSHA())
	}
}

func TestMockHistoryReader(t *testing.T) {
	sets := []CommitChangeSet{{Commit: CommitInfo{SHA: "a"}}}
	m := NewMockHistoryReader(sets, nil)

	got, err := m.ReadChanges(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("ReadChanges() = %v, %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.ReadChanges(ctx); err == nil {
		t.Error("expected context error")
	}
	if m.Calls != 2 {
		t.Errorf("Calls = %d, expected 2", m.Calls)
	}
}
