package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/masmgr/changelog-go/internal/changelog"
	"github.com/masmgr/changelog-go/internal/git"
)

// stubSummarizer titles each commit with its message and fails for configured SHAs.
type stubSummarizer struct {
	incomplete map[string]bool
	failures   map[string]error
	inFlight   atomic.Int32
	maxSeen    atomic.Int32
}

func (s *stubSummarizer) Summarize(_ context.Context, cs git.CommitChangeSet) (Summary, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if err := s.failures[cs.Commit.SHA]; err != nil {
		return Summary{}, err
	}
	if s.incomplete[cs.Commit.SHA] {
		return Summary{}, ErrIncompleteSummary
	}
	return Summary{Title: cs.Commit.Message, Detail: "detail " + cs.Commit.SHA}, nil
}

func makeChangeSets(n int) []git.CommitChangeSet {
	base := time.Date(2024, 5, 20, 23, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	sets := make([]git.CommitChangeSet, n)
	for i := range sets {
		sets[i] = git.CommitChangeSet{Commit: git.CommitInfo{
			SHA:     fmt.Sprintf("sha%02d", i),
			When:    base.Add(-time.Duration(i) * 24 * time.Hour),
			Message: fmt.Sprintf("Commit %d", i),
		}}
	}
	return sets
}

func TestGenerate_PreservesOrder(t *testing.T) {
	identity := changelog.NewIdentity("github.com/org/repo")
	g := New(&stubSummarizer{}, 4)

	cl, err := g.Generate(context.Background(), identity, makeChangeSets(10))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if cl.Identity != identity {
		t.Errorf("Identity = %+v", cl.Identity)
	}
	if len(cl.Entries) != 10 {
		t.Fatalf("got %d entries, expected 10", len(cl.Entries))
	}
	for i, e := range cl.Entries {
		if e.Summary != fmt.Sprintf("Commit %d", i) {
			t.Errorf("entry %d summary = %q", i, e.Summary)
		}
	}
	// 23:30 PDT is 06:30 UTC the next day.
	if cl.Entries[0].Date != "2024-05-21" {
		t.Errorf("first date = %q, expected 2024-05-21", cl.Entries[0].Date)
	}
}

func TestGenerate_ConcurrencyLimit(t *testing.T) {
	s := &stubSummarizer{}
	if _, err := New(s, 2).Generate(context.Background(), changelog.Identity{}, makeChangeSets(12)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got := s.maxSeen.Load(); got > 2 {
		t.Errorf("saw %d summaries in flight, limit is 2", got)
	}
}

func TestGenerate_SkipsIncomplete(t *testing.T) {
	s := &stubSummarizer{incomplete: map[string]bool{"sha01": true, "sha03": true}}

	cl, err := New(s, 3).Generate(context.Background(), changelog.Identity{}, makeChangeSets(5))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	var got []string
	for _, e := range cl.Entries {
		got = append(got, e.Summary)
	}
	if fmt.Sprint(got) != "[Commit 0 Commit 2 Commit 4]" {
		t.Errorf("summaries = %v", got)
	}
}

func TestGenerate_Error(t *testing.T) {
	boom := errors.New("boom")
	s := &stubSummarizer{failures: map[string]error{"sha02": boom}}

	_, err := New(s, 2).Generate(context.Background(), changelog.Identity{}, makeChangeSets(4))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, expected boom", err)
	}
}

func TestGenerate_Empty(t *testing.T) {
	cl, err := New(MessageSummarizer{}, 0).Generate(context.Background(), changelog.Identity{Path: "r", Name: "r"}, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if cl.Len() != 0 {
		t.Errorf("got %d entries, expected 0", cl.Len())
	}
}

func TestFromReader(t *testing.T) {
	reader := git.NewMockHistoryReader(makeChangeSets(3), nil)

	cl, err := New(MessageSummarizer{}, 2).FromReader(context.Background(), reader, changelog.NewIdentity("org/repo"))
	if err != nil {
		t.Fatalf("FromReader() error: %v", err)
	}
	if reader.Calls != 1 {
		t.Errorf("reader called %d times", reader.Calls)
	}
	if cl.Len() != 3 || cl.Entries[2].Summary != "Commit 2" {
		t.Errorf("entries = %+v", cl.Entries)
	}
}

func TestFromReader_Error(t *testing.T) {
	readErr := errors.New("not a repository")
	reader := git.NewMockHistoryReader(nil, readErr)

	if _, err := New(MessageSummarizer{}, 1).FromReader(context.Background(), reader, changelog.Identity{}); !errors.Is(err, readErr) {
		t.Errorf("error = %v, expected %v", err, readErr)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog")
	cl, err := New(MessageSummarizer{}, 2).Generate(context.Background(), changelog.NewIdentity("github.com/org/repo"), makeChangeSets(3))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if err := WriteFile(path, cl); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := changelog.Parse(string(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if parsed.Identity.Name != "repo" || parsed.Len() != 3 || parsed.Entries[1] != cl.Entries[1] {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestWriteFile_UnformattableEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog")
	cl := changelog.Changelog{
		Identity: changelog.NewIdentity("github.com/org/repo"),
		Entries:  []changelog.Entry{{Date: "2024-01-01", Detail: "only detail"}},
	}

	err := WriteFile(path, cl)
	if !errors.Is(err, changelog.ErrUnformattableEntry) {
		t.Fatalf("WriteFile() error = %v, want ErrUnformattableEntry", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no file to be written, stat error = %v", statErr)
	}
}
