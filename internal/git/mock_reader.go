package git

import "context"

// MockHistoryReader returns canned change sets so callers can be tested
// without a real repository.
type MockHistoryReader struct {
	ChangeSets []CommitChangeSet
	Error      error
	Calls      int
}

// NewMockHistoryReader creates a new MockHistoryReader with the given data.
func NewMockHistoryReader(changeSets []CommitChangeSet, err error) *MockHistoryReader {
	return &MockHistoryReader{
		ChangeSets: changeSets,
		Error:      err,
	}
}

// ReadChanges returns the canned change sets, or the context error once ctx is done.
func (m *MockHistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.ChangeSets, m.Error
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockHistoryReader)(nil)
