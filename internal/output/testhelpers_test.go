package output

import (
	"fmt"

	"github.com/masmgr/changelog-go/internal/changelog"
)

// testChangelog returns a changelog with n entries dated consecutively from 2024-01-01.
func testChangelog(n int) changelog.Changelog {
	entries := make([]changelog.Entry, n)
	for i := range entries {
		entries[i] = changelog.Entry{
			Date:    fmt.Sprintf("2024-01-%02d", i+1),
			Summary: fmt.Sprintf("Change %d", i+1),
			Detail:  fmt.Sprintf("Detail for change %d", i+1),
		}
	}
	return changelog.Changelog{
		Identity: changelog.NewIdentity("https://github.com/org/repo"),
		Entries:  entries,
	}
}
