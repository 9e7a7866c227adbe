// Package pagination slices an ordered list into fixed-size pages and tracks
// which page a view is showing.
package pagination

import (
	"strconv"
	"strings"
)

// TotalPages returns the number of pages needed for total items.
// There is always at least one page, even when total is zero.
// A non-positive pageSize puts everything on a single page.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Bounds returns the half-open index range [start, end) shown on page.
// A page outside [1, TotalPages] yields the empty range [0, 0).
func Bounds(total, pageSize, page int) (start, end int) {
	if pageSize <= 0 {
		if page == 1 {
			return 0, max(total, 0)
		}
		return 0, 0
	}
	if total <= 0 || page < 1 || page-1 > (total-1)/pageSize {
		return 0, 0
	}
	start = (page - 1) * pageSize
	end = start + min(pageSize, total-start)
	return start, end
}

// VisibleSlice returns the entries shown on currentPage.
// The result shares the backing array of entries; callers must not modify it.
func VisibleSlice[T any](entries []T, pageSize, currentPage int) []T {
	start, end := Bounds(len(entries), pageSize, currentPage)
	return entries[start:end]
}

// Item is one visible entry together with its position and separator flag.
type Item[T any] struct {
	Index     int // absolute position in the full list
	Entry     T
	Separator bool // render a divider after this item
}

// Items returns the visible slice of currentPage with separator flags.
// No separator follows the last item of a page, which also covers the
// absolute last entry.
func Items[T any](entries []T, pageSize, currentPage int) []Item[T] {
	start, end := Bounds(len(entries), pageSize, currentPage)
	items := make([]Item[T], 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Item[T]{
			Index:     i,
			Entry:     entries[i],
			Separator: i < end-1,
		})
	}
	return items
}

// ParsePage parses a user supplied page number such as a query parameter.
// It reports false for anything that is not a positive integer.
func ParsePage(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
