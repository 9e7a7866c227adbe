package changelog

import "strings"

// Identity names the repository a changelog documents.
type Identity struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// NewIdentity derives the display name from the last "/" segment of path.
// A trailing slash is ignored so "https://host/org/repo/" still yields "repo".
func NewIdentity(path string) Identity {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return Identity{Path: path, Name: path}
	}
	name := trimmed
	if idx := strings.LastIndexByte(trimmed, '/'); idx != -1 {
		name = trimmed[idx+1:]
	}
	return Identity{Path: path, Name: name}
}

// Entry is one changelog record. Entries are values; nothing mutates them after parsing.
type Entry struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// Changelog is the parsed form of a changelog source file.
// Entries keep the order in which they appear in the file.
type Changelog struct {
	Identity Identity
	Entries  []Entry
}

// Len returns the number of entries.
func (c Changelog) Len() int {
	return len(c.Entries)
}
