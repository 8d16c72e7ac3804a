// Package models defines the domain types for postport.
package models

// Fields is the flat front-matter mapping of a source post. Tags are kept
// apart from the scalar values since the input dialect carries them as a
// block sequence.
type Fields struct {
	Values map[string]string
	Tags   []string
}

// Get returns the scalar value for key and whether the key was present.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f.Values[key]
	return v, ok
}

// Document is a unit of content: front matter plus an opaque body.
type Document struct {
	Fields Fields
	Body   string
}

// Failure records one item that could not be processed.
type Failure struct {
	Item string
	Err  error
}

// MigrateSummary aggregates the outcome of a migration batch.
type MigrateSummary struct {
	Succeeded int
	Failed    int
	Failures  []Failure
}

// LinkSummary aggregates the outcome of a link repair pass.
type LinkSummary struct {
	Scanned    int
	Fixed      int
	Failed     int
	FixedPaths []string
	Failures   []Failure
}

// FileEntry is one file found by a tree listing. Err is set when the walk
// could not reach the entry; the rest of the listing is still returned.
type FileEntry struct {
	Path string
	Err  error
}
