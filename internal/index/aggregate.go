// Package index folds per-document extraction results into corpus-wide
// identifier and tag indexes.
package index

import (
	"sort"

	"github.com/aidanlsb/orglint/internal/parser"
)

// State is the aggregated view of a corpus. It is built once by a Builder
// and treated as read-only afterwards.
type State struct {
	// Files are the scanned document paths in discovery order.
	Files []string

	// IDs maps an identifier to its occurrences: discovery order of the
	// owning files, then traversal order within each file.
	IDs map[string][]parser.IdentifierRecord

	// Tags maps a tag to the set of documents that carry it.
	Tags map[string]map[string]struct{}
}

// Builder accumulates documents into a State. It is not safe for concurrent
// use: a single goroutine owns all mutation.
type Builder struct {
	state *State
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{state: &State{
		IDs:  make(map[string][]parser.IdentifierRecord),
		Tags: make(map[string]map[string]struct{}),
	}}
}

// Add merges one parsed document.
func (b *Builder) Add(doc *parser.ParsedDocument) {
	if doc == nil {
		return
	}
	b.state.Files = append(b.state.Files, doc.Path)

	for _, rec := range doc.IDs {
		b.state.IDs[rec.ID] = append(b.state.IDs[rec.ID], rec)
	}

	for tag := range doc.Tags {
		files, ok := b.state.Tags[tag]
		if !ok {
			files = make(map[string]struct{})
			b.state.Tags[tag] = files
		}
		files[doc.Path] = struct{}{}
	}
}

// State returns the accumulated state.
func (b *Builder) State() *State {
	return b.state
}

// Aggregate folds documents in the given order.
func Aggregate(docs []*parser.ParsedDocument) *State {
	b := NewBuilder()
	for _, doc := range docs {
		b.Add(doc)
	}
	return b.State()
}

// FileCount returns the number of scanned documents.
func (s *State) FileCount() int { return len(s.Files) }

// IDCount returns the number of distinct identifiers.
func (s *State) IDCount() int { return len(s.IDs) }

// DuplicateCount returns how many identifiers occur more than once.
func (s *State) DuplicateCount() int {
	n := 0
	for _, recs := range s.IDs {
		if len(recs) > 1 {
			n++
		}
	}
	return n
}

// DuplicateIDs returns identifiers with more than one occurrence, sorted.
// Same-file repeats count as duplicates.
func (s *State) DuplicateIDs() []string {
	var ids []string
	for id, recs := range s.IDs {
		if len(recs) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Occurrences returns a copy of id's records sorted by path, then offset.
func (s *State) Occurrences(id string) []parser.IdentifierRecord {
	recs := append([]parser.IdentifierRecord(nil), s.IDs[id]...)
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Path != recs[j].Path {
			return recs[i].Path < recs[j].Path
		}
		return recs[i].Offset < recs[j].Offset
	})
	return recs
}

// FileCountFor returns the number of distinct documents containing id.
func (s *State) FileCountFor(id string) int {
	seen := make(map[string]struct{})
	for _, rec := range s.IDs[id] {
		seen[rec.Path] = struct{}{}
	}
	return len(seen)
}

// RepeatedTags returns tags carried by more than one document, sorted.
func (s *State) RepeatedTags() []string {
	var tags []string
	for tag, files := range s.Tags {
		if len(files) > 1 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// TagFileCount returns the number of distinct documents carrying tag.
func (s *State) TagFileCount(tag string) int {
	return len(s.Tags[tag])
}
