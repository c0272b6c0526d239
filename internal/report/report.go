// Package report renders the org-mode lint report from an aggregated index.
// Every function here is pure: the timestamp is passed in.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aidanlsb/orglint/internal/dates"
	"github.com/aidanlsb/orglint/internal/index"
	"github.com/aidanlsb/orglint/internal/ui"
)

const (
	reportTitle = "Org-linter Results"

	duplicateIDsHeading = "Repeated IDs"
	tagsSummaryHeading  = "Tags summary"
)

// Options controls which optional sections are rendered.
type Options struct {
	// Roots are the scanned directories as supplied, used to shorten
	// display paths. The first matching root wins.
	Roots []string

	DuplicateIDs bool
	TagsSummary  bool

	// Now is the generation time stamped into the report.
	Now time.Time
}

// Generate renders the full report. Optional sections are appended only when
// enabled and non-empty.
func Generate(state *index.State, opts Options) string {
	ts := dates.FormatTimestamp(opts.Now)

	lines := []string{
		"#+TITLE: " + reportTitle,
		"#+DATE: " + ts,
		"",
		fmt.Sprintf("Files scanned: %d", state.FileCount()),
		fmt.Sprintf("IDs found: %d", state.IDCount()),
		fmt.Sprintf("Duplicate IDs: %d", state.DuplicateCount()),
		"",
	}

	if opts.DuplicateIDs {
		if section := DuplicateIDsSection(state, opts.Roots, opts.Now); section != "" {
			lines = append(lines, section)
		}
	}
	if opts.TagsSummary {
		if section := TagsSummarySection(state, opts.Now); section != "" {
			lines = append(lines, section)
		}
	}

	return strings.Join(lines, "\n")
}

// DuplicateIDsSection lists every identifier with more than one occurrence.
// It returns "" when there are none.
func DuplicateIDsSection(state *index.State, roots []string, now time.Time) string {
	ids := state.DuplicateIDs()
	if len(ids) == 0 {
		return ""
	}

	tbl := ui.NewTable("id", "No. Files", "No. Instances", "files")
	for _, id := range ids {
		occurrences := state.Occurrences(id)

		links := make([]string, 0, len(occurrences))
		for _, occ := range occurrences {
			links = append(links, Link(occ.Path, occ.Offset, roots))
		}

		tbl.AddRow(
			id,
			strconv.Itoa(state.FileCountFor(id)),
			strconv.Itoa(len(occurrences)),
			strings.Join(links, ", "),
		)
	}

	return section(duplicateIDsHeading, tbl, now)
}

// TagsSummarySection lists tags carried by more than one document. It
// returns "" when there are none.
func TagsSummarySection(state *index.State, now time.Time) string {
	tags := state.RepeatedTags()
	if len(tags) == 0 {
		return ""
	}

	tbl := ui.NewTable("tag", "No. Files")
	for _, tag := range tags {
		tbl.AddRow(tag, strconv.Itoa(state.TagFileCount(tag)))
	}

	return section(tagsSummaryHeading, tbl, now)
}

func section(heading string, tbl *ui.Table, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("* " + heading + "\n")
	sb.WriteString(":PROPERTIES:\n")
	sb.WriteString(":CREATED:  " + dates.FormatTimestamp(now) + "\n")
	sb.WriteString(":END:\n")
	sb.WriteString("\n")
	sb.WriteString(tbl.String())
	sb.WriteString("\n")
	return sb.String()
}

// Link renders an org link to a byte offset in a document:
// [[file:<absolute path>::<offset>][<display path>::<offset>]].
func Link(path string, offset int, roots []string) string {
	target := path
	if abs, err := filepath.Abs(path); err == nil {
		target = abs
	}
	return fmt.Sprintf("[[file:%s::%d][%s::%d]]", target, offset, DisplayPath(path, roots), offset)
}

// DisplayPath shortens path relative to the first root that lexically
// contains it, keeping symlinked directory names as written. Without a
// matching root the bare file name is used.
func DisplayPath(path string, roots []string) string {
	for _, root := range roots {
		if rel, ok := relativeTo(path, root); ok {
			return rel
		}
	}
	return filepath.Base(path)
}

func relativeTo(path, root string) (string, bool) {
	path = filepath.Clean(path)
	root = filepath.Clean(root)

	if root == "." && !filepath.IsAbs(path) {
		return path, true
	}
	if path == root {
		return ".", true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if strings.HasPrefix(path, prefix) {
		return strings.TrimPrefix(path, prefix), true
	}
	return "", false
}
