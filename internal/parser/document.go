package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/aidanlsb/orglint/internal/logging"
)

// IdentifierKey is the property name that carries a node's identifier.
const IdentifierKey = "ID"

// IdentifierRecord is one occurrence of an identifier.
type IdentifierRecord struct {
	ID     string // Identifier as written
	Offset int    // Byte offset of the start of the owning heading line (0 for file-level)
	Path   string // Document path as discovered
}

// ParsedDocument holds what was extracted from one document.
type ParsedDocument struct {
	Path string
	IDs  []IdentifierRecord  // Pre-order traversal order; repeats are kept
	Tags map[string]struct{} // Union of every node's own tags
}

// TagList returns the document's tags in no particular order.
func (d *ParsedDocument) TagList() []string {
	tags := make([]string, 0, len(d.Tags))
	for t := range d.Tags {
		tags = append(tags, t)
	}
	return tags
}

func emptyDocument(path string) *ParsedDocument {
	return &ParsedDocument{Path: path, Tags: make(map[string]struct{})}
}

// ParseFile reads and parses one document. Failures are logged as warnings
// and produce an empty result; they never abort the caller.
func ParseFile(path string, logger *log.Logger) *ParsedDocument {
	logger = logging.OrDiscard(logger)

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read document", "path", path, "error", err)
		return emptyDocument(path)
	}

	doc, err := ParseDocument(content, path, logger)
	if err != nil {
		logger.Warn("failed to parse document", "path", path, "error", err)
		return emptyDocument(path)
	}
	return doc
}

// ParseDocument extracts identifiers and tags from raw document bytes.
// Invalid UTF-8 sequences are dropped before parsing.
func ParseDocument(content []byte, path string, logger *log.Logger) (*ParsedDocument, error) {
	logger = logging.OrDiscard(logger)

	text := strings.ToValidUTF8(string(content), "")
	root, err := ParseOutline(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	doc := emptyDocument(path)
	starts := computeLineStarts(text)

	err = Walk(root, func(n Node) error {
		if id, kind := identifierOf(n); id != "" {
			offset := starts.offset(n.Line())
			doc.IDs = append(doc.IDs, IdentifierRecord{ID: id, Offset: offset, Path: path})
			logger.Debug("extracted identifier", "kind", kind, "id", id, "offset", offset)
		}
		for _, tag := range n.Tags() {
			doc.Tags[tag] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// identifierOf returns a node's identifier and its kind for debug output.
// On the root a `#+ID:` line takes precedence over the root drawer.
func identifierOf(n Node) (string, string) {
	if !n.IsRoot() {
		id, _ := n.Property(IdentifierKey)
		return id, "heading"
	}
	if fn, ok := n.(FileNode); ok {
		if id, ok := fn.FileProperty(IdentifierKey); ok {
			return id, "file-level"
		}
	}
	id, _ := n.Property(IdentifierKey)
	return id, "file-level"
}

// lineStarts holds the byte offset of the start of each '\n'-separated line.
type lineStarts []int

// computeLineStarts counts every line's UTF-8 bytes plus one for its newline.
func computeLineStarts(content string) lineStarts {
	starts := lineStarts{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offset returns the byte offset of the 1-indexed line. Line numbers of 1
// or less map to 0; numbers past the end clamp to the last line start.
func (s lineStarts) offset(line int) int {
	if line <= 1 {
		return 0
	}
	idx := line - 1
	if idx >= len(s) {
		idx = len(s) - 1
	}
	return s[idx]
}
