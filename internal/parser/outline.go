// Package parser handles parsing outline-markup (org) documents.
package parser

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBinaryContent is returned for documents that contain NUL bytes.
var ErrBinaryContent = errors.New("binary content")

var (
	headingRe  = regexp.MustCompile(`^(\*+)[ \t]+(.*)$`)
	tagsRe     = regexp.MustCompile(`^(?:(.*?)[ \t]+)?:([\p{L}\p{N}_@#%:]+):[ \t]*$`)
	propertyRe = regexp.MustCompile(`^[ \t]*:([^:\s]+):[ \t]*(.*?)[ \t]*$`)
	keywordRe  = regexp.MustCompile(`^[ \t]*#\+([^:\s]+):[ \t]*(.*?)[ \t]*$`)
)

// Node is a node of a document's heading tree.
type Node interface {
	// IsRoot reports whether this is the file-level root node.
	IsRoot() bool
	// Level is the number of heading stars (0 for the root).
	Level() int
	// Line is the 1-indexed source line of the heading (1 for the root).
	Line() int
	// Title is the heading text without stars and tags.
	Title() string
	// Tags are the node's own tags, not inherited ones.
	Tags() []string
	// Property looks up a key in the node's property drawer.
	Property(key string) (string, bool)
	// Children are the direct sub-headings in document order.
	Children() []Node
}

// FileNode is a root node that also exposes file-level metadata lines.
type FileNode interface {
	Node
	FileProperty(key string) (string, bool)
}

// section holds what roots and headings have in common.
type section struct {
	line       int
	tags       []string
	properties map[string]string
	children   []Node
	body       []string
}

func (s *section) Line() int { return s.line }

func (s *section) Tags() []string { return s.tags }

func (s *section) Children() []Node { return s.children }

// Body returns the section text with the property drawer removed.
func (s *section) Body() string { return strings.Join(s.body, "\n") }

// Property returns the drawer value for key. Keys match case-insensitively
// and empty values are treated as absent.
func (s *section) Property(key string) (string, bool) {
	v, ok := s.properties[strings.ToUpper(key)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Properties returns a copy of the drawer, keyed by upper-cased property name.
func (s *section) Properties() map[string]string {
	out := make(map[string]string, len(s.properties))
	for k, v := range s.properties {
		out[k] = v
	}
	return out
}

// Heading is a `*`-prefixed section of a document.
type Heading struct {
	section
	level int
	title string
}

func (h *Heading) IsRoot() bool { return false }

func (h *Heading) Level() int { return h.level }

func (h *Heading) Title() string { return h.title }

// Keyword is a `#+KEY: value` file-level metadata line.
type Keyword struct {
	Key   string
	Value string
	Line  int
}

// Root is the file-level node: metadata lines, the root property drawer and
// the top-level headings.
type Root struct {
	section
	keywords []Keyword
}

func (r *Root) IsRoot() bool { return true }

func (r *Root) Level() int { return 0 }

func (r *Root) Title() string { return "" }

// Keywords returns the file-level metadata lines in document order.
func (r *Root) Keywords() []Keyword { return r.keywords }

// FileProperty returns the first non-empty `#+KEY:` value for key.
func (r *Root) FileProperty(key string) (string, bool) {
	for _, kw := range r.keywords {
		if strings.EqualFold(kw.Key, key) && kw.Value != "" {
			return kw.Value, true
		}
	}
	return "", false
}

// ParseOutline builds the heading tree of an outline document.
//
// Only the structure needed for linting is recognized: headings with
// trailing tags, property drawers and file-level `#+KEY:` lines.
func ParseOutline(content string) (*Root, error) {
	if strings.IndexByte(content, 0) >= 0 {
		return nil, ErrBinaryContent
	}

	root := &Root{section: section{line: 1}}
	headings := make([]*Heading, 0)
	var open []*Heading
	current := &root.section

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSuffix(raw, "\r")

		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			current.body = append(current.body, line)
			continue
		}

		h := &Heading{
			section: section{line: i + 1},
			level:   len(m[1]),
		}
		h.title, h.tags = splitTags(m[2])

		for len(open) > 0 && open[len(open)-1].level >= h.level {
			open = open[:len(open)-1]
		}
		if len(open) == 0 {
			root.children = append(root.children, h)
		} else {
			parent := open[len(open)-1]
			parent.children = append(parent.children, h)
		}
		open = append(open, h)
		headings = append(headings, h)
		current = &h.section
	}

	root.keywords = parseKeywords(root.body, 1)
	root.properties, root.body = splitDrawer(root.body)
	for _, kw := range root.keywords {
		if strings.EqualFold(kw.Key, "FILETAGS") {
			root.tags = append(root.tags, splitTagList(kw.Value)...)
		}
	}
	for _, h := range headings {
		h.properties, h.body = splitDrawer(h.body)
	}

	return root, nil
}

// Walk visits root and its descendants in pre-order, children in document
// order. It uses an explicit stack so deep trees do not grow the call stack.
func Walk(root Node, fn func(Node) error) error {
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(n); err != nil {
			return err
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

// splitTags separates a heading's trailing `:tag:tag:` group from its title.
func splitTags(text string) (string, []string) {
	m := tagsRe.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text), nil
	}
	return strings.TrimSpace(m[1]), splitTagList(m[2])
}

func splitTagList(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ":") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// splitDrawer extracts the first property drawer from a section's lines and
// returns the remaining lines. An unterminated drawer runs to the end.
func splitDrawer(lines []string) (map[string]string, []string) {
	const (
		before = iota
		inside
		after
	)

	var props map[string]string
	rest := make([]string, 0, len(lines))
	state := before

	for _, line := range lines {
		switch state {
		case before:
			if isMarker(line, ":PROPERTIES:") {
				props = make(map[string]string)
				state = inside
				continue
			}
			rest = append(rest, line)
		case inside:
			if isMarker(line, ":END:") {
				state = after
				continue
			}
			if m := propertyRe.FindStringSubmatch(line); m != nil {
				props[strings.ToUpper(m[1])] = m[2]
			}
		default:
			rest = append(rest, line)
		}
	}

	return props, rest
}

func isMarker(line, marker string) bool {
	return strings.EqualFold(strings.TrimSpace(line), marker)
}

// parseKeywords collects `#+KEY: value` lines. firstLine is the line number
// of lines[0].
func parseKeywords(lines []string, firstLine int) []Keyword {
	var keywords []Keyword
	for i, line := range lines {
		m := keywordRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		keywords = append(keywords, Keyword{
			Key:   m[1],
			Value: m[2],
			Line:  firstLine + i,
		})
	}
	return keywords
}
