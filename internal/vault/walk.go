// Package vault discovers outline documents under one or more root
// directories.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/aidanlsb/orglint/internal/logging"
)

// DefaultExtension is the file extension of outline documents.
const DefaultExtension = ".org"

// WalkOptions contains options for discovering documents.
type WalkOptions struct {
	// Extension is the document suffix. Defaults to DefaultExtension.
	Extension string

	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root being walked. A matching directory is
	// pruned; a matching file is skipped.
	Exclude []string

	// Logger receives debug traces for skipped paths.
	Logger *log.Logger
}

// FindDocuments walks every root and returns the paths of all documents,
// sorted lexicographically.
//
// Symbolic links to files and directories are followed. Each directory is
// entered at most once, keyed by its symlink-resolved absolute path; the
// visited set is shared by all roots. Unreadable directories and broken
// links are skipped silently. Returned paths keep the spelling under which
// they were reached.
func FindDocuments(roots []string, opts *WalkOptions) ([]string, error) {
	w, err := newWalker(opts)
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		w.walk(root)
	}

	sort.Strings(w.found)
	return w.found, nil
}

type walker struct {
	ext     string
	exclude []string
	logger  *log.Logger
	visited map[string]struct{}
	found   []string
}

func newWalker(opts *WalkOptions) (*walker, error) {
	w := &walker{
		ext:     DefaultExtension,
		visited: make(map[string]struct{}),
		found:   make([]string, 0),
	}
	if opts != nil {
		if opts.Extension != "" {
			w.ext = opts.Extension
		}
		w.exclude = opts.Exclude
		w.logger = opts.Logger
	}
	w.logger = logging.OrDiscard(w.logger)

	for _, pattern := range w.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return w, nil
}

// walk visits root depth-first with an explicit stack. Directories are
// popped in name order, so the first spelling to reach a directory wins.
func (w *walker) walk(root string) {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !w.enter(dir) {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Debug("skipping unreadable directory", "path", dir, "error", err)
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			// Stat follows symlinks.
			info, err := os.Stat(path)
			if err != nil {
				w.logger.Debug("skipping unresolvable path", "path", path, "error", err)
				continue
			}

			if w.excluded(root, path, info.IsDir()) {
				w.logger.Debug("skipping excluded path", "path", path)
				continue
			}

			switch {
			case strings.HasSuffix(entry.Name(), w.ext) && info.Mode().IsRegular():
				w.found = append(w.found, path)
			case info.IsDir():
				subdirs = append(subdirs, path)
			}
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
}

// enter marks dir as visited and reports whether it should be read.
func (w *walker) enter(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		w.logger.Debug("skipping directory", "path", dir, "error", err)
		return false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		w.logger.Debug("skipping unresolvable directory", "path", dir, "error", err)
		return false
	}
	if _, seen := w.visited[resolved]; seen {
		w.logger.Debug("skipping already visited directory", "path", dir, "resolved", resolved)
		return false
	}
	w.visited[resolved] = struct{}{}
	return true
}

func (w *walker) excluded(root, path string, isDir bool) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
				return true
			}
		}
	}
	return false
}
