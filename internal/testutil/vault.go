// Package testutil provides reusable test utilities for building document
// corpora on disk.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TestVault represents a temporary directory of documents for testing.
type TestVault struct {
	Path     string
	t        *testing.T
	files    map[string]string
	dirs     []string
	symlinks map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:        t,
		files:    make(map[string]string),
		symlinks: make(map[string]string),
	}
}

// WithFile adds a file to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithDir adds an empty directory to the vault.
func (v *TestVault) WithDir(path string) *TestVault {
	v.dirs = append(v.dirs, path)
	return v
}

// WithSymlink adds a symbolic link at path pointing to target. A relative
// target is resolved by the filesystem relative to the link's directory;
// use Abs to point at an absolute location inside the vault.
func (v *TestVault) WithSymlink(path, target string) *TestVault {
	v.symlinks[path] = target
	return v
}

// Build creates the vault directory, then directories, files and finally
// symlinks, so links may point at anything declared on the builder.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()

	for _, dir := range v.dirs {
		v.mkdir(dir)
	}

	for path, content := range v.files {
		v.writeFile(path, content)
	}

	// Deterministic order keeps links to links predictable.
	links := make([]string, 0, len(v.symlinks))
	for path := range v.symlinks {
		links = append(links, path)
	}
	sort.Strings(links)
	for _, path := range links {
		v.symlink(path, v.symlinks[path])
	}

	return v
}

// Abs returns the absolute path of a vault-relative path.
func (v *TestVault) Abs(relPath string) string {
	return filepath.Join(v.Path, relPath)
}

func (v *TestVault) mkdir(relPath string) {
	v.t.Helper()
	dir := filepath.Join(v.Path, relPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
}

// writeFile writes a file to the vault, creating directories as needed.
func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	v.mkdir(filepath.Dir(relPath))

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

func (v *TestVault) symlink(relPath, target string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)

	v.mkdir(filepath.Dir(relPath))

	if err := os.Symlink(target, fullPath); err != nil {
		v.t.Fatalf("failed to create symlink %s -> %s: %v", fullPath, target, err)
	}
}

// ReadFile reads a file from the vault.
// Returns the content as a string.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// SkipWithoutSymlinks skips the test when the platform cannot create
// symbolic links for the current user.
func SkipWithoutSymlinks(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Symlink(dir, filepath.Join(dir, "probe")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}
