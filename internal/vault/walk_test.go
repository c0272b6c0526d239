package vault

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/orglint/internal/testutil"
)

func TestFindDocuments(t *testing.T) {
	t.Run("finds documents recursively in sorted order", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("z_file.org", "* Z\n").
			WithFile("a_file.org", "* A\n").
			WithFile("nested/deeper/inner.org", "* Inner\n").
			WithFile("readme.md", "# not org\n").
			WithFile("notes.org.bak", "* backup\n").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			v.Abs("a_file.org"),
			v.Abs("nested/deeper/inner.org"),
			v.Abs("z_file.org"),
		}, docs)
	})

	t.Run("empty directory", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithDir("empty").Build()

		docs, err := FindDocuments([]string{v.Abs("empty")}, nil)
		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NotNil(t, docs)
	})

	t.Run("multiple roots", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("one/a.org", "").
			WithFile("two/b.org", "").
			Build()

		docs, err := FindDocuments([]string{v.Abs("two"), v.Abs("one")}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("one/a.org"), v.Abs("two/b.org")}, docs)
	})

	t.Run("overlapping roots visit each directory once", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("top.org", "").
			WithFile("sub/inner.org", "").
			Build()

		docs, err := FindDocuments([]string{v.Path, v.Abs("sub")}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("sub/inner.org"), v.Abs("top.org")}, docs)
	})

	t.Run("directory named like a document is descended", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("archive.org/inside.org", "").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("archive.org/inside.org")}, docs)
	})

	t.Run("custom extension", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("a.org", "").
			WithFile("b.txt", "").
			Build()

		docs, err := FindDocuments([]string{v.Path}, &WalkOptions{Extension: ".txt"})
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("b.txt")}, docs)
	})
}

func TestFindDocumentsSymlinks(t *testing.T) {
	testutil.SkipWithoutSymlinks(t)

	t.Run("follows directory symlinks", func(t *testing.T) {
		target := testutil.NewTestVault(t).WithFile("linked.org", "* L\n").Build()
		v := testutil.NewTestVault(t).
			WithFile("local.org", "").
			WithSymlink("link", target.Path).
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("link/linked.org"), v.Abs("local.org")}, docs)
	})

	t.Run("self referencing symlink terminates", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("file.org", "").
			WithSymlink("self", ".").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("file.org")}, docs)
	})

	t.Run("ancestor cycle terminates", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("a/b/deep.org", "").
			WithSymlink("a/b/up", "../..").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("a/b/deep.org")}, docs)
	})

	t.Run("mutual cycle between roots terminates", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("left/l.org", "").
			WithFile("right/r.org", "").
			WithSymlink("left/to-right", "../right").
			WithSymlink("right/to-left", "../left").
			Build()

		docs, err := FindDocuments([]string{v.Abs("left"), v.Abs("right")}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("left/l.org"), v.Abs("left/to-right/r.org")}, docs)
	})

	t.Run("symlinked document is reported under link name", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("store/real.txt", "* R\n").
			WithSymlink("alias.org", "store/real.txt").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("alias.org")}, docs)
	})

	t.Run("broken symlink is skipped", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("ok.org", "").
			WithSymlink("dangling.org", "nowhere.org").
			WithSymlink("dangling-dir", "missing-dir").
			Build()

		docs, err := FindDocuments([]string{v.Path}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("ok.org")}, docs)
	})
}

func TestFindDocumentsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	v := testutil.NewTestVault(t).
		WithFile("ok.org", "").
		WithFile("locked/hidden.org", "").
		Build()

	locked := v.Abs("locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	docs, err := FindDocuments([]string{v.Path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{v.Abs("ok.org")}, docs)
}

func TestFindDocumentsExclude(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("keep.org", "").
		WithFile("archive/old.org", "").
		WithFile("projects/draft.org", "").
		WithFile("projects/final.org", "").
		Build()

	t.Run("prunes directories and skips files", func(t *testing.T) {
		docs, err := FindDocuments([]string{v.Path}, &WalkOptions{
			Exclude: []string{"archive/", "**/draft.org"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{v.Abs("keep.org"), v.Abs("projects/final.org")}, docs)
	})

	t.Run("patterns are relative to each root", func(t *testing.T) {
		docs, err := FindDocuments([]string{v.Abs("projects")}, &WalkOptions{
			Exclude: []string{"final.org"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(v.Abs("projects"), "draft.org")}, docs)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := FindDocuments([]string{v.Path}, &WalkOptions{Exclude: []string{"[unclosed"}})
		assert.Error(t, err)
	})
}
