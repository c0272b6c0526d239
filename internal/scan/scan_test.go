package scan

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aidanlsb/orglint/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func identified(id string) string {
	return "* Heading\n:PROPERTIES:\n:ID: " + id + "\n:END:\n"
}

func TestRun(t *testing.T) {
	t.Run("aggregates in discovery order", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("z_file.org", identified("dup")).
			WithFile("a_file.org", identified("dup")).
			WithFile("sub/m.org", "#+ID: unique\n* Tagged :shared:\n").
			WithFile("sub/n.org", "* Other :shared:\n").
			Build()

		res, err := (&Scanner{Workers: 3}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)

		assert.Equal(t, []string{v.Abs("a_file.org"), v.Abs("sub/m.org"), v.Abs("sub/n.org"), v.Abs("z_file.org")}, res.Files)
		assert.Equal(t, res.Files, res.State.Files)
		assert.Equal(t, 4, res.State.FileCount())
		assert.Equal(t, 2, res.State.IDCount())
		assert.Equal(t, []string{"dup"}, res.State.DuplicateIDs())
		assert.Equal(t, v.Abs("a_file.org"), res.State.IDs["dup"][0].Path)
		assert.Equal(t, []string{"shared"}, res.State.RepeatedTags())
	})

	t.Run("worker count does not change the result", func(t *testing.T) {
		b := testutil.NewTestVault(t)
		for i := 0; i < 40; i++ {
			b.WithFile(fmt.Sprintf("%s/f%02d.org", strings.Repeat("d", i%4+1), i), identified("shared-id"))
		}
		v := b.Build()

		serial, err := (&Scanner{Workers: 1}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)
		parallel, err := (&Scanner{Workers: 8}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)

		assert.Equal(t, serial.State, parallel.State)
		assert.Len(t, serial.State.IDs["shared-id"], 40)
	})

	t.Run("unreadable documents count as scanned", func(t *testing.T) {
		v := testutil.NewTestVault(t).
			WithFile("good.org", identified("ok")).
			WithFile("binary.org", "* H\x00\n").
			Build()

		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.WarnLevel)

		res, err := (&Scanner{Logger: logger}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)
		assert.Equal(t, 2, res.State.FileCount())
		assert.Equal(t, 1, res.State.IDCount())
		assert.Contains(t, buf.String(), "binary.org")
	})

	t.Run("debug trace", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFile("a.org", identified("x")).Build()

		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		_, err := (&Scanner{Logger: logger}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Scanning directories")
		assert.Contains(t, out, "Found 1 files")
		assert.Contains(t, out, "Parsing "+v.Abs("a.org"))
	})

	t.Run("empty corpus", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFile("notes.txt", "").Build()

		res, err := (&Scanner{}).Run(context.Background(), []string{v.Path})
		require.NoError(t, err)
		assert.Empty(t, res.Files)
		assert.Equal(t, 0, res.State.FileCount())
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		v := testutil.NewTestVault(t).Build()

		_, err := (&Scanner{Exclude: []string{"[bad"}}).Run(context.Background(), []string{v.Path})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		v := testutil.NewTestVault(t).WithFile("a.org", identified("x")).Build()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := (&Scanner{}).Run(ctx, []string{v.Path})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
