package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("warn by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, Options{})

		logger.Debug("hidden debug")
		logger.Info("hidden info")
		logger.Warn("shown warning")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown warning")
		assert.Contains(t, out, Prefix)
	})

	t.Run("debug lowers the threshold", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, Options{Debug: true})

		logger.Debug("Found 3 files")
		assert.Contains(t, buf.String(), "Found 3 files")
		assert.Equal(t, log.DebugLevel, logger.GetLevel())
	})

	t.Run("buffers are not terminals", func(t *testing.T) {
		assert.False(t, IsTerminal(&bytes.Buffer{}))
	})
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))

	var buf bytes.Buffer
	logger := log.New(&buf)
	assert.Same(t, logger, OrDiscard(logger))
}

func TestStylesCoverLevels(t *testing.T) {
	styles := Styles()
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel, log.FatalLevel} {
		_, ok := styles.Levels[level]
		assert.True(t, ok, "level %s", level)
	}
}
