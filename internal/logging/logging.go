// Package logging builds the diagnostic logger shared by the scanner and
// the command line.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/orglint/internal/ui"
)

// Prefix is printed before every log line.
const Prefix = "org-linter"

// Options configures New.
type Options struct {
	// Debug lowers the threshold from warn to debug.
	Debug bool

	// Color forces styled output even when the writer is not a terminal.
	Color bool
}

// New returns a logger writing to w. Warnings and errors are always
// emitted; debug and info only with Options.Debug.
func New(w io.Writer, opts Options) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  Level(opts.Debug),
	})
	if opts.Color || IsTerminal(w) {
		logger.SetStyles(Styles())
	}
	return logger
}

// Level maps the debug switch to a log level.
func Level(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styles returns the log styles in the CLI palette.
func Styles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Prefix = ui.Muted
	styles.Key = ui.Accent
	styles.Separator = ui.Muted
	styles.Levels[log.DebugLevel] = levelStyle("DEBU").Inherit(ui.Muted)
	styles.Levels[log.InfoLevel] = levelStyle("INFO").Inherit(ui.Accent)
	styles.Levels[log.WarnLevel] = levelStyle("WARN").Inherit(ui.AccentBold)
	styles.Levels[log.ErrorLevel] = levelStyle("ERRO").Inherit(ui.Bold)
	styles.Levels[log.FatalLevel] = levelStyle("FATA").Inherit(ui.Bold)
	return styles
}

func levelStyle(label string) lipgloss.Style {
	return lipgloss.NewStyle().SetString(label).MaxWidth(4)
}
