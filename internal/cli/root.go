// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/orglint/internal/dates"
	"github.com/aidanlsb/orglint/internal/logging"
	"github.com/aidanlsb/orglint/internal/report"
	"github.com/aidanlsb/orglint/internal/scan"
)

// now stamps the report. Tests replace it.
var now dates.Clock = time.Now

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "org-linter [flags] <dir>...",
		Short: "Report duplicate IDs and shared tags across org files",
		Long: `org-linter scans directories for .org files, following symbolic links,
and prints an org-mode report to standard output.

The report always carries the number of files scanned, distinct IDs and
duplicated IDs. Optional sections list every repeated ID with links to
each occurrence, and every tag shared by more than one file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments parsed; from here on failures are logged, not usage errors.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return opts.run(cmd, args)
		},
	}

	opts.bind(cmd.Flags())

	info := currentVersionInfo()
	cmd.Version = info.Version
	cmd.SetVersionTemplate(versionText(info))

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Debug: o.debug})

	cfg, err := o.loadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		return err
	}
	if err := o.apply(cmd.Flags(), cfg); err != nil {
		logger.Error("Invalid option", "error", err)
		return err
	}

	if err := validateDirectories(args, logger); err != nil {
		return err
	}

	scanner := &scan.Scanner{
		Logger:    logger,
		Workers:   cfg.WorkerCount(),
		Extension: cfg.Extension,
		Exclude:   cfg.Exclude,
	}
	res, err := scanner.Run(cmd.Context(), args)
	if err != nil {
		logger.Error("Scan failed", "error", err)
		return err
	}

	if len(res.Files) == 0 {
		logger.Warnf("No %s files found in specified directories", cfg.Extension)
	}

	out := report.Generate(res.State, report.Options{
		Roots:        args,
		DuplicateIDs: cfg.Features.DuplicateIDs,
		TagsSummary:  cfg.Features.TagsSummary,
		Now:          now(),
	})
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// validateDirectories checks every argument before anything is scanned and
// logs each one that is not an existing directory.
func validateDirectories(dirs []string, logger *log.Logger) error {
	var first error
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			continue
		}
		logger.Error("Directory not found", "path", dir)
		if first == nil {
			first = fmt.Errorf("%w: %s", ErrInvalidDirectory, dir)
		}
	}
	return first
}
