// Package scan runs the lint pipeline: discover documents, parse them in a
// bounded worker pool, and fold the results in discovery order.
package scan

import (
	"context"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/orglint/internal/index"
	"github.com/aidanlsb/orglint/internal/logging"
	"github.com/aidanlsb/orglint/internal/parser"
	"github.com/aidanlsb/orglint/internal/vault"
)

// Scanner holds the pipeline settings. The zero value scans .org files
// with one worker per CPU and logs nothing.
type Scanner struct {
	Logger    *log.Logger
	Workers   int
	Extension string
	Exclude   []string
}

// Result is the outcome of one scan.
type Result struct {
	// Files are the discovered document paths in discovery order.
	Files []string

	// State is the aggregate over every file, including ones that failed
	// to parse.
	State *index.State
}

// Run scans every root. Per-file failures are logged and counted as empty
// documents; only discovery setup errors and cancellation are returned.
func (s *Scanner) Run(ctx context.Context, roots []string) (*Result, error) {
	logger := logging.OrDiscard(s.Logger)

	logger.Debug("Scanning directories", "roots", roots)
	files, err := vault.FindDocuments(roots, &vault.WalkOptions{
		Extension: s.Extension,
		Exclude:   s.Exclude,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	logger.Debugf("Found %d files", len(files))

	docs, err := s.parseAll(ctx, files, logger)
	if err != nil {
		return nil, err
	}

	return &Result{Files: files, State: index.Aggregate(docs)}, nil
}

// parseAll parses files concurrently. Each worker writes only its own slot,
// so the returned slice is in the same order as files.
func (s *Scanner) parseAll(ctx context.Context, files []string, logger *log.Logger) ([]*parser.ParsedDocument, error) {
	docs := make([]*parser.ParsedDocument, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("Parsing " + path)
			docs[i] = parser.ParseFile(path, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse documents: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse documents: %w", err)
	}
	return docs, nil
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}
