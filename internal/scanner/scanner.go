// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package scanner walks a directory tree and turns every extractable file
// into an outgoing message.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/tomtom215/geoscan/internal/extractor"
	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/metrics"
	"github.com/tomtom215/geoscan/internal/models"
)

// TraversalError aborts a scan. No messages accompany it.
type TraversalError struct {
	Root string
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	if e.Path == "" || e.Path == e.Root {
		return fmt.Sprintf("walk %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("walk %s: at %s: %v", e.Root, e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// specialFileMode covers entries that are not regular data. Opening a
// FIFO blocks until a writer appears, so these never reach the extractor.
const specialFileMode = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

// Extractor produces a record for one file.
type Extractor interface {
	Extract(path string) (*models.Record, error)
}

// Stats summarizes one scan. It is informational only.
type Stats struct {
	Files     int
	Extracted int
	Skipped   int
}

// Scanner walks directories with a fixed extractor.
type Scanner struct {
	extractor Extractor
}

// New creates a Scanner. A nil extractor reads from the local filesystem.
func New(ex Extractor) *Scanner {
	if ex == nil {
		ex = extractor.New(nil)
	}
	return &Scanner{extractor: ex}
}

// Scan walks root in lexical order and returns one message per file the
// extractor accepted, in walk order.
//
// Files that fail extraction are logged and skipped, as are named pipes,
// sockets and device nodes, which are never opened. Any error from the walk
// itself (missing root, unreadable directory) stops the scan and is returned
// as a *TraversalError with no messages. Symbolic links to directories are
// not followed.
//
// ctx is used for log correlation only; a scan runs to completion.
func (s *Scanner) Scan(ctx context.Context, root string) ([]models.Message, error) {
	logger := logging.Ctx(ctx).With().Str("root", root).Logger()

	var (
		messages []models.Message
		stats    Stats
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &TraversalError{Root: root, Path: path, Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}

		stats.Files++
		metrics.RecordFileScanned()

		skip := func(err error) {
			stats.Skipped++
			kind := "unknown"
			var extErr *extractor.ExtractionError
			if errors.As(err, &extErr) {
				kind = extErr.Kind.String()
			}
			metrics.RecordExtractionFailure(kind)
			logger.Warn().Err(err).Str("path", path).Str("kind", kind).Msg("Skipping file")
		}

		if d.Type()&specialFileMode != 0 {
			skip(&extractor.ExtractionError{
				Path: path,
				Kind: extractor.Unreadable,
				Err:  fmt.Errorf("not a regular file (%s)", d.Type()),
			})
			return nil
		}

		rec, err := s.extractor.Extract(path)
		if err != nil {
			skip(err)
			return nil
		}

		stats.Extracted++
		messages = append(messages, models.Serialize(rec))
		logger.Debug().Str("path", path).Msg("Record extracted")
		return nil
	})
	if err != nil {
		var travErr *TraversalError
		if !errors.As(err, &travErr) {
			travErr = &TraversalError{Root: root, Err: err}
		}
		logger.Error().Err(travErr).Int("files", stats.Files).Msg("Scan aborted")
		return nil, travErr
	}

	logger.Info().
		Int("files", stats.Files).
		Int("extracted", stats.Extracted).
		Int("skipped", stats.Skipped).
		Msg("Scan complete")

	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Scan walks root with the filesystem extractor.
func Scan(ctx context.Context, root string) ([]models.Message, error) {
	return New(nil).Scan(ctx, root)
}
