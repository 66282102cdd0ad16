// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package pipeline runs one scan-and-publish request: scan a directory, then
// publish every resulting message in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/metrics"
	"github.com/tomtom215/geoscan/internal/models"
	"github.com/tomtom215/geoscan/internal/publisher"
	"github.com/tomtom215/geoscan/internal/scanner"
)

// Request sources used as metric labels.
const (
	SourceHTTP = "http"
	SourceCLI  = "cli"
)

// Scanner produces messages for a directory.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]models.Message, error)
}

// Publisher delivers messages to the broker.
type Publisher interface {
	Publish(ctx context.Context, msgs []models.Message) error
}

// Summary describes a completed or failed run.
type Summary struct {
	Directory string
	// Messages is the number of messages the scan produced.
	Messages int
	// Published is the number of messages the broker acknowledged.
	Published int
	Duration time.Duration
}

// Service wires a scanner to a publisher.
type Service struct {
	scanner   Scanner
	publisher Publisher
	source    string
}

// New creates a Service. source labels the run in metrics.
func New(sc Scanner, pub Publisher, source string) (*Service, error) {
	if sc == nil {
		return nil, errors.New("scanner required")
	}
	if pub == nil {
		return nil, errors.New("publisher required")
	}
	if source == "" {
		source = SourceHTTP
	}
	return &Service{scanner: sc, publisher: pub, source: source}, nil
}

// Run scans dir and publishes the result.
//
// A traversal error stops the run before anything is published and is
// returned wrapped (errors.As with *scanner.TraversalError). A publish error
// is returned wrapped as well; messages acknowledged before it stay published.
// The returned Summary is filled in either case.
func (s *Service) Run(ctx context.Context, dir string) (Summary, error) {
	start := time.Now()
	summary := Summary{Directory: dir}
	logger := logging.Ctx(ctx).With().Str("directory", dir).Str("source", s.source).Logger()

	msgs, err := s.scanner.Scan(ctx, dir)
	if err != nil {
		summary.Duration = time.Since(start)
		metrics.RecordScan(s.source, metrics.OutcomeTraversalError, summary.Duration)
		return summary, fmt.Errorf("scan %s: %w", dir, err)
	}
	summary.Messages = len(msgs)

	if err := s.publisher.Publish(ctx, msgs); err != nil {
		summary.Duration = time.Since(start)
		summary.Published = acknowledged(err)
		metrics.RecordScan(s.source, metrics.OutcomePublishError, summary.Duration)
		return summary, fmt.Errorf("publish %d messages from %s: %w", len(msgs), dir, err)
	}

	summary.Published = len(msgs)
	summary.Duration = time.Since(start)
	metrics.RecordScan(s.source, metrics.OutcomeCompleted, summary.Duration)
	logger.Info().
		Int("messages", summary.Messages).
		Dur("duration", summary.Duration).
		Msg("Scan and publish completed")
	return summary, nil
}

// acknowledged returns how many messages were published before err.
// Only a delivery failure leaves earlier messages published.
func acknowledged(err error) int {
	var delErr *publisher.DeliveryError
	if errors.As(err, &delErr) {
		return delErr.Index
	}
	return 0
}

// IsTraversal reports whether err came from walking the directory tree.
func IsTraversal(err error) bool {
	var travErr *scanner.TraversalError
	return errors.As(err, &travErr)
}
