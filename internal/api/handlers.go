// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package api

import (
	"context"
	"time"

	"github.com/tomtom215/geoscan/internal/pipeline"
)

// ScanRunner runs one scan-and-publish request.
type ScanRunner interface {
	Run(ctx context.Context, dir string) (pipeline.Summary, error)
}

// ReadinessCheck reports whether the service can accept scans.
type ReadinessCheck func(ctx context.Context) error

// HandlerConfig holds handler behavior settings.
type HandlerConfig struct {
	// ReportPipelineErrors maps failed scans to 422/502 instead of 200.
	ReportPipelineErrors bool

	// MaxBodyBytes bounds the scan request body.
	MaxBodyBytes int64

	// ReadyTimeout bounds the readiness check.
	ReadyTimeout time.Duration
}

// DefaultHandlerConfig returns the default handler settings.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		ReportPipelineErrors: false,
		MaxBodyBytes:         64 << 10,
		ReadyTimeout:         3 * time.Second,
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_scan.go: scan endpoint
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	runner    ScanRunner
	ready     ReadinessCheck
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler. ready may be nil, in which case the service
// always reports ready.
func NewHandler(runner ScanRunner, ready ReadinessCheck, cfg HandlerConfig) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultHandlerConfig().MaxBodyBytes
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultHandlerConfig().ReadyTimeout
	}
	return &Handler{
		runner:    runner,
		ready:     ready,
		config:    cfg,
		startTime: time.Now(),
	}
}
