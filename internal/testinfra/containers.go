// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// dockerProbeTimeout bounds the daemon health check.
const dockerProbeTimeout = 5 * time.Second

// SkipIfNoDocker skips the test when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if err := dockerHealth(); err != nil {
		t.Skipf("Skipping test: Docker not available: %v", err)
	}
}

// IsDockerAvailable reports whether a Docker daemon answers a health check.
func IsDockerAvailable() bool {
	return dockerHealth() == nil
}

func dockerHealth() error {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), dockerProbeTimeout)
	defer cancel()
	return provider.Health(ctx)
}

// ContainerLogger routes testcontainers output to t.Logf.
type ContainerLogger struct {
	t *testing.T
}

func NewContainerLogger(t *testing.T) *ContainerLogger {
	return &ContainerLogger{t: t}
}

// Printf implements testcontainers log.Logger.
func (l *ContainerLogger) Printf(format string, v ...any) {
	l.t.Logf(format, v...)
}

// CleanupContainer terminates c, logging rather than failing on error.
func CleanupContainer(t *testing.T, ctx context.Context, c testcontainers.Container) {
	t.Helper()
	if c == nil {
		return
	}
	if err := c.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}
