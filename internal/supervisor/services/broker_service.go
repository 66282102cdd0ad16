// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/geoscan/internal/logging"
)

// EmbeddedBroker matches the *broker.EmbeddedServer lifecycle methods.
type EmbeddedBroker interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// EmbeddedBrokerService supervises an already started embedded NATS server.
//
// The server is started before the tree so the stream can be provisioned
// before the API accepts scans. Serve watches it and shuts it down when the
// tree stops. A server that dies cannot be restarted in place, so Serve
// returns suture.ErrTerminateSupervisorTree and the process exits.
type EmbeddedBrokerService struct {
	server          EmbeddedBroker
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	name            string
}

// NewEmbeddedBrokerService creates a supervised wrapper for server.
func NewEmbeddedBrokerService(server EmbeddedBroker, shutdownTimeout time.Duration) *EmbeddedBrokerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EmbeddedBrokerService{
		server:          server,
		checkInterval:   5 * time.Second,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-embedded",
	}
}

// Serve implements suture.Service.
func (s *EmbeddedBrokerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("embedded NATS shutdown failed: %w", err)
			}
			logging.Info().Msg("Embedded NATS server stopped")
			return ctx.Err()

		case <-ticker.C:
			if !s.server.IsRunning() {
				logging.Error().Msg("Embedded NATS server is no longer running")
				return suture.ErrTerminateSupervisorTree
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *EmbeddedBrokerService) String() string {
	return s.name
}
