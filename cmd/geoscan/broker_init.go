// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/geoscan/internal/broker"
	"github.com/tomtom215/geoscan/internal/config"
	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/pipeline"
	"github.com/tomtom215/geoscan/internal/publisher"
	"github.com/tomtom215/geoscan/internal/scanner"
)

// brokerShutdownTimeout bounds the embedded server drain.
const brokerShutdownTimeout = 10 * time.Second

// brokerComponents holds the broker resources shared by both front ends.
type brokerComponents struct {
	// server is nil unless the embedded broker is enabled.
	server *broker.EmbeddedServer
	url    string
	stream string
	dial   broker.Dialer
}

// initBroker starts the embedded server if configured, provisions the
// stream and builds the client dialer.
func initBroker(ctx context.Context, cfg *config.Config) (*brokerComponents, error) {
	comps := &brokerComponents{
		url:    cfg.Broker.URL,
		stream: cfg.Broker.Stream,
	}

	if cfg.Broker.EmbeddedServer {
		srvCfg, err := cfg.Broker.EmbeddedServerConfig()
		if err != nil {
			return nil, fmt.Errorf("embedded server config: %w", err)
		}
		srv, err := broker.NewEmbeddedServer(&srvCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded server: %w", err)
		}
		comps.server = srv
		comps.url = srv.ClientURL()
		logging.Info().
			Str("url", comps.url).
			Str("store_dir", srvCfg.StoreDir).
			Msg("Embedded NATS server started")
	}

	provisionCtx, cancel := context.WithTimeout(ctx, cfg.Broker.ConnectTimeout+cfg.Broker.Timeout)
	defer cancel()
	if err := broker.ProvisionStream(provisionCtx, comps.url, cfg.Broker.StreamConfig()); err != nil {
		comps.shutdown()
		return nil, fmt.Errorf("provision stream %s: %w", cfg.Broker.Stream, err)
	}

	clientCfg := cfg.Broker.ClientConfig()
	clientCfg.URL = comps.url
	dial, err := broker.NewDialer(clientCfg)
	if err != nil {
		comps.shutdown()
		return nil, fmt.Errorf("create broker dialer: %w", err)
	}
	comps.dial = dial

	logging.Info().
		Str("stream", cfg.Broker.Stream).
		Str("driver", clientCfg.Driver).
		Msg("Broker ready")
	return comps, nil
}

// readiness reports whether the stream is reachable.
func (c *brokerComponents) readiness(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		return broker.CheckStream(ctx, c.url, c.stream, timeout)
	}
}

// shutdown stops the embedded server outside the supervisor tree.
func (c *brokerComponents) shutdown() {
	if c == nil || c.server == nil || !c.server.IsRunning() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), brokerShutdownTimeout)
	defer cancel()
	if err := c.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
	}
}

// newPipeline builds the scan-and-publish service.
func newPipeline(cfg *config.Config, dial broker.Dialer, source string) (*pipeline.Service, error) {
	pub, err := publisher.New(publisher.Config{
		Subject: cfg.Broker.Subject,
		Timeout: cfg.Broker.Timeout,
		Driver:  cfg.Broker.Driver,
	}, dial)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	return pipeline.New(scanner.New(nil), pub, source)
}
