// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const (
	embeddedServerName = "geoscan"

	// embeddedReadyTimeout bounds how long NewEmbeddedServer waits for the
	// listener to accept connections.
	embeddedReadyTimeout = 30 * time.Second

	// embeddedMaxPayload is far above any serialized EXIF record.
	embeddedMaxPayload = 1 << 20
)

// EmbeddedServer is an in-process nats-server with JetStream enabled, used
// when no external broker is configured and by tests.
type EmbeddedServer struct {
	ns *server.Server
}

// NewEmbeddedServer starts a server from cfg and returns once it accepts
// connections. Port -1 picks a random free port.
func NewEmbeddedServer(cfg *ServerConfig) (*EmbeddedServer, error) {
	ns, err := server.NewServer(embeddedOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	if !cfg.NoLog {
		ns.ConfigureLogger()
	}

	go ns.Start()
	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", embeddedReadyTimeout)
	}
	return &EmbeddedServer{ns: ns}, nil
}

func embeddedOptions(cfg *ServerConfig) *server.Options {
	return &server.Options{
		ServerName:         embeddedServerName,
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMem,
		JetStreamMaxStore:  cfg.JetStreamMaxStore,
		MaxPayload:         embeddedMaxPayload,
		NoLog:              cfg.NoLog,
		NoSigs:             true,
	}
}

// ClientURL is the address publishers dial, with the resolved port.
func (s *EmbeddedServer) ClientURL() string {
	return s.ns.ClientURL()
}

// Shutdown stops the server. It returns ctx.Err() if the server has not
// finished stopping when ctx ends.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.ns.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.ns.WaitForShutdown()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EmbeddedServer) IsRunning() bool {
	return s.ns.Running()
}

func (s *EmbeddedServer) JetStreamEnabled() bool {
	return s.ns.JetStreamEnabled()
}
