// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedServer_Lifecycle(t *testing.T) {
	t.Parallel()

	cfg := ServerConfig{Host: "127.0.0.1", Port: -1, StoreDir: t.TempDir(), NoLog: true}
	srv, err := NewEmbeddedServer(&cfg)
	if err != nil {
		t.Fatalf("NewEmbeddedServer: %v", err)
	}

	if !srv.IsRunning() {
		t.Error("expected server to be running")
	}
	if !srv.JetStreamEnabled() {
		t.Error("expected JetStream to be enabled")
	}
	if !strings.HasPrefix(srv.ClientURL(), "nats://127.0.0.1:") {
		t.Errorf("ClientURL = %q", srv.ClientURL())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if srv.IsRunning() {
		t.Error("expected server to be stopped")
	}
}
