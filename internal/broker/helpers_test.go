// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"testing"
	"time"
)

const testSubject = "geoscan.exif.test"

// startServer runs an embedded JetStream server on a random port with the
// test stream provisioned.
func startServer(t *testing.T) *EmbeddedServer {
	t.Helper()

	cfg := ServerConfig{
		Host:              "127.0.0.1",
		Port:              -1,
		StoreDir:          t.TempDir(),
		JetStreamMaxMem:   16 << 20,
		JetStreamMaxStore: 64 << 20,
		NoLog:             true,
	}
	srv, err := NewEmbeddedServer(&cfg)
	if err != nil {
		t.Fatalf("start embedded server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stream := DefaultStreamConfig(testSubject)
	stream.MemoryStorage = true
	if err := ProvisionStream(ctx, srv.ClientURL(), stream); err != nil {
		t.Fatalf("provision stream: %v", err)
	}
	return srv
}

func testConfig(url, driver string) Config {
	cfg := DefaultConfig(url)
	cfg.Driver = driver
	cfg.ConnectTimeout = 2 * time.Second
	cfg.SendTimeout = 2 * time.Second
	cfg.RetryAttempts = 1
	cfg.RetryWait = 10 * time.Millisecond
	cfg.Breaker.Name = "test-" + driver
	return cfg
}

func envelope(key string, payload string) Envelope {
	return Envelope{
		Subject: testSubject,
		Key:     key,
		Payload: []byte(payload),
		Headers: map[string]string{HeaderKey: key, HeaderTag: "exif_data"},
	}
}
