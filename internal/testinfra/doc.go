// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package testinfra provides container-backed fixtures for integration tests.
//
// The NATSContainer runs a real nats-server with JetStream enabled, so the
// publish path can be exercised against the same broker build used in
// production rather than the embedded server:
//
//	func TestPublish(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    natsC, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, natsC.Container)
//
//	    dial, _ := broker.NewDialer(broker.DefaultConfig(natsC.URL))
//	    // ...
//	}
//
// Files in this package carry the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// NATS image; later runs use the local cache.
package testinfra
