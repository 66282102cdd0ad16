// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/geoscan/internal/logging"
)

// ProvisionStream connects to url, ensures the stream exists and
// disconnects. It is run once at startup before any publish.
func ProvisionStream(ctx context.Context, url string, cfg StreamConfig) error {
	nc, err := natsgo.Connect(url,
		natsgo.Name("geoscan-provisioner"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(10),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	si, err := NewStreamInitializer(js, &cfg)
	if err != nil {
		return err
	}

	stream, err := si.EnsureStream(ctx)
	if err != nil {
		return err
	}

	info := stream.CachedInfo()
	logging.Info().
		Str("stream", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Uint64("messages", info.State.Msgs).
		Msg("JetStream stream ready")
	return nil
}

// CheckStream reports whether the broker at url is reachable and serves the
// named stream. It backs the readiness probe.
func CheckStream(ctx context.Context, url, name string, timeout time.Duration) error {
	nc, err := natsgo.Connect(url,
		natsgo.Name("geoscan-health"),
		natsgo.Timeout(timeout),
		natsgo.NoReconnect(),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := js.Stream(ctx, name); err != nil {
		return fmt.Errorf("lookup stream %s: %w", name, err)
	}
	return nil
}
