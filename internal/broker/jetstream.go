// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	gobreaker "github.com/sony/gobreaker/v2"
)

// jetStreamClient publishes with the nats.go JetStream API.
type jetStreamClient struct {
	nc  *natsgo.Conn
	js  jetstream.JetStream
	cb  *gobreaker.CircuitBreaker[Ack]
	cfg Config

	mu     sync.Mutex
	closed bool
}

func dialJetStream(_ context.Context, cfg Config, cb *gobreaker.CircuitBreaker[Ack]) (*jetStreamClient, error) {
	nc, err := natsgo.Connect(cfg.URL, connectOptions(cfg, "geoscan-publisher")...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.URL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return &jetStreamClient{nc: nc, js: js, cb: cb, cfg: cfg}, nil
}

// Send publishes env and waits for its PubAck. The ack wait is bounded by
// ctx; callers set the per-message deadline.
func (c *jetStreamClient) Send(ctx context.Context, env Envelope) (Ack, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return Ack{}, ErrClientClosed
	}
	if env.Subject == "" {
		return Ack{}, ErrEmptySubject
	}

	msg := &natsgo.Msg{
		Subject: env.Subject,
		Data:    env.Payload,
		Header:  natsHeader(env),
	}

	return guardedSend(c.cb, func() (Ack, error) {
		opts := []jetstream.PublishOpt{
			jetstream.WithMsgID(uuid.New().String()),
		}
		if c.cfg.RetryAttempts > 0 {
			opts = append(opts,
				jetstream.WithRetryAttempts(c.cfg.RetryAttempts),
				jetstream.WithRetryWait(c.cfg.RetryWait),
			)
		}

		pa, err := c.js.PublishMsg(ctx, msg, opts...)
		if err != nil {
			return Ack{}, fmt.Errorf("publish %s to %s: %w", env.Key, env.Subject, err)
		}
		return Ack{Stream: pa.Stream, Sequence: pa.Sequence, Duplicate: pa.Duplicate}, nil
	})
}

// Close drains nothing: every send has already been acknowledged.
func (c *jetStreamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.nc.Close()
	return nil
}
