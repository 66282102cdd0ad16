// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geoscan/internal/logging"
)

// watermillClient publishes through the Watermill NATS JetStream publisher.
// Publish blocks until JetStream acknowledges the message; the ack sequence
// is not exposed by Watermill.
type watermillClient struct {
	publisher message.Publisher
	cb        *gobreaker.CircuitBreaker[Ack]

	mu     sync.Mutex
	closed bool
}

func dialWatermill(_ context.Context, cfg Config, cb *gobreaker.CircuitBreaker[Ack]) (*watermillClient, error) {
	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: connectOptions(cfg, "geoscan-publisher-watermill"),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // stream is created by StreamInitializer
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.AckWait(cfg.SendTimeout),
				natsgo.RetryAttempts(cfg.RetryAttempts),
				natsgo.RetryWait(cfg.RetryWait),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logging.NewWatermillLogger())
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &watermillClient{publisher: pub, cb: cb}, nil
}

// Send publishes env synchronously. ctx is checked before the send; the ack
// wait itself is bounded by the configured SendTimeout.
func (c *watermillClient) Send(ctx context.Context, env Envelope) (Ack, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return Ack{}, ErrClientClosed
	}
	if env.Subject == "" {
		return Ack{}, ErrEmptySubject
	}
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	// The message UUID becomes Nats-Msg-Id (TrackMsgId).
	msg := message.NewMessage(watermill.NewUUID(), env.Payload)
	for k, v := range env.Headers {
		msg.Metadata.Set(k, v)
	}

	return guardedSend(c.cb, func() (Ack, error) {
		if err := c.publisher.Publish(env.Subject, msg); err != nil {
			return Ack{}, fmt.Errorf("publish %s to %s: %w", env.Key, env.Subject, err)
		}
		return Ack{}, nil
	})
}

func (c *watermillClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.publisher.Close()
}
