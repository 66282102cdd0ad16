// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package publisher sends scan results to the broker one message at a time.
//
// Each Publish call dials its own broker client, sends messages in order,
// waits for every acknowledgement before the next send, and stops at the
// first failure. Messages acknowledged before a failure stay published.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/geoscan/internal/broker"
	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/metrics"
	"github.com/tomtom215/geoscan/internal/models"
)

// ClientError reports that no broker client could be built. Nothing was sent.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("create broker client: %v", e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// DeliveryError reports the first message that was not acknowledged.
// Messages before Index were published; messages after it were not attempted.
type DeliveryError struct {
	Index int
	Key   string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver message %d (%s): %v", e.Index, e.Key, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Config holds publish settings.
type Config struct {
	// Subject is the NATS subject messages are published to.
	Subject string

	// Timeout bounds the wait for each acknowledgement.
	Timeout time.Duration

	// Driver labels metrics.
	Driver string
}

// Publisher publishes message sequences.
type Publisher struct {
	cfg  Config
	dial broker.Dialer
}

// New creates a Publisher that builds clients with dial.
func New(cfg Config, dial broker.Dialer) (*Publisher, error) {
	if dial == nil {
		return nil, errors.New("broker dialer required")
	}
	if cfg.Subject == "" {
		return nil, errors.New("subject required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	if cfg.Driver == "" {
		cfg.Driver = broker.DriverJetStream
	}
	return &Publisher{cfg: cfg, dial: dial}, nil
}

// Envelope builds the broker envelope for msg.
func (p *Publisher) Envelope(msg models.Message) (broker.Envelope, error) {
	payload, err := msg.Payload()
	if err != nil {
		return broker.Envelope{}, err
	}
	return broker.Envelope{
		Subject: p.cfg.Subject,
		Key:     msg.Key,
		Payload: payload,
		Headers: map[string]string{
			broker.HeaderKey: msg.Key,
			broker.HeaderTag: models.MessageTag,
		},
	}, nil
}

// Publish sends msgs in order and waits for each acknowledgement.
//
// It returns a *ClientError when the client cannot be built and a
// *DeliveryError for the first message that fails; no later message is
// attempted. An empty sequence still dials the broker.
func (p *Publisher) Publish(ctx context.Context, msgs []models.Message) error {
	logger := logging.Ctx(ctx).With().Str("subject", p.cfg.Subject).Logger()

	client, err := p.dial(ctx)
	if err != nil {
		metrics.RecordPublishFailure(p.cfg.Driver, metrics.ReasonClient)
		logger.Error().Err(err).Msg("Broker client unavailable")
		return &ClientError{Err: err}
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Closing broker client")
		}
	}()

	for i, msg := range msgs {
		env, err := p.Envelope(msg)
		if err != nil {
			metrics.RecordPublishFailure(p.cfg.Driver, metrics.ReasonEncode)
			return &DeliveryError{Index: i, Key: msg.Key, Err: err}
		}

		ack, err := p.send(ctx, client, env)
		if err != nil {
			metrics.RecordPublishFailure(p.cfg.Driver, metrics.ReasonDelivery)
			logger.Error().Err(err).
				Str("key", msg.Key).
				Int("index", i).
				Int("remaining", len(msgs)-i-1).
				Msg("Delivery failed, stopping")
			return &DeliveryError{Index: i, Key: msg.Key, Err: err}
		}

		logger.Debug().
			Str("key", msg.Key).
			Str("stream", ack.Stream).
			Uint64("sequence", ack.Sequence).
			Bool("duplicate", ack.Duplicate).
			Msg("Delivered")
	}

	logger.Info().Int("messages", len(msgs)).Msg("Publish complete")
	return nil
}

func (p *Publisher) send(ctx context.Context, client broker.Client, env broker.Envelope) (broker.Ack, error) {
	sendCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	ack, err := client.Send(sendCtx, env)
	if err != nil {
		return broker.Ack{}, err
	}
	metrics.RecordPublishAck(p.cfg.Driver, time.Since(start))
	return ack, nil
}
