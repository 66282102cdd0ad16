// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"errors"
	"fmt"

	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/metrics"
)

// Header names set on every published message.
const (
	HeaderKey = "Geoscan-Key"
	HeaderTag = "Geoscan-Tag"
)

// Envelope is one message handed to a Client.
type Envelope struct {
	Subject string
	Key     string
	Payload []byte
	Headers map[string]string
}

// Ack confirms that the broker stored a message.
type Ack struct {
	Stream    string
	Sequence  uint64
	Duplicate bool
}

// Client sends envelopes and waits for each acknowledgement.
type Client interface {
	Send(ctx context.Context, env Envelope) (Ack, error)
	Close() error
}

// Dialer builds a new Client.
type Dialer func(ctx context.Context) (Client, error)

// NewDialer returns a Dialer for cfg.Driver. Clients from the same Dialer
// share one circuit breaker.
func NewDialer(cfg Config) (Dialer, error) {
	cb := NewCircuitBreaker(cfg.Breaker)

	switch cfg.Driver {
	case DriverJetStream, "":
		return func(ctx context.Context) (Client, error) {
			c, err := dialJetStream(ctx, cfg, cb)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	case DriverWatermill:
		return func(ctx context.Context) (Client, error) {
			c, err := dialWatermill(ctx, cfg, cb)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// connectOptions are shared by both drivers. The initial connect is not
// retried so an unreachable broker fails the dial.
func connectOptions(cfg Config, name string) []natsgo.Option {
	logger := logging.WithComponent("broker")
	return []natsgo.Option{
		natsgo.Name(name),
		natsgo.Timeout(cfg.ConnectTimeout),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		natsgo.ErrorHandler(func(_ *natsgo.Conn, sub *natsgo.Subscription, err error) {
			ev := logger.Error().Err(err)
			if sub != nil {
				ev = ev.Str("subject", sub.Subject)
			}
			ev.Msg("NATS error")
		}),
	}
}

func natsHeader(env Envelope) natsgo.Header {
	h := natsgo.Header{}
	for k, v := range env.Headers {
		h.Set(k, v)
	}
	return h
}

// guardedSend runs send through the breaker, mapping breaker rejections to
// errors that name the breaker.
func guardedSend(cb *gobreaker.CircuitBreaker[Ack], send func() (Ack, error)) (Ack, error) {
	ack, err := cb.Execute(send)
	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(cb.Name(), "success")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(cb.Name(), "rejected")
		return Ack{}, fmt.Errorf("circuit breaker %s: %w", cb.Name(), err)
	default:
		metrics.RecordCircuitBreakerRequest(cb.Name(), "failure")
	}
	return ack, err
}
