// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package publisher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/geoscan/internal/broker"
	"github.com/tomtom215/geoscan/internal/models"
)

// mockClient acknowledges every send except the one at failAt.
type mockClient struct {
	failAt   int
	failErr  error
	sent     []broker.Envelope
	deadline []bool
	closed   bool
}

func (m *mockClient) Send(ctx context.Context, env broker.Envelope) (broker.Ack, error) {
	_, hasDeadline := ctx.Deadline()
	m.deadline = append(m.deadline, hasDeadline)
	m.sent = append(m.sent, env)
	if len(m.sent)-1 == m.failAt {
		return broker.Ack{}, m.failErr
	}
	return broker.Ack{Stream: "EXIF_DATA", Sequence: uint64(len(m.sent))}, nil
}

func (m *mockClient) Close() error {
	m.closed = true
	return nil
}

func dialerFor(c *mockClient, dials *int) broker.Dialer {
	return func(context.Context) (broker.Client, error) {
		*dials++
		return c, nil
	}
}

func messages(n int) []models.Message {
	out := make([]models.Message, n)
	for i := range out {
		out[i] = models.Serialize(&models.Record{
			Path:      fmt.Sprintf("/photos/%03d.jpg", i),
			Latitude:  float32(i),
			Timestamp: "2021-01-04T14:49:57+00:00",
		})
	}
	return out
}

func newTestPublisher(t *testing.T, dial broker.Dialer) *Publisher {
	t.Helper()
	p, err := New(Config{Subject: "geoscan.exif", Timeout: time.Second}, dial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestPublish_AllDelivered(t *testing.T) {
	t.Parallel()

	client := &mockClient{failAt: -1}
	dials := 0
	p := newTestPublisher(t, dialerFor(client, &dials))

	msgs := messages(5)
	if err := p.Publish(context.Background(), msgs); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if dials != 1 {
		t.Errorf("dials = %d, want 1", dials)
	}
	if len(client.sent) != 5 {
		t.Fatalf("sent = %d, want 5", len(client.sent))
	}
	for i, env := range client.sent {
		if env.Key != msgs[i].Key {
			t.Errorf("send %d key = %q, want %q (order)", i, env.Key, msgs[i].Key)
		}
		if env.Subject != "geoscan.exif" {
			t.Errorf("send %d subject = %q", i, env.Subject)
		}
		if env.Headers[broker.HeaderKey] != msgs[i].Key || env.Headers[broker.HeaderTag] != "exif_data" {
			t.Errorf("send %d headers = %v", i, env.Headers)
		}
		if !client.deadline[i] {
			t.Errorf("send %d had no deadline", i)
		}
	}
	if !client.closed {
		t.Error("client not closed")
	}
}

func TestPublish_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	const k = 6
	for i := 0; i < k; i++ {
		t.Run(fmt.Sprintf("fail_at_%d", i), func(t *testing.T) {
			t.Parallel()

			boom := errors.New("nats: timeout")
			client := &mockClient{failAt: i, failErr: boom}
			dials := 0
			p := newTestPublisher(t, dialerFor(client, &dials))

			msgs := messages(k)
			err := p.Publish(context.Background(), msgs)

			if len(client.sent) != i+1 {
				t.Errorf("send calls = %d, want %d", len(client.sent), i+1)
			}
			var delErr *DeliveryError
			if !errors.As(err, &delErr) {
				t.Fatalf("expected *DeliveryError, got %T (%v)", err, err)
			}
			if delErr.Index != i || delErr.Key != msgs[i].Key {
				t.Errorf("DeliveryError = %d/%q, want %d/%q", delErr.Index, delErr.Key, i, msgs[i].Key)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected cause in chain, got %v", err)
			}
			if !client.closed {
				t.Error("client not closed after failure")
			}
		})
	}
}

func TestPublish_ClientError(t *testing.T) {
	t.Parallel()

	refused := errors.New("nats: no servers available for connection")
	p := newTestPublisher(t, func(context.Context) (broker.Client, error) {
		return nil, refused
	})

	err := p.Publish(context.Background(), messages(3))
	var cliErr *ClientError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected *ClientError, got %T (%v)", err, err)
	}
	if !errors.Is(err, refused) {
		t.Errorf("expected cause in chain, got %v", err)
	}
}

func TestPublish_Empty(t *testing.T) {
	t.Parallel()

	client := &mockClient{failAt: -1}
	dials := 0
	p := newTestPublisher(t, dialerFor(client, &dials))

	if err := p.Publish(context.Background(), nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(client.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(client.sent))
	}
	if dials != 1 || !client.closed {
		t.Errorf("dials = %d closed = %v", dials, client.closed)
	}
}

func TestPublish_OneClientPerCall(t *testing.T) {
	t.Parallel()

	dials := 0
	p := newTestPublisher(t, func(context.Context) (broker.Client, error) {
		dials++
		return &mockClient{failAt: -1}, nil
	})

	for i := 0; i < 3; i++ {
		if err := p.Publish(context.Background(), messages(2)); err != nil {
			t.Fatalf("Publish #%d: %v", i, err)
		}
	}
	if dials != 3 {
		t.Errorf("dials = %d, want 3", dials)
	}
}

func TestEnvelope_Payload(t *testing.T) {
	t.Parallel()

	p := newTestPublisher(t, dialerFor(&mockClient{}, new(int)))
	msg := messages(2)[1]

	env, err := p.Envelope(msg)
	if err != nil {
		t.Fatalf("Envelope: %v", err)
	}
	body, err := models.DecodeBody(env.Payload)
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if body != msg.Value {
		t.Errorf("body = %+v, want %+v", body, msg.Value)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	dial := dialerFor(&mockClient{}, new(int))
	tests := []struct {
		name string
		cfg  Config
		dial broker.Dialer
	}{
		{"nil dialer", Config{Subject: "s", Timeout: time.Second}, nil},
		{"empty subject", Config{Timeout: time.Second}, dial},
		{"zero timeout", Config{Subject: "s"}, dial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg, tt.dial); err == nil {
				t.Error("expected error")
			}
		})
	}
}
