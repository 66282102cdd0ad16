// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/geoscan/internal/broker"
)

// mockBroker is a test double for EmbeddedBroker.
type mockBroker struct {
	running       atomic.Bool
	shutdownCount atomic.Int32
	shutdownErr   error
}

func newMockBroker() *mockBroker {
	m := &mockBroker{}
	m.running.Store(true)
	return m
}

func (m *mockBroker) IsRunning() bool {
	return m.running.Load()
}

func (m *mockBroker) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	m.running.Store(false)
	return m.shutdownErr
}

func TestEmbeddedBrokerService_Interface(t *testing.T) {
	var _ suture.Service = (*EmbeddedBrokerService)(nil)
	var _ EmbeddedBroker = (*broker.EmbeddedServer)(nil)
}

func TestNewEmbeddedBrokerService_Defaults(t *testing.T) {
	svc := NewEmbeddedBrokerService(newMockBroker(), 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", svc.shutdownTimeout)
	}
	if svc.String() != "nats-embedded" {
		t.Errorf("expected 'nats-embedded', got %q", svc.String())
	}
}

func TestEmbeddedBrokerService_Serve(t *testing.T) {
	t.Run("shuts the server down on cancellation", func(t *testing.T) {
		mock := newMockBroker()
		svc := NewEmbeddedBrokerService(mock, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if mock.shutdownCount.Load() != 1 {
			t.Errorf("expected 1 Shutdown call, got %d", mock.shutdownCount.Load())
		}
	})

	t.Run("terminates the tree when the server dies", func(t *testing.T) {
		mock := newMockBroker()
		svc := NewEmbeddedBrokerService(mock, time.Second)
		svc.checkInterval = 10 * time.Millisecond

		mock.running.Store(false)

		err := svc.Serve(context.Background())
		if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
			t.Errorf("expected ErrTerminateSupervisorTree, got %v", err)
		}
	})

	t.Run("returns shutdown error", func(t *testing.T) {
		mock := newMockBroker()
		mock.shutdownErr = errors.New("drain timeout")
		svc := NewEmbeddedBrokerService(mock, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := svc.Serve(ctx); !errors.Is(err, mock.shutdownErr) {
			t.Errorf("expected shutdown error, got %v", err)
		}
	})
}

func TestEmbeddedBrokerService_RealServer(t *testing.T) {
	cfg := broker.ServerConfig{
		Host:              "127.0.0.1",
		Port:              -1,
		StoreDir:          t.TempDir(),
		JetStreamMaxMem:   16 << 20,
		JetStreamMaxStore: 64 << 20,
		NoLog:             true,
	}
	srv, err := broker.NewEmbeddedServer(&cfg)
	if err != nil {
		t.Fatalf("start embedded server: %v", err)
	}

	svc := NewEmbeddedBrokerService(srv, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	cancel()
	select {
	case <-errCh:
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
	if srv.IsRunning() {
		t.Error("embedded server should be stopped after Serve returns")
	}
}
