// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// mockStream satisfies jetstream.Stream; only CachedInfo is implemented.
type mockStream struct {
	jetstream.Stream
	cfg jetstream.StreamConfig
}

func (m *mockStream) CachedInfo() *jetstream.StreamInfo {
	return &jetstream.StreamInfo{Config: m.cfg}
}

type mockJetStream struct {
	streams   map[string]jetstream.StreamConfig
	lookupErr error
	createErr error
	updateErr error
	creates   int
	updates   int
}

func newMockJetStream() *mockJetStream {
	return &mockJetStream{streams: map[string]jetstream.StreamConfig{}}
}

func (m *mockJetStream) Stream(_ context.Context, name string) (jetstream.Stream, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	cfg, ok := m.streams[name]
	if !ok {
		return nil, jetstream.ErrStreamNotFound
	}
	return &mockStream{cfg: cfg}, nil
}

func (m *mockJetStream) CreateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.streams[cfg.Name] = cfg
	return &mockStream{cfg: cfg}, nil
}

func (m *mockJetStream) UpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	m.updates++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.streams[cfg.Name] = cfg
	return &mockStream{cfg: cfg}, nil
}

func TestNewStreamInitializer_Validation(t *testing.T) {
	t.Parallel()

	cfg := DefaultStreamConfig("geoscan.exif")
	if _, err := NewStreamInitializer(nil, &cfg); err == nil {
		t.Error("expected error for nil JetStream context")
	}
	if _, err := NewStreamInitializer(newMockJetStream(), nil); err == nil {
		t.Error("expected error for nil config")
	}
	empty := StreamConfig{Name: "X"}
	if _, err := NewStreamInitializer(newMockJetStream(), &empty); err == nil {
		t.Error("expected error for missing subjects")
	}
}

func TestEnsureStream_CreatesNew(t *testing.T) {
	t.Parallel()

	js := newMockJetStream()
	cfg := DefaultStreamConfig("geoscan.exif")
	si, err := NewStreamInitializer(js, &cfg)
	if err != nil {
		t.Fatalf("NewStreamInitializer: %v", err)
	}

	stream, err := si.EnsureStream(context.Background())
	if err != nil {
		t.Fatalf("EnsureStream: %v", err)
	}
	if js.creates != 1 || js.updates != 0 {
		t.Errorf("creates/updates = %d/%d, want 1/0", js.creates, js.updates)
	}

	got := stream.CachedInfo().Config
	if got.Name != "EXIF_DATA" {
		t.Errorf("Name = %q", got.Name)
	}
	if len(got.Subjects) != 1 || got.Subjects[0] != "geoscan.exif" {
		t.Errorf("Subjects = %v", got.Subjects)
	}
	if got.Storage != jetstream.FileStorage {
		t.Errorf("Storage = %v, want file", got.Storage)
	}
	if got.Duplicates != 2*time.Minute {
		t.Errorf("Duplicates = %v", got.Duplicates)
	}
}

func TestEnsureStream_UpdatesExisting(t *testing.T) {
	t.Parallel()

	js := newMockJetStream()
	cfg := DefaultStreamConfig("geoscan.exif")
	cfg.MemoryStorage = true
	si, _ := NewStreamInitializer(js, &cfg)

	for i := 0; i < 3; i++ {
		if _, err := si.EnsureStream(context.Background()); err != nil {
			t.Fatalf("EnsureStream #%d: %v", i, err)
		}
	}
	if js.creates != 1 || js.updates != 2 {
		t.Errorf("creates/updates = %d/%d, want 1/2", js.creates, js.updates)
	}
	if js.streams["EXIF_DATA"].Storage != jetstream.MemoryStorage {
		t.Error("expected memory storage")
	}
}

func TestEnsureStream_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*mockJetStream)
	}{
		{"lookup fails", func(m *mockJetStream) { m.lookupErr = boom }},
		{"create fails", func(m *mockJetStream) { m.createErr = boom }},
		{"update fails", func(m *mockJetStream) {
			m.streams["EXIF_DATA"] = jetstream.StreamConfig{Name: "EXIF_DATA"}
			m.updateErr = boom
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			js := newMockJetStream()
			tt.setup(js)
			cfg := DefaultStreamConfig("geoscan.exif")
			si, _ := NewStreamInitializer(js, &cfg)
			if _, err := si.EnsureStream(context.Background()); !errors.Is(err, boom) {
				t.Errorf("expected wrapped boom, got %v", err)
			}
		})
	}
}

func TestIsHealthy(t *testing.T) {
	t.Parallel()

	js := newMockJetStream()
	cfg := DefaultStreamConfig("geoscan.exif")
	si, _ := NewStreamInitializer(js, &cfg)

	if si.IsHealthy(context.Background()) {
		t.Error("expected unhealthy before EnsureStream")
	}
	if _, err := si.EnsureStream(context.Background()); err != nil {
		t.Fatalf("EnsureStream: %v", err)
	}
	if !si.IsHealthy(context.Background()) {
		t.Error("expected healthy after EnsureStream")
	}
	if si.Config().Name != "EXIF_DATA" {
		t.Errorf("Config().Name = %q", si.Config().Name)
	}
}
