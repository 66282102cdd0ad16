// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package config

import (
	"testing"
	"time"
)

func TestBrokerConfig_ClientConfig(t *testing.T) {
	b := defaultConfig().Broker
	b.Driver = "watermill"
	b.Timeout = 2 * time.Second
	b.BreakerThreshold = 3

	cfg := b.ClientConfig()
	if cfg.Driver != "watermill" {
		t.Errorf("Driver = %q, want watermill", cfg.Driver)
	}
	if cfg.URL != b.URL {
		t.Errorf("URL = %q, want %q", cfg.URL, b.URL)
	}
	if cfg.SendTimeout != 2*time.Second {
		t.Errorf("SendTimeout = %v, want 2s", cfg.SendTimeout)
	}
	if cfg.Breaker.FailureThreshold != 3 {
		t.Errorf("Breaker.FailureThreshold = %d, want 3", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.Name == "" {
		t.Error("Breaker.Name should keep its default")
	}
}

func TestBrokerConfig_StreamConfig(t *testing.T) {
	b := defaultConfig().Broker
	b.Stream = "PHOTOS"
	b.Subject = "photos.exif"
	b.RetentionDays = 3

	cfg := b.StreamConfig()
	if cfg.Name != "PHOTOS" {
		t.Errorf("Name = %q, want PHOTOS", cfg.Name)
	}
	if len(cfg.Subjects) != 1 || cfg.Subjects[0] != "photos.exif" {
		t.Errorf("Subjects = %v, want [photos.exif]", cfg.Subjects)
	}
	if cfg.MaxAge != 72*time.Hour {
		t.Errorf("MaxAge = %v, want 72h", cfg.MaxAge)
	}
}

func TestBrokerConfig_EmbeddedServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"explicit port", "nats://127.0.0.1:4333", "127.0.0.1", 4333, false},
		{"default port", "nats://localhost", "localhost", 4222, false},
		{"no host", "nats://:4222", "", 0, true},
		{"bad port", "nats://localhost:99999", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := defaultConfig().Broker
			b.URL = tt.url

			cfg, err := b.EmbeddedServerConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Host != tt.wantHost || cfg.Port != tt.wantPort {
				t.Errorf("got %s:%d, want %s:%d", cfg.Host, cfg.Port, tt.wantHost, tt.wantPort)
			}
			if cfg.StoreDir != b.StoreDir {
				t.Errorf("StoreDir = %q, want %q", cfg.StoreDir, b.StoreDir)
			}
		})
	}
}

func TestValidateNATSURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"nats://localhost:4222", false},
		{"tls://nats.example.com:4222", false},
		{"wss://nats.example.com", false},
		{"http://localhost:4222", true},
		{"localhost:4222", true},
		{"nats://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateNATSURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8090}
	if got := s.Address(); got != "127.0.0.1:8090" {
		t.Errorf("Address() = %q, want 127.0.0.1:8090", got)
	}
}

func TestLoggingConfig_LoggerConfig(t *testing.T) {
	l := LoggingConfig{Level: "debug", Format: "console", Caller: true}
	cfg := l.LoggerConfig()
	if cfg.Level != "debug" || cfg.Format != "console" || !cfg.Caller {
		t.Errorf("LoggerConfig() = %+v", cfg)
	}
}
