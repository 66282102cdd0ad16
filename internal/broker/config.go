// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import "time"

// Driver names.
const (
	DriverJetStream = "jetstream"
	DriverWatermill = "watermill"
)

// Config holds client connection settings.
type Config struct {
	// Driver selects the client implementation.
	Driver string

	// URL is the NATS server URL, e.g. nats://127.0.0.1:4222.
	URL string

	// ConnectTimeout bounds the initial connection of each client.
	ConnectTimeout time.Duration

	// SendTimeout bounds the wait for each acknowledgement.
	SendTimeout time.Duration

	// MaxReconnects and ReconnectWait apply after a connection is established.
	MaxReconnects int
	ReconnectWait time.Duration

	// RetryAttempts is how often a send is retried when no responder is
	// available (the stream is briefly unavailable).
	RetryAttempts int
	RetryWait     time.Duration

	Breaker CircuitBreakerConfig
}

// DefaultConfig returns production defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		Driver:         DriverJetStream,
		URL:            url,
		ConnectTimeout: 5 * time.Second,
		SendTimeout:    5 * time.Second,
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		RetryAttempts:  3,
		RetryWait:      100 * time.Millisecond,
		Breaker:        DefaultCircuitBreakerConfig(),
	}
}

// CircuitBreakerConfig configures the breaker shared by a Dialer's clients.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultCircuitBreakerConfig returns production breaker defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "nats-publish",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// StreamConfig defines the JetStream stream that stores published records.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
	MemoryStorage   bool
}

// DefaultStreamConfig returns the stream for subject.
func DefaultStreamConfig(subject string) StreamConfig {
	return StreamConfig{
		Name:            "EXIF_DATA",
		Subjects:        []string{subject},
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        -1,
		MaxMsgs:         -1,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
	NoLog             bool
}

// DefaultServerConfig returns defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20,
		JetStreamMaxStore: 4 << 30,
	}
}
