// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/geoscan/internal/broker"
	"github.com/tomtom215/geoscan/internal/logging"
)

// Config holds all application configuration.
//
// Load order (Koanf v2): defaults, optional config file, environment variables.
type Config struct {
	Broker  BrokerConfig  `koanf:"broker"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// BrokerConfig holds NATS connection, stream and publishing settings.
type BrokerConfig struct {
	// Driver selects the client: jetstream or watermill.
	Driver string `koanf:"driver" validate:"required,oneof=jetstream watermill"`

	URL     string `koanf:"url" validate:"required"`
	Subject string `koanf:"subject" validate:"required,max=255,nats_subject"`
	Stream  string `koanf:"stream" validate:"required,max=255"`

	// Timeout bounds the wait for each message acknowledgement.
	Timeout        time.Duration `koanf:"timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxReconnects  int           `koanf:"max_reconnects" validate:"gte=-1"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
	RetryAttempts  int           `koanf:"retry_attempts" validate:"gte=0,lte=10"`
	RetryWait      time.Duration `koanf:"retry_wait"`

	// EmbeddedServer runs an in-process NATS server with JetStream.
	// If false, expects an external server at URL.
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	// RetentionDays is how long the stream keeps records.
	RetentionDays   int           `koanf:"retention_days" validate:"gte=1,lte=365"`
	DuplicateWindow time.Duration `koanf:"duplicate_window"`

	BreakerThreshold uint32        `koanf:"breaker_threshold" validate:"gte=1"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
}

// ServerConfig holds HTTP front end settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// ReportPipelineErrors makes failed scans return error statuses.
	// When false a failed scan is logged and still answered as completed.
	ReportPipelineErrors bool `koanf:"report_pipeline_errors"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Address returns the HTTP listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ClientConfig returns the broker client settings.
func (b BrokerConfig) ClientConfig() broker.Config {
	cfg := broker.DefaultConfig(b.URL)
	cfg.Driver = b.Driver
	cfg.ConnectTimeout = b.ConnectTimeout
	cfg.SendTimeout = b.Timeout
	cfg.MaxReconnects = b.MaxReconnects
	cfg.ReconnectWait = b.ReconnectWait
	cfg.RetryAttempts = b.RetryAttempts
	cfg.RetryWait = b.RetryWait
	cfg.Breaker.FailureThreshold = b.BreakerThreshold
	cfg.Breaker.Timeout = b.BreakerTimeout
	return cfg
}

// StreamConfig returns the JetStream stream settings.
func (b BrokerConfig) StreamConfig() broker.StreamConfig {
	cfg := broker.DefaultStreamConfig(b.Subject)
	cfg.Name = b.Stream
	cfg.MaxAge = time.Duration(b.RetentionDays) * 24 * time.Hour
	cfg.DuplicateWindow = b.DuplicateWindow
	return cfg
}

// EmbeddedServerConfig returns the in-process NATS server settings.
func (b BrokerConfig) EmbeddedServerConfig() (broker.ServerConfig, error) {
	cfg := broker.DefaultServerConfig()
	host, port, err := splitNATSURL(b.URL)
	if err != nil {
		return cfg, err
	}
	cfg.Host = host
	cfg.Port = port
	cfg.StoreDir = b.StoreDir
	cfg.JetStreamMaxMem = b.MaxMemory
	cfg.JetStreamMaxStore = b.MaxStore
	return cfg, nil
}

// LoggerConfig returns the logging settings.
func (l LoggingConfig) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
