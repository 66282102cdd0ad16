// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/geoscan/config.yaml",
	"/etc/geoscan/config.yml",
}

// ConfigPathEnvVar names the environment variable holding an explicit config path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every optional setting populated.
func defaultConfig() *Config {
	return &Config{
		Broker: BrokerConfig{
			Driver:           "jetstream",
			URL:              "nats://127.0.0.1:4222",
			Subject:          "geoscan.exif",
			Stream:           "EXIF_DATA",
			Timeout:          5 * time.Second,
			ConnectTimeout:   5 * time.Second,
			MaxReconnects:    3,
			ReconnectWait:    time.Second,
			RetryAttempts:    3,
			RetryWait:        100 * time.Millisecond,
			EmbeddedServer:   false,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        256 << 20,
			MaxStore:         4 << 30,
			RetentionDays:    7,
			DuplicateWindow:  2 * time.Minute,
			BreakerThreshold: 5,
			BreakerTimeout:   30 * time.Second,
		},
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 8090,
			Timeout:              60 * time.Second,
			ReportPipelineErrors: false,
			RateLimitReqs:        30,
			RateLimitWindow:      time.Minute,
			CORSOrigins:          []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2.
//
// Precedence: ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// NATS_URL -> broker.url, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	// Broker
	"broker_driver":             "broker.driver",
	"nats_url":                  "broker.url",
	"broker_url":                "broker.url",
	"broker_subject":            "broker.subject",
	"broker_topic":              "broker.subject",
	"broker_stream":             "broker.stream",
	"broker_timeout":            "broker.timeout",
	"broker_connect_timeout":    "broker.connect_timeout",
	"nats_max_reconnects":       "broker.max_reconnects",
	"nats_reconnect_wait":       "broker.reconnect_wait",
	"broker_retry_attempts":     "broker.retry_attempts",
	"broker_retry_wait":         "broker.retry_wait",
	"nats_embedded":             "broker.embedded_server",
	"nats_store_dir":            "broker.store_dir",
	"nats_max_memory":           "broker.max_memory",
	"nats_max_store":            "broker.max_store",
	"nats_retention_days":       "broker.retention_days",
	"nats_duplicate_window":     "broker.duplicate_window",
	"circuit_breaker_threshold": "broker.breaker_threshold",
	"circuit_breaker_timeout":   "broker.breaker_timeout",

	// Server
	"http_host":              "server.host",
	"http_port":              "server.port",
	"http_timeout":           "server.timeout",
	"report_pipeline_errors": "server.report_pipeline_errors",
	"rate_limit_requests":    "server.rate_limit_reqs",
	"rate_limit_window":      "server.rate_limit_window",
	"cors_origins":           "server.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a config path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
