// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package config loads Geoscan configuration.

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Defaults built into defaultConfig
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, ./config.yml, /etc/geoscan/config.yaml)
 3. Environment variables

# Environment Variables

Broker (BrokerConfig):
  - BROKER_DRIVER: jetstream or watermill (default: jetstream)
  - NATS_URL / BROKER_URL: broker address (default: nats://127.0.0.1:4222)
  - BROKER_SUBJECT: subject records are published to (default: geoscan.exif)
  - BROKER_STREAM: JetStream stream name (default: EXIF_DATA)
  - BROKER_TIMEOUT: per-message acknowledgement timeout (default: 5s)
  - BROKER_CONNECT_TIMEOUT: connection timeout (default: 5s)
  - NATS_MAX_RECONNECTS, NATS_RECONNECT_WAIT
  - BROKER_RETRY_ATTEMPTS, BROKER_RETRY_WAIT
  - NATS_EMBEDDED: run an in-process NATS server (default: false)
  - NATS_STORE_DIR, NATS_MAX_MEMORY, NATS_MAX_STORE
  - NATS_RETENTION_DAYS, NATS_DUPLICATE_WINDOW
  - CIRCUIT_BREAKER_THRESHOLD, CIRCUIT_BREAKER_TIMEOUT

HTTP server (ServerConfig):
  - HTTP_HOST (default: 0.0.0.0)
  - HTTP_PORT (default: 8090)
  - HTTP_TIMEOUT (default: 60s)
  - REPORT_PIPELINE_ERRORS: return failure statuses for failed scans (default: false)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW
  - CORS_ORIGINS: comma-separated list

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	dial, err := broker.NewDialer(cfg.Broker.ClientConfig())
*/
package config
