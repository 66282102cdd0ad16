// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/validation"
)

// Broker limit constants
const (
	brokerMinTimeout     = 100 * time.Millisecond
	brokerMaxTimeout     = 5 * time.Minute
	natsMinMemory        = 64 * 1024 * 1024  // 64MB
	natsMinStore         = 100 * 1024 * 1024 // 100MB
	natsMinDuplicateWind = time.Second
)

// Validate checks that configuration is present and valid.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateBroker,
		c.validateEmbeddedServer,
		c.validateServer,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateBroker validates broker connection and publishing settings
func (c *Config) validateBroker() error {
	if err := validateNATSURL(c.Broker.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	if c.Broker.Timeout < brokerMinTimeout || c.Broker.Timeout > brokerMaxTimeout {
		return fmt.Errorf("BROKER_TIMEOUT must be between %s and %s", brokerMinTimeout, brokerMaxTimeout)
	}
	if c.Broker.ConnectTimeout <= 0 {
		return fmt.Errorf("BROKER_CONNECT_TIMEOUT must be positive")
	}
	if c.Broker.DuplicateWindow < natsMinDuplicateWind {
		return fmt.Errorf("NATS_DUPLICATE_WINDOW must be at least 1s")
	}
	if c.Broker.BreakerTimeout <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateEmbeddedServer validates embedded NATS settings (only if enabled)
func (c *Config) validateEmbeddedServer() error {
	if !c.Broker.EmbeddedServer {
		return nil
	}

	if _, _, err := splitNATSURL(c.Broker.URL); err != nil {
		return fmt.Errorf("NATS_URL cannot be used for the embedded server: %w", err)
	}
	if c.Broker.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}
	if c.Broker.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
	}
	if c.Broker.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateLogging validates logging settings
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
