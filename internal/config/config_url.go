// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// defaultNATSPort is used when the broker URL omits a port.
const defaultNATSPort = 4222

// validateNATSURL validates that the NATS URL is properly formatted.
// Supports nats://, tls://, ws:// and wss:// with hostnames or IPs and optional ports.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}

	return nil
}

// splitNATSURL returns the host and port an embedded server should listen on.
func splitNATSURL(rawURL string) (string, int, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("host is required in %q", rawURL)
	}

	portStr := parsedURL.Port()
	if portStr == "" {
		return host, defaultNATSPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q in %q", portStr, rawURL)
	}
	return host, port, nil
}
