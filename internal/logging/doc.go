// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package logging provides the process-wide zerolog logger for Geoscan.
//
// The logger is initialized once from main via Init and then used through
// leveled helpers. Core packages (normalize, extractor, scanner, publisher)
// only log for observability; none of them depend on logging for correctness.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("directory", dir).Msg("Scan started")
//	logging.Ctx(ctx).Warn().Err(err).Str("path", p).Msg("Skipping file")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Adapters
//
// Two adapters let third-party libraries write through the same logger:
//
//   - NewSlogLogger returns a *slog.Logger for sutureslog
//   - NewWatermillLogger returns a watermill.LoggerAdapter for the
//     Watermill broker driver
//
// # Context
//
// HTTP middleware stores a request ID and a correlation ID in the request
// context. Ctx(ctx) returns a logger carrying both fields so that every log
// line of one scan request can be grouped.
package logging
