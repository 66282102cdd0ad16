// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package middleware provides HTTP middleware shared by the API router.
//
// PrometheusMetrics records request counts and latencies per method, route
// pattern and status code:
//
//	r.Use(chiMiddleware(middleware.PrometheusMetrics))
package middleware
