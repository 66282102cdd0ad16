// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package api provides the HTTP front end for Geoscan.

Routes:

  - POST /api/v1/scan: scan a directory and publish its records
  - GET /api/v1/health/live: liveness probe
  - GET /api/v1/health/ready: readiness probe (broker reachable, stream present)
  - GET /metrics: Prometheus metrics

Every JSON response uses the APIResponse envelope. Requests carry an
X-Request-ID and a correlation id through the logging context.

# Error Policy

A scan whose pipeline fails (the directory cannot be walked, or the broker
rejects a message) is logged in every case. What the caller sees depends on
Config.ReportPipelineErrors:

  - false (default): 200 with a "completed" ScanResponse
  - true: 422 for traversal failures, 502 for broker failures

Invalid request bodies are always rejected with 400.
*/
package api
