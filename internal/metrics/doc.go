// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package metrics provides Prometheus instrumentation for Geoscan.

Metrics are registered on the default registry through promauto and exposed
at /metrics by the API router:

	curl http://localhost:8090/metrics

# Available Metrics

Scan pipeline:
  - geoscan_scan_requests_total{source,outcome}
  - geoscan_scan_duration_seconds{source}
  - geoscan_files_scanned_total
  - geoscan_extraction_failures_total{kind}

Publishing:
  - geoscan_messages_published_total{driver}
  - geoscan_publish_failures_total{driver,reason}
  - geoscan_publish_ack_duration_seconds{driver}

Broker circuit breaker:
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from,to}

HTTP API:
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}

Record* helpers keep label values consistent across callers.
*/
package metrics
