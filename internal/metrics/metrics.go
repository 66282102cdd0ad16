// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcomes.
const (
	OutcomeCompleted      = "completed"
	OutcomeTraversalError = "traversal_error"
	OutcomePublishError   = "publish_error"
)

// Publish failure reasons.
const (
	ReasonClient   = "client"
	ReasonDelivery = "delivery"
	ReasonEncode   = "encode"
)

var (
	// Scan pipeline
	ScanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoscan_scan_requests_total",
			Help: "Total number of scan-and-publish requests by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geoscan_scan_duration_seconds",
			Help:    "Duration of scan-and-publish requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"source"},
	)

	FilesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoscan_files_scanned_total",
			Help: "Total number of non-directory entries handed to the extractor",
		},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoscan_extraction_failures_total",
			Help: "Total number of files skipped because extraction failed",
		},
		[]string{"kind"},
	)

	// Publishing
	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoscan_messages_published_total",
			Help: "Total number of messages acknowledged by the broker",
		},
		[]string{"driver"},
	)

	PublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoscan_publish_failures_total",
			Help: "Total number of publish calls aborted, by reason",
		},
		[]string{"driver", "reason"},
	)

	PublishAckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geoscan_publish_ack_duration_seconds",
			Help:    "Time from send to broker acknowledgement per message",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"driver"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests passed through the circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordScan records the outcome of one scan-and-publish request.
func RecordScan(source, outcome string, duration time.Duration) {
	ScanRequests.WithLabelValues(source, outcome).Inc()
	ScanDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFileScanned counts a file handed to the extractor.
func RecordFileScanned() {
	FilesScanned.Inc()
}

// RecordExtractionFailure counts a skipped file.
func RecordExtractionFailure(kind string) {
	ExtractionFailures.WithLabelValues(kind).Inc()
}

// RecordPublishAck records one acknowledged message.
func RecordPublishAck(driver string, duration time.Duration) {
	MessagesPublished.WithLabelValues(driver).Inc()
	PublishAckDuration.WithLabelValues(driver).Observe(duration.Seconds())
}

// RecordPublishFailure records an aborted publish call.
func RecordPublishFailure(driver, reason string) {
	PublishFailures.WithLabelValues(driver, reason).Inc()
}

// RecordCircuitBreakerState sets the state gauge. state follows
// gobreaker's numbering (0=closed, 1=half-open, 2=open).
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerTransition counts a state transition and updates the gauge.
func RecordCircuitBreakerTransition(name, from, to string, toState int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	RecordCircuitBreakerState(name, toState)
}

// RecordCircuitBreakerRequest counts a request by result
// ("success", "failure" or "rejected").
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
