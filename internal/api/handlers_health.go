// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/geoscan/internal/logging"
)

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 503 while the broker or its stream is unavailable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	brokerReady := true
	var reason string
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.config.ReadyTimeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			brokerReady = false
			reason = err.Error()
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if !brokerReady {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"status":           status,
		"broker_connected": brokerReady,
		"uptime":           time.Since(h.startTime).Seconds(),
	}
	if reason != "" {
		data["reason"] = reason
	}
	NewResponseWriter(w, r).WithStatus(statusCode, data)
}
