// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geoscan/internal/pipeline"
)

// stubRunner records the directories it was asked to scan.
type stubRunner struct {
	summary pipeline.Summary
	err     error
	dirs    []string
	ctxErr  error
}

func (s *stubRunner) Run(ctx context.Context, dir string) (pipeline.Summary, error) {
	s.dirs = append(s.dirs, dir)
	s.ctxErr = ctx.Err()
	summary := s.summary
	summary.Directory = dir
	return summary, s.err
}

func newTestRouter(runner ScanRunner, ready ReadinessCheck, report bool) http.Handler {
	cfg := DefaultHandlerConfig()
	cfg.ReportPipelineErrors = report
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	return NewRouter(NewHandler(runner, ready, cfg), NewChiMiddleware(mwCfg)).SetupChi()
}

func postScan(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodedResponse mirrors APIResponse with concrete data for assertions.
type decodedResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *APIError              `json:"error"`
	Meta    *APIMeta               `json:"meta"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) decodedResponse {
	t.Helper()
	var resp decodedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func okSummary(n int) pipeline.Summary {
	return pipeline.Summary{Messages: n, Published: n, Duration: 15 * time.Millisecond}
}
