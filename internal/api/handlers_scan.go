// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/models"
	"github.com/tomtom215/geoscan/internal/pipeline"
	"github.com/tomtom215/geoscan/internal/validation"
)

// Scan handles POST /api/v1/scan.
//
// The scan runs to completion even if the client disconnects; the request
// context only contributes its logging fields.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := h.decodeScanRequest(w, r)
	if err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	logger := logging.Ctx(ctx)
	logger.Info().Str("directory", req.DirectoryName).Msg("Scan requested")

	summary, err := h.runner.Run(ctx, req.DirectoryName)
	if err != nil {
		logger.Error().Err(err).Str("directory", req.DirectoryName).Msg("Scan and publish failed")

		if h.config.ReportPipelineErrors {
			if pipeline.IsTraversal(err) {
				rw.ScanFailed(err.Error())
				return
			}
			rw.ExternalServiceError("broker", err)
			return
		}
	}

	rw.Success(models.ScanResponse{
		Directory:  req.DirectoryName,
		Status:     models.ScanStatusCompleted,
		Published:  summary.Published,
		DurationMs: summary.Duration.Milliseconds(),
		FinishedAt: time.Now().UTC(),
	})
}

func (h *Handler) decodeScanRequest(w http.ResponseWriter, r *http.Request) (*models.ScanRequest, error) {
	body := http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	defer body.Close()

	var req models.ScanRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, err
	}
	return &req, nil
}
