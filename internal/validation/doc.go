// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Failures are returned as
// *RequestValidationError, which converts to the API error shape with
// ToAPIError.
//
// # Custom Tags
//
//   - nats_subject: dot-separated NATS subject tokens without wildcards or whitespace
//   - clean_path: a filesystem path without NUL bytes
//
// # Usage
//
//	type ScanRequest struct {
//	    DirectoryName string `json:"directory_name" validate:"required,max=4096,clean_path"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
