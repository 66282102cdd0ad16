// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package models

import "time"

// ScanRequest is the body of POST /api/v1/scan.
type ScanRequest struct {
	DirectoryName string `json:"directory_name" validate:"required,max=4096,clean_path"`
}

// ScanResponse is returned by the scan endpoint.
//
// Published counts messages the broker acknowledged. When a failed run is
// answered as completed it covers only the messages before the failure.
type ScanResponse struct {
	Directory  string    `json:"directory"`
	Status     string    `json:"status"`
	Published  int       `json:"published"`
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// ScanStatusCompleted is the only status the scan endpoint answers with;
// reported failures use the error envelope instead.
const ScanStatusCompleted = "completed"
