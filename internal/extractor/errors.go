// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package extractor

import "fmt"

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	// Unreadable means the file could not be opened or holds no decodable EXIF container.
	Unreadable ErrorKind = iota + 1

	// Normalization means a present tag could not be normalized (a malformed capture time).
	Normalization
)

func (k ErrorKind) String() string {
	switch k {
	case Unreadable:
		return "unreadable"
	case Normalization:
		return "normalization"
	default:
		return "unknown"
	}
}

// ExtractionError reports why one file produced no record.
type ExtractionError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
