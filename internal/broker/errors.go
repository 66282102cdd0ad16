// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package broker

import "errors"

var (
	// ErrClientClosed is returned by Send after Close.
	ErrClientClosed = errors.New("broker client is closed")

	// ErrUnknownDriver is returned for a driver name other than jetstream or watermill.
	ErrUnknownDriver = errors.New("unknown broker driver")

	// ErrEmptySubject is returned when an envelope has no subject.
	ErrEmptySubject = errors.New("empty subject")
)
