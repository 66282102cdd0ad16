// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package api

import "errors"

// ErrEmptyBody indicates a request that requires a JSON body had none
var ErrEmptyBody = errors.New("request body is empty")
