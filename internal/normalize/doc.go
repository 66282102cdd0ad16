// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package normalize converts EXIF display strings into canonical values.
//
// The three converters have deliberately different failure policies:
//
//   - ConvertCoordinate returns 0 for anything it cannot read.
//   - ConvertAltitude returns the caller's prior value for anything it cannot read.
//   - ConvertTimestamp rejects anything other than "YYYY-MM-DD HH:MM:SS".
//
// Hemisphere letters are not consulted; converted coordinates are never negative.
package normalize
