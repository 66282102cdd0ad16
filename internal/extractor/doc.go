// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package extractor reads the EXIF container of one image file and folds
// the GPS and capture-time tags into a models.Record.
//
// Only four tags are consulted, each bound to a fixed handler:
//
//	TagLatitude   GPSLatitude   -> normalize.ConvertCoordinate
//	TagLongitude  GPSLongitude  -> normalize.ConvertCoordinate
//	TagAltitude   GPSAltitude   -> normalize.ConvertAltitude
//	TagTimestamp  DateTime      -> normalize.ConvertTimestamp
//
// A tag is first rendered to its display form with unit ("53 deg 43 min
// 23.808 sec N", "27.813 m", "2021-01-04 14:49:57") and then normalized.
// A file that opens and decodes always yields a record, even with no tags.
package extractor
