// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package models defines the data carried through a scan.

  - Record: metadata extracted from one photo, keyed by its path
  - Message: a Record's broker form, a key plus the JSON Body
  - Body: the published payload with keys lat, long, altitude, tmstmp
  - ScanRequest, ScanResponse: the HTTP scan endpoint's request and reply

Payloads are encoded with goccy/go-json.
*/
package models
