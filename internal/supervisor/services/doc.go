// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package services adapts Geoscan's long-running components to suture.Service.

  - HTTPServerService: runs the API http.Server, shuts it down gracefully
  - EmbeddedBrokerService: owns the in-process NATS server for its lifetime

Each wrapper implements Serve(ctx) error and String() for suture's event log.
*/
package services
