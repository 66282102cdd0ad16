// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package broker provides the NATS JetStream clients used to publish EXIF
records.

Two drivers implement Client:

  - "jetstream" (default) publishes with nats.go/jetstream and returns the
    stream sequence from each PubAck.
  - "watermill" publishes through the Watermill NATS publisher with
    synchronous JetStream acknowledgement.

Both drivers send one message at a time and block until the broker
acknowledges it. A Dialer builds one Client per publish call; all clients
from the same Dialer share a gobreaker circuit breaker so that a dead
broker is detected across requests.

StreamInitializer creates or updates the JetStream stream that captures the
publish subject, and EmbeddedServer runs an in-process nats-server for
single-node deployments and tests.

# Headers

Every message carries:

	Geoscan-Key:  <file path>
	Geoscan-Tag:  exif_data
	Nats-Msg-Id:  <uuid, fresh per send>

The message ID lets JetStream drop duplicates caused by client retries of the
same send. It does not deduplicate across scans.
*/
package broker
