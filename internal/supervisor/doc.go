// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

/*
Package supervisor provides process supervision for the geoscan service using suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("geoscan")
	├── BrokerSupervisor ("broker-layer")
	│   └── EmbeddedBrokerService (if NATS_EMBEDDED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The HTTP server is restarted with backoff when it fails. The embedded NATS
server is started before the tree so the stream exists before the first
scan; if it dies its service returns suture.ErrTerminateSupervisorTree and
the process exits.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddBrokerService(services.NewEmbeddedBrokerService(srv, 10*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: stopped cleanly, not restarted
  - Return error: crashed, restarted with backoff
  - Return suture.ErrTerminateSupervisorTree: stop the whole tree

# Debugging Shutdown Issues

UnstoppedServiceReport lists services that ignored cancellation past the
configured ShutdownTimeout.

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
