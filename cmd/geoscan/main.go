// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

// Package main is the entry point for the geoscan service.
//
// Geoscan walks a directory of photos, extracts GPS position, altitude and
// capture time from each file's EXIF block, and publishes one message per
// photo to a NATS subject.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Broker: embedded NATS server (if NATS_EMBEDDED), stream provisioning,
//     client dialer with circuit breaker
//  4. Pipeline: scanner and publisher
//  5. Front end: one-shot CLI scan (-dir) or the supervised HTTP server
//
// # Example Usage
//
// Serve the HTTP API against an external NATS server:
//
//	export NATS_URL=nats://nats:4222
//	./geoscan
//
//	curl -X POST localhost:8090/api/v1/scan -d '{"directory_name":"/photos"}'
//
// Scan once and exit, with an in-process broker:
//
//	export NATS_EMBEDDED=true NATS_STORE_DIR=/tmp/geoscan
//	./geoscan -dir /photos
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests and the embedded broker, if any, is shut down.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/geoscan/internal/api"
	"github.com/tomtom215/geoscan/internal/config"
	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/pipeline"
)

func main() {
	dir := flag.String("dir", "", "scan this directory once and exit instead of serving HTTP")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging.LoggerConfig())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, *dir))
}

// run wires the application and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, dir string) int {
	source := pipeline.SourceHTTP
	if dir != "" {
		source = pipeline.SourceCLI
	}

	logging.Info().
		Str("driver", cfg.Broker.Driver).
		Str("subject", cfg.Broker.Subject).
		Bool("embedded_broker", cfg.Broker.EmbeddedServer).
		Str("source", source).
		Msg("Starting geoscan")

	comps, err := initBroker(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize broker")
		return 1
	}

	svc, err := newPipeline(cfg, comps.dial, source)
	if err != nil {
		comps.shutdown()
		logging.Error().Err(err).Msg("Failed to initialize pipeline")
		return 1
	}

	if dir != "" {
		defer comps.shutdown()
		return runOnce(ctx, svc, dir, cfg.Server.ReportPipelineErrors)
	}

	if err := serve(ctx, cfg, svc, comps); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		return 1
	}
	logging.Info().Msg("Application stopped gracefully")
	return 0
}

// runOnce performs a single scan-and-publish for the CLI front end.
// Failures are always logged; they only change the exit code when the
// error policy reports them.
func runOnce(ctx context.Context, svc api.ScanRunner, dir string, reportErrors bool) int {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	summary, err := svc.Run(ctx, dir)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("directory", dir).
			Bool("traversal", pipeline.IsTraversal(err)).
			Msg("Scan failed")
		if reportErrors {
			return 1
		}
		return 0
	}

	fmt.Fprintf(os.Stdout, "published %d messages from %s in %s\n",
		summary.Published, summary.Directory, summary.Duration.Round(time.Millisecond))
	return 0
}
