// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/geoscan/internal/api"
	"github.com/tomtom215/geoscan/internal/config"
	"github.com/tomtom215/geoscan/internal/logging"
	"github.com/tomtom215/geoscan/internal/supervisor"
	"github.com/tomtom215/geoscan/internal/supervisor/services"
)

// newHTTPServer builds the HTTP front end for svc.
func newHTTPServer(cfg *config.Config, svc api.ScanRunner, ready api.ReadinessCheck) *http.Server {
	handlerCfg := api.DefaultHandlerConfig()
	handlerCfg.ReportPipelineErrors = cfg.Server.ReportPipelineErrors

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow

	router := api.NewRouter(api.NewHandler(svc, ready, handlerCfg), api.NewChiMiddleware(mwCfg))

	return &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs the supervised HTTP server until ctx is canceled or the tree
// terminates.
func serve(ctx context.Context, cfg *config.Config, svc api.ScanRunner, comps *brokerComponents) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		comps.shutdown()
		return err
	}

	if comps.server != nil {
		tree.AddBrokerService(services.NewEmbeddedBrokerService(comps.server, brokerShutdownTimeout))
		logging.Info().Msg("Embedded NATS server added to supervisor tree")
	}

	server := newHTTPServer(cfg, svc, comps.readiness(cfg.Broker.ConnectTimeout))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	treeErr := tree.Serve(ctx)
	if errors.Is(treeErr, context.Canceled) || errors.Is(treeErr, context.DeadlineExceeded) {
		treeErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	// Covers a tree that exited before its broker service ran.
	comps.shutdown()
	return treeErr
}
