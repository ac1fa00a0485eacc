// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/dispatch-console/internal/db"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/listings"
	"github.com/canonical/dispatch-console/pkg/metrics"
	"github.com/canonical/dispatch-console/pkg/status"
	"github.com/canonical/dispatch-console/pkg/tenant"
)

func NewRouter(
	tenantService tenant.ServiceInterface,
	listingsService listings.ServiceInterface,
	authMiddleware *authentication.Middleware,
	dbClient db.DBClientInterface,
	dependencies map[string]status.PingerInterface,
	allowedOrigins []string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(allowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(dependencies, tracer, monitor, logger).RegisterEndpoints(router)

	router.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate())
		r.Use(db.TransactionMiddleware(dbClient, logger))

		tenant.NewAPI(tenantService, tracer, monitor, logger).RegisterEndpoints(r)
		listings.NewAPI(listingsService, tracer, monitor, logger).RegisterEndpoints(r)
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
