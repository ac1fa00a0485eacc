// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"net/http"
	"runtime/debug"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/dispatch-console/internal/http/types"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/version"
)

const pingTimeout = 2 * time.Second

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

type Status struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	BuildInfo    BuildInfo         `json:"buildInfo"`
}

type API struct {
	dependencies map[string]PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.alive")
	defer span.End()

	resp := Status{Status: "ok", BuildInfo: buildInfo()}
	code := http.StatusOK

	if len(a.dependencies) > 0 {
		resp.Dependencies = make(map[string]string, len(a.dependencies))
	}

	names := make([]string, 0, len(a.dependencies))
	for name := range a.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		available := 1.0
		resp.Dependencies[name] = "ok"

		if err := a.ping(ctx, a.dependencies[name]); err != nil {
			a.logger.Warnf("dependency %s unavailable: %v", name, err)
			available = 0
			resp.Dependencies[name] = "unavailable"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if err := a.monitor.SetDependencyAvailability(map[string]string{"component": name}, available); err != nil {
			a.logger.Debugf("failed to record %s availability: %v", name, err)
		}
	}

	httptypes.WriteJSON(w, code, resp, a.logger)
}

func (a *API) ping(ctx context.Context, p PingerInterface) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return p.Ping(ctx)
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "status.API.version")
	defer span.End()

	httptypes.WriteJSON(w, http.StatusOK, buildInfo(), a.logger)
}

func buildInfo() BuildInfo {
	info := BuildInfo{Version: version.Version}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			info.Commit = s.Value
		}
	}

	return info
}

// NewAPI reports on the given dependencies, keyed by the component name used in metrics.
func NewAPI(dependencies map[string]PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		dependencies: dependencies,
		tracer:       tracer,
		monitor:      monitor,
		logger:       logger,
	}
}
