// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/filters"
	"github.com/canonical/dispatch-console/pkg/listings"
	"github.com/canonical/dispatch-console/pkg/tenant"
	v0 "github.com/canonical/dispatch-console/v0"
)

const origin = "https://console.example.com"

type fakeDB struct {
	txCalls int
}

func (f *fakeDB) Statement(context.Context) sq.StatementBuilderType { return sq.StatementBuilder }
func (f *fakeDB) Ping(context.Context) error                        { return nil }
func (f *fakeDB) Close()                                            {}

func (f *fakeDB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	f.txCalls++
	return fn(ctx)
}

type fixture struct {
	tenants  *tenant.MockServiceInterface
	listings *listings.MockServiceInterface
	db       *fakeDB
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		tenants:  tenant.NewMockServiceInterface(ctrl),
		listings: listings.NewMockServiceInterface(ctrl),
		db:       new(fakeDB),
	}

	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test")
	logger := logging.NewNoopLogger()

	f.handler = NewRouter(
		f.tenants,
		f.listings,
		authentication.NewMiddleware(authentication.NewNoopVerifier(), tracer, monitor, logger),
		f.db,
		nil,
		[]string{origin},
		tracer,
		monitor,
		logger,
	)

	return f
}

func (f *fixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/v0/status", "/api/v0/version", "/api/v0/metrics"} {
		w := f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/v0/profile", "/api/v0/tenants/t1", "/api/v0/tenants/t1/vehicles"} {
		w := f.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestProfileCarriesIdentity(t *testing.T) {
	f := newFixture(t)
	f.tenants.EXPECT().GetProfile(gomock.Any(), "user-1").Return(&v0.Profile{ID: "user-1", Tenants: []v0.Membership{}}, nil)

	w := f.do(http.MethodGet, "/api/v0/profile", "user-1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, f.db.txCalls)
}

func TestWritesRunInTransaction(t *testing.T) {
	f := newFixture(t)
	f.tenants.EXPECT().CreateTenant(gomock.Any(), "user-1", gomock.Any()).Return(&types.Tenant{ID: "t1", Name: "Acme"}, nil)

	w := f.do(http.MethodPost, "/api/v0/tenants", "user-1", `{"name":"Acme","email":"ops@acme.example","phone":"1","address":"2"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, f.db.txCalls)
}

func TestListingRoute(t *testing.T) {
	f := newFixture(t)
	f.listings.EXPECT().ListVehicles(gomock.Any(), "user-1", "t1", gomock.Any()).Return(nil, filters.VehicleFilter{Page: 1, PerPage: filters.DefaultPerPage}, nil)

	w := f.do(http.MethodGet, "/api/v0/tenants/t1/vehicles", "user-1", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v0/profile", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
}
