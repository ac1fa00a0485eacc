// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/canonical/dispatch-console/internal/authorization"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/filters"
	v0 "github.com/canonical/dispatch-console/v0"
)

func serve(t *testing.T, svc ServiceInterface, target string) *httptest.ResponseRecorder {
	t.Helper()

	mux := chi.NewMux()
	mux.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authentication.WithUserID(r.Context(), userID)))
		})
	})
	NewAPI(svc, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger()).RegisterEndpoints(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAPI_Tickets(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	from := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	reported := time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC)

	svc.EXPECT().ListTickets(gomock.Any(), userID, tenantID, filters.DispatchFilter{ClientID: "c1", SiteID: "s1"}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, _ filters.DispatchFilter, r filters.DateTimeRange) ([]*types.IncidentTicket, error) {
			require.NotNil(t, r.From)
			assert.True(t, r.From.Equal(from))
			assert.Nil(t, r.To)
			return []*types.IncidentTicket{{ID: "t-1", ClientID: "c1", SiteID: "s1", Status: "abierto", ReportedAt: reported}}, nil
		},
	)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/tickets?clientId=c1&siteId=s1&from=2024-05-01T14:00:00.000Z")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp v0.ListTicketsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2024-05-01T15:04:05Z", resp.Data[0].ReportedAt)
}

func TestAPI_TicketsBadInstant(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/tickets?clientId=c1&siteId=s1&to=yesterday")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp v0.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "to", resp.Errors[0].Field)
}

func TestAPI_Vehicles(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	svc.EXPECT().ListVehicles(gomock.Any(), userID, tenantID, filters.VehicleFilter{Status: "activo", PerPage: 25, Page: 2}).
		Return([]*types.Vehicle{{ID: "v-1", Plate: "ABC-123", Status: "activo"}}, filters.VehicleFilter{Status: "activo", PerPage: 25, Page: 2}, nil)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/vehicles?status=activo&perPage=25&page=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp v0.ListVehiclesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 25, resp.PerPage)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ABC-123", resp.Data[0].Plate)
}

func TestAPI_VehiclesForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	svc.EXPECT().ListVehicles(gomock.Any(), userID, tenantID, gomock.Any()).Return(nil, filters.VehicleFilter{}, authorization.ErrForbidden)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/vehicles")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPI_Invoices(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	issued := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	svc.EXPECT().ListInvoices(gomock.Any(), userID, tenantID, filters.InvoiceFilter{FromDate: "2024-05-01"}).
		Return([]*types.Invoice{{ID: "i-1", Number: "F-1", IssuedOn: issued, Total: 12550}}, filters.InvoiceFilter{FromDate: "2024-05-01", Page: 1, PerPage: 10}, nil)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/invoices?fromDate=2024-05-01")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp v0.ListInvoicesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2024-05-03", resp.Data[0].IssuedOn)
	assert.Equal(t, int64(12550), resp.Data[0].TotalCents)
	assert.Equal(t, 10, resp.PerPage)
}

func TestAPI_InvoicesBadPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockServiceInterface(ctrl)

	w := serve(t, svc, "/api/v0/tenants/tenant-1/invoices?page=two")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
