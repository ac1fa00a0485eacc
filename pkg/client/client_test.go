// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/filters"
	v0 "github.com/canonical/dispatch-console/v0"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, logging.NewNoopLogger(), opts...)
	c.SetToken("secret")
	return c
}

func TestGetProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/profile", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":     "u1",
			"email":  "guard@example.com",
			"tenant": map[string]string{"tenantId": "t1", "status": "active"},
		})
	})

	p, err := c.GetProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u1", p.ID)
	assert.True(t, p.HasActiveTenant())
}

func TestAcceptInvitation(t *testing.T) {
	tests := []struct {
		name     string
		response map[string]string
		expected string
		err      error
	}{
		{"tenantId", map[string]string{"tenantId": "t1"}, "t1", nil},
		{"id", map[string]string{"id": "t2"}, "t2", nil},
		{"tenantId preferred", map[string]string{"tenantId": "t1", "id": "inv-9"}, "t1", nil},
		{"empty", map[string]string{}, "", ErrMissingTenantID},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v0/tenants/invitations/accept", r.URL.Path)

				var body v0.AcceptInvitationRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "CODE-1", body.Code)

				writeJSON(w, http.StatusOK, test.response)
			})

			id, err := c.AcceptInvitation(context.Background(), "CODE-1")
			assert.ErrorIs(t, err, test.err)
			assert.Equal(t, test.expected, id)
		})
	}
}

func TestCreateTenantPrefersID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/tenants", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "t1", "tenantId": "legacy"})
	})

	id, err := c.CreateTenant(context.Background(), v0.CreateTenantRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "t1", id)
}

func TestCreateInvitation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v0/tenants/invitations", r.URL.Path)

		var req v0.CreateInvitationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "guard@example.com", req.Email)

		writeJSON(w, http.StatusCreated, v0.CreateInvitationResponse{Code: "c1", TenantID: req.TenantID, Email: req.Email})
	})

	inv, err := c.CreateInvitation(context.Background(), v0.CreateInvitationRequest{TenantID: "t1", Email: "guard@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "c1", inv.Code)
	assert.Equal(t, "t1", inv.TenantID)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, v0.ErrorResponse{Status: http.StatusNotFound, Message: "invitation not found"})
	})

	_, err := c.AcceptInvitation(context.Background(), "nope")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "invitation not found", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestValidationErrorFromServer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, v0.ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid filter",
			Errors:  []filters.FieldError{{Field: "categoryId", Message: "unknown category"}},
		})
	})

	_, err := c.ListVehicles(context.Background(), "t1", filters.VehicleFilter{CategoryID: "x"})

	verr, ok := filters.AsValidationError(err)
	require.True(t, ok)
	_, found := verr.Field("categoryId")
	assert.True(t, found)
}

func TestListTicketsSendsRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/tenants/t1/tickets", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "c1", q.Get(filters.ParamClientID))
		assert.Equal(t, "s1", q.Get(filters.ParamSiteID))
		assert.Equal(t, filters.DispatchStatusAll, q.Get(filters.ParamStatus))
		assert.Equal(t, "2025-03-10T13:00:00.000Z", q.Get(filters.ParamFrom))
		assert.Equal(t, "2025-03-10T22:30:00.000Z", q.Get(filters.ParamTo))
		assert.Equal(t, "false", q.Get(filters.ParamIncludeArchived))

		writeJSON(w, http.StatusOK, v0.ListTicketsResponse{Data: []v0.Ticket{{ID: "tk1"}}})
	})

	f := filters.DispatchFilter{
		ClientID: "c1",
		SiteID:   "s1",
		FromDate: "2025-03-10",
		FromTime: "08:00",
		ToDate:   "2025-03-10",
		ToTime:   "17:30",
	}

	tickets, err := c.ListTickets(context.Background(), "t1", f, time.FixedZone("COT", -5*60*60))
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "tk1", tickets[0].ID)
}

func TestListTicketsInvalidFilterSkipsNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.ListTickets(context.Background(), "t1", filters.DispatchFilter{ClientID: "c1"}, nil)

	_, ok := filters.AsValidationError(err)
	assert.True(t, ok)
	assert.False(t, called)
}

func TestListInvoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "pagada", q.Get(filters.ParamStatus))
		assert.Equal(t, "10", q.Get(filters.ParamPerPage))

		writeJSON(w, http.StatusOK, v0.ListInvoicesResponse{Data: []v0.Invoice{{ID: "i1"}}, Page: 1, PerPage: 10})
	})

	out, err := c.ListInvoices(context.Background(), "t1", filters.InvoiceFilter{Status: "pagada"})
	require.NoError(t, err)
	assert.Len(t, out.Data, 1)
}

func TestListCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"name": map[string]string{"common": "Peru"}, "cca2": "PE"},
			{"name": map[string]string{"common": "Colombia"}, "cca2": "CO"},
			{"name": map[string]string{"common": ""}, "cca2": "XX"},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewClient("http://localhost", logging.NewNoopLogger(), WithCountriesURL(srv.URL))

	countries, err := c.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Country{{Code: "CO", Name: "Colombia"}, {Code: "PE", Name: "Peru"}}, countries)
}

func TestListCountriesCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient("http://localhost", logging.NewNoopLogger(), WithCountriesURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := c.ListCountries(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
