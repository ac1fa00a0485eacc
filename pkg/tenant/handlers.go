// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/dispatch-console/internal/http/types"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/authentication"
	v0 "github.com/canonical/dispatch-console/v0"
)

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get(v0.PathPrefix+"/profile", a.profile)
	mux.Post(v0.PathPrefix+"/tenants", a.createTenant)
	mux.Get(v0.PathPrefix+"/tenants/{id}", a.getTenant)
	mux.Post(v0.PathPrefix+"/tenants/invitations", a.createInvitation)
	mux.Post(v0.PathPrefix+"/tenants/invitations/accept", a.acceptInvitation)
}

func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.profile")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	profile, err := a.service.GetProfile(ctx, userID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, profile, a.logger)
}

func (a *API) createTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.createTenant")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	var req v0.CreateTenantRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	t, err := a.service.CreateTenant(ctx, userID, req)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, toTenant(t), a.logger)
}

func (a *API) getTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.getTenant")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	t, err := a.service.GetTenant(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, toTenant(t), a.logger)
}

func (a *API) createInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.createInvitation")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	var req v0.CreateInvitationRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	inv, err := a.service.CreateInvitation(ctx, userID, req)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteJSON(
		w,
		http.StatusCreated,
		v0.CreateInvitationResponse{
			Code:      inv.Code,
			TenantID:  inv.TenantID,
			Email:     inv.Email,
			ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
		},
		a.logger,
	)
}

func (a *API) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "tenant.API.acceptInvitation")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	var req v0.AcceptInvitationRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	m, err := a.service.AcceptInvitation(ctx, userID, req.Code)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, v0.AcceptInvitationResponse{TenantID: m.TenantID, Status: m.Status}, a.logger)
}

func toTenant(t *types.Tenant) v0.Tenant {
	out := v0.Tenant{
		ID:            t.ID,
		Name:          t.Name,
		Email:         t.Email,
		Phone:         t.Phone,
		Address:       t.Address,
		TaxNumber:     t.TaxNumber,
		BusinessTitle: t.BusinessTitle,
		Timezone:      t.Timezone,
		Enabled:       t.Enabled,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
