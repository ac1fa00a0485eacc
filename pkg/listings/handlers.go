// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package listings

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/dispatch-console/internal/http/types"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/filters"
	v0 "github.com/canonical/dispatch-console/v0"
)

const issuedOnLayout = "2006-01-02"

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get(v0.PathPrefix+"/tenants/{id}/tickets", a.tickets)
	mux.Get(v0.PathPrefix+"/tenants/{id}/vehicles", a.vehicles)
	mux.Get(v0.PathPrefix+"/tenants/{id}/invoices", a.invoices)
}

func (a *API) tickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "listings.API.tickets")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	f, rng, err := filters.DecodeDispatch(r.URL.Query())
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	tickets, err := a.service.ListTickets(ctx, userID, chi.URLParam(r, "id"), f, rng)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	resp := v0.ListTicketsResponse{Data: make([]v0.Ticket, 0, len(tickets))}
	for _, t := range tickets {
		resp.Data = append(resp.Data, v0.Ticket{
			ID:         t.ID,
			ClientID:   t.ClientID,
			SiteID:     t.SiteID,
			Title:      t.Title,
			Status:     t.Status,
			ReportedAt: t.ReportedAt.UTC().Format(time.RFC3339),
			Archived:   t.Archived,
		})
	}

	httptypes.WriteJSON(w, http.StatusOK, resp, a.logger)
}

func (a *API) vehicles(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "listings.API.vehicles")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	f, err := filters.DecodeVehicle(r.URL.Query())
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	vehicles, f, err := a.service.ListVehicles(ctx, userID, chi.URLParam(r, "id"), f)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	resp := v0.ListVehiclesResponse{
		Data:    make([]v0.Vehicle, 0, len(vehicles)),
		Page:    f.Page,
		PerPage: f.PerPage,
	}
	for _, v := range vehicles {
		resp.Data = append(resp.Data, v0.Vehicle{
			ID:         v.ID,
			CategoryID: v.CategoryID,
			Plate:      v.Plate,
			Status:     v.Status,
		})
	}

	httptypes.WriteJSON(w, http.StatusOK, resp, a.logger)
}

func (a *API) invoices(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "listings.API.invoices")
	defer span.End()

	userID, err := authentication.MustUserID(ctx)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	f, err := filters.DecodeInvoice(r.URL.Query())
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	invoices, f, err := a.service.ListInvoices(ctx, userID, chi.URLParam(r, "id"), f)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	resp := v0.ListInvoicesResponse{
		Data:    make([]v0.Invoice, 0, len(invoices)),
		Page:    f.Page,
		PerPage: f.PerPage,
	}
	for _, i := range invoices {
		resp.Data = append(resp.Data, v0.Invoice{
			ID:         i.ID,
			ClientID:   i.ClientID,
			Number:     i.Number,
			Status:     i.Status,
			IssuedOn:   i.IssuedOn.Format(issuedOnLayout),
			TotalCents: i.Total,
		})
	}

	httptypes.WriteJSON(w, http.StatusOK, resp, a.logger)
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
