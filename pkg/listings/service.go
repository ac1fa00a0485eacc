// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/filters"
)

type Service struct {
	tenants         TenantsInterface
	storage         StorageInterface
	defaultTimezone string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// location picks the zone date and time filters are read in: the tenant's own,
// then the service default, then UTC.
func (s *Service) location(t *types.Tenant) *time.Location {
	for _, name := range []string{t.Timezone, s.defaultTimezone} {
		if name == "" {
			continue
		}

		loc, err := time.LoadLocation(name)
		if err == nil {
			return loc
		}
		s.logger.Warnf("unknown timezone %q for tenant %s: %v", name, t.ID, err)
	}

	return time.UTC
}

// ListTickets lists the incident tickets of one client site. Absolute bounds in
// r take precedence over the date and time pairs of f.
func (s *Service) ListTickets(ctx context.Context, userID, tenantID string, f filters.DispatchFilter, r filters.DateTimeRange) ([]*types.IncidentTicket, error) {
	ctx, span := s.tracer.Start(ctx, "listings.Service.ListTickets")
	defer span.End()

	t, err := s.tenants.GetTenant(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	f, err = filters.ValidateDispatch(f)
	if err != nil {
		return nil, err
	}

	pairs, err := filters.ToDateTimeRange(f, s.location(t))
	if err != nil {
		return nil, err
	}
	if r.From == nil {
		r.From = pairs.From
	}
	if r.To == nil {
		r.To = pairs.To
	}

	tickets, err := s.storage.ListTickets(ctx, types.TicketQuery{
		TenantID:        t.ID,
		ClientID:        f.ClientID,
		SiteID:          f.SiteID,
		Status:          f.Status,
		From:            r.From,
		To:              r.To,
		IncludeArchived: f.IncludeArchived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return tickets, nil
}

func (s *Service) ListVehicles(ctx context.Context, userID, tenantID string, f filters.VehicleFilter) ([]*types.Vehicle, filters.VehicleFilter, error) {
	ctx, span := s.tracer.Start(ctx, "listings.Service.ListVehicles")
	defer span.End()

	t, err := s.tenants.GetTenant(ctx, userID, tenantID)
	if err != nil {
		return nil, f, err
	}

	f, err = filters.ValidateVehicle(f)
	if err != nil {
		return nil, f, err
	}

	vehicles, err := s.storage.ListVehicles(ctx, types.VehicleQuery{
		TenantID:   t.ID,
		CategoryID: f.CategoryID,
		Status:     f.Status,
		Page:       int64(f.Page),
		PerPage:    uint64(f.PerPage),
	})
	if err != nil {
		return nil, f, fmt.Errorf("failed to list vehicles: %w", err)
	}

	return vehicles, f, nil
}

func (s *Service) ListInvoices(ctx context.Context, userID, tenantID string, f filters.InvoiceFilter) ([]*types.Invoice, filters.InvoiceFilter, error) {
	ctx, span := s.tracer.Start(ctx, "listings.Service.ListInvoices")
	defer span.End()

	t, err := s.tenants.GetTenant(ctx, userID, tenantID)
	if err != nil {
		return nil, f, err
	}

	f, err = filters.ValidateInvoice(f)
	if err != nil {
		return nil, f, err
	}

	r, err := f.Range(s.location(t))
	if err != nil {
		return nil, f, err
	}

	invoices, err := s.storage.ListInvoices(ctx, types.InvoiceQuery{
		TenantID: t.ID,
		ClientID: f.ClientID,
		Status:   f.Status,
		From:     r.From,
		To:       r.To,
		Page:     int64(f.Page),
		PerPage:  uint64(f.PerPage),
	})
	if err != nil {
		return nil, f, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, f, nil
}

func NewService(
	tenants TenantsInterface,
	storage StorageInterface,
	defaultTimezone string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		tenants:         tenants,
		storage:         storage,
		defaultTimezone: defaultTimezone,
		tracer:          tracer,
		monitor:         monitor,
		logger:          logger,
	}
}
