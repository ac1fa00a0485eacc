// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package listings

import (
	"context"

	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/filters"
)

type ServiceInterface interface {
	ListTickets(ctx context.Context, userID, tenantID string, f filters.DispatchFilter, r filters.DateTimeRange) ([]*types.IncidentTicket, error)
	ListVehicles(ctx context.Context, userID, tenantID string, f filters.VehicleFilter) ([]*types.Vehicle, filters.VehicleFilter, error)
	ListInvoices(ctx context.Context, userID, tenantID string, f filters.InvoiceFilter) ([]*types.Invoice, filters.InvoiceFilter, error)
}

// TenantsInterface resolves a tenant the caller is allowed to read.
type TenantsInterface interface {
	GetTenant(ctx context.Context, userID, tenantID string) (*types.Tenant, error)
}

type StorageInterface interface {
	ListTickets(ctx context.Context, q types.TicketQuery) ([]*types.IncidentTicket, error)
	ListVehicles(ctx context.Context, q types.VehicleQuery) ([]*types.Vehicle, error)
	ListInvoices(ctx context.Context, q types.InvoiceQuery) ([]*types.Invoice, error)
}
