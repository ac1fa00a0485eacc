// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	"github.com/canonical/dispatch-console/internal/types"
)

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	UpsertMember(ctx context.Context, tenantID, userID, role, status string) (string, error)
	GetMember(ctx context.Context, tenantID, userID string) (*types.Membership, error)
	ListMembershipsByUserID(ctx context.Context, userID string) ([]*types.Membership, error)
	CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error)
	GetInvitationByCode(ctx context.Context, code string) (*types.Invitation, error)
	MarkInvitationAccepted(ctx context.Context, id string, at time.Time) error
	ListTickets(ctx context.Context, q types.TicketQuery) ([]*types.IncidentTicket, error)
	ListVehicles(ctx context.Context, q types.VehicleQuery) ([]*types.Vehicle, error)
	ListInvoices(ctx context.Context, q types.InvoiceQuery) ([]*types.Invoice, error)
}
