// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"time"

	"github.com/canonical/dispatch-console/internal/types"
	v0 "github.com/canonical/dispatch-console/v0"
)

type ServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*v0.Profile, error)
	CreateTenant(ctx context.Context, userID string, req v0.CreateTenantRequest) (*types.Tenant, error)
	GetTenant(ctx context.Context, userID, tenantID string) (*types.Tenant, error)
	CreateInvitation(ctx context.Context, userID string, req v0.CreateInvitationRequest) (*types.Invitation, error)
	AcceptInvitation(ctx context.Context, userID, code string) (*types.Membership, error)
}

// StorageInterface is the subset of internal/storage the tenant service needs.
type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	UpsertMember(ctx context.Context, tenantID, userID, role, status string) (string, error)
	GetMember(ctx context.Context, tenantID, userID string) (*types.Membership, error)
	ListMembershipsByUserID(ctx context.Context, userID string) ([]*types.Membership, error)
	CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error)
	GetInvitationByCode(ctx context.Context, code string) (*types.Invitation, error)
	MarkInvitationAccepted(ctx context.Context, id string, at time.Time) error
}

type AuthzInterface interface {
	AssignTenantOwner(ctx context.Context, tenantID, userID string) error
	AssignTenantMember(ctx context.Context, tenantID, userID string) error
	CheckTenantAccess(ctx context.Context, tenantID, userID, relation string) (bool, error)
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	GetIdentityEmail(ctx context.Context, id string) (string, error)
}
