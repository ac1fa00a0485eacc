// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/dispatch-console/internal/db"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

var tenantColumns = []string{
	"id", "name", "email", "phone", "address", "tax_number", "business_title", "timezone", "created_at", "enabled",
}

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func scanTenant(row sq.RowScanner) (*types.Tenant, error) {
	var t types.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Address, &t.TaxNumber, &t.BusinessTitle, &t.Timezone, &t.CreatedAt, &t.Enabled)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	row := s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "name", "email", "phone", "address", "tax_number", "business_title", "timezone", "enabled").
		Values(id.String(), t.Name, t.Email, t.Phone, t.Address, t.TaxNumber, t.BusinessTitle, t.Timezone, t.Enabled).
		Suffix("RETURNING " + strings.Join(tenantColumns, ", ")).
		QueryRowContext(ctx)

	created, err := scanTenant(row)
	if err != nil {
		return nil, wrap(err, "failed to insert tenant")
	}

	return created, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(tenantColumns...).
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	t, err := scanTenant(row)
	if err != nil {
		return nil, wrap(err, "failed to get tenant")
	}

	return t, nil
}

// UpsertMember records a membership. An invited row never downgrades an existing
// membership, while an active row promotes whatever was there before.
func (s *Storage) UpsertMember(ctx context.Context, tenantID, userID, role, status string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpsertMember")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate membership ID: %w", err)
	}

	conflict := "ON CONFLICT (tenant_id, kratos_identity_id) DO UPDATE SET status = EXCLUDED.status"
	if status == types.MembershipStatusInvited {
		conflict = "ON CONFLICT (tenant_id, kratos_identity_id) DO UPDATE SET status = memberships.status"
	}

	var memberID string
	err = s.db.Statement(ctx).
		Insert("memberships").
		Columns("id", "tenant_id", "kratos_identity_id", "role", "status").
		Values(id.String(), tenantID, userID, role, status).
		Suffix(conflict + " RETURNING id").
		QueryRowContext(ctx).
		Scan(&memberID)

	if err != nil {
		return "", wrap(err, "failed to upsert member")
	}

	return memberID, nil
}

func (s *Storage) GetMember(ctx context.Context, tenantID, userID string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetMember")
	defer span.End()

	var m types.Membership
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "kratos_identity_id", "role", "status", "created_at").
		From("memberships").
		Where(sq.Eq{"tenant_id": tenantID, "kratos_identity_id": userID}).
		QueryRowContext(ctx).
		Scan(&m.ID, &m.TenantID, &m.KratosIdentityID, &m.Role, &m.Status, &m.CreatedAt)

	if err != nil {
		return nil, wrap(err, "failed to get member")
	}

	return &m, nil
}

func (s *Storage) ListMembershipsByUserID(ctx context.Context, userID string) ([]*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListMembershipsByUserID")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("m.id", "m.tenant_id", "m.kratos_identity_id", "m.role", "m.status", "m.created_at").
		From("memberships m").
		Join("tenants t ON t.id = m.tenant_id").
		Where(sq.Eq{"m.kratos_identity_id": userID, "t.enabled": true}).
		OrderBy("m.created_at").
		QueryContext(ctx)
	if err != nil {
		return nil, wrap(err, "failed to list memberships")
	}
	defer rows.Close()

	var members []*types.Membership
	for rows.Next() {
		var m types.Membership
		if err := rows.Scan(&m.ID, &m.TenantID, &m.KratosIdentityID, &m.Role, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return members, nil
}

func (s *Storage) CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateInvitation")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation ID: %w", err)
	}

	created := *inv
	err = s.db.Statement(ctx).
		Insert("invitations").
		Columns("id", "code", "tenant_id", "email", "role", "expires_at").
		Values(id.String(), inv.Code, inv.TenantID, inv.Email, inv.Role, inv.ExpiresAt).
		Suffix("RETURNING id, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.CreatedAt)

	if err != nil {
		return nil, wrap(err, "failed to insert invitation")
	}

	return &created, nil
}

func (s *Storage) GetInvitationByCode(ctx context.Context, code string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetInvitationByCode")
	defer span.End()

	var inv types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "code", "tenant_id", "email", "role", "expires_at", "accepted_at", "created_at").
		From("invitations").
		Where(sq.Eq{"code": code}).
		QueryRowContext(ctx).
		Scan(&inv.ID, &inv.Code, &inv.TenantID, &inv.Email, &inv.Role, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)

	if err != nil {
		return nil, wrap(err, "failed to get invitation")
	}

	return &inv, nil
}

func (s *Storage) MarkInvitationAccepted(ctx context.Context, id string, at time.Time) error {
	ctx, span := s.tracer.Start(ctx, "storage.MarkInvitationAccepted")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Update("invitations").
		Set("accepted_at", at).
		Where(sq.And{sq.Eq{"id": id}, sq.Eq{"accepted_at": nil}}).
		ExecContext(ctx)

	return wrap(err, "failed to mark invitation accepted")
}
