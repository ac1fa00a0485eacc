// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/dispatch-console/internal/authorization"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/storage"
	"github.com/canonical/dispatch-console/internal/tracing"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/filters"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
	v0 "github.com/canonical/dispatch-console/v0"
)

// placeholder fills optional tenant fields left blank on creation.
const placeholder = "N/A"

type Service struct {
	storage            StorageInterface
	authz              AuthzInterface
	kratos             KratosClientInterface
	caches             tenantcache.Provider
	cachedReads        bool
	invitationLifetime time.Duration
	defaultTimezone    string

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

type Option func(*Service)

// WithoutCachedReads makes every read check the membership row. Use it when no
// authorizer backs the decision.
func WithoutCachedReads() Option {
	return func(s *Service) {
		s.cachedReads = false
	}
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	kratos KratosClientInterface,
	caches tenantcache.Provider,
	invitationLifetime time.Duration,
	defaultTimezone string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
	opts ...Option,
) *Service {
	s := &Service{
		storage:            storage,
		authz:              authz,
		kratos:             kratos,
		caches:             caches,
		cachedReads:        true,
		invitationLifetime: invitationLifetime,
		defaultTimezone:    defaultTimezone,
		now:                time.Now,
		tracer:             tracer,
		monitor:            monitor,
		logger:             logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetProfile lists every membership of userID. The email is best effort, a
// Kratos outage must not lock users out of the console.
func (s *Service) GetProfile(ctx context.Context, userID string) (*v0.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetProfile")
	defer span.End()

	members, err := s.storage.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	email, err := s.kratos.GetIdentityEmail(ctx, userID)
	if err != nil {
		s.logger.Warnf("failed to get identity %s: %v", userID, err)
	}

	profile := &v0.Profile{
		ID:      userID,
		Email:   email,
		Tenants: make([]v0.Membership, 0, len(members)),
	}
	for _, m := range members {
		profile.Tenants = append(profile.Tenants, v0.Membership{
			TenantID: m.TenantID,
			Status:   m.Status,
			Role:     m.Role,
		})
	}

	return profile, nil
}

func (s *Service) CreateTenant(ctx context.Context, userID string, req v0.CreateTenantRequest) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CreateTenant")
	defer span.End()

	req = s.normalize(req)
	if err := filters.Struct(req); err != nil {
		return nil, err
	}

	created, err := s.storage.CreateTenant(ctx, &types.Tenant{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		TaxNumber:     req.TaxNumber,
		BusinessTitle: req.BusinessTitle,
		Timezone:      req.Timezone,
		Enabled:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	if _, err := s.storage.UpsertMember(ctx, created.ID, userID, types.RoleOwner, types.MembershipStatusActive); err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	if err := s.authz.AssignTenantOwner(ctx, created.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to assign owner role: %w", err)
	}

	s.remember(ctx, userID, created.ID)
	s.logger.Security().TenantJoined(userID, created.ID, "create")

	return created, nil
}

func (s *Service) normalize(req v0.CreateTenantRequest) v0.CreateTenantRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.TaxNumber = strings.TrimSpace(req.TaxNumber)
	req.BusinessTitle = strings.TrimSpace(req.BusinessTitle)
	req.Timezone = strings.TrimSpace(req.Timezone)

	if req.TaxNumber == "" {
		req.TaxNumber = placeholder
	}
	if req.BusinessTitle == "" {
		req.BusinessTitle = placeholder
	}
	if req.Timezone == "" {
		req.Timezone = s.defaultTimezone
	}

	return req
}

func (s *Service) GetTenant(ctx context.Context, userID, tenantID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetTenant")
	defer span.End()

	if err := s.CheckTenantAccess(ctx, userID, tenantID, authorization.CAN_VIEW_PERMISSION); err != nil {
		return nil, err
	}

	t, err := s.storage.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return t, nil
}

// CheckTenantAccess requires an active membership and the authorizer's consent.
// Inviting also requires the owner role. Unless disabled with
// WithoutCachedReads, a cached tenant id matching tenantID stands in for the
// membership lookup on plain reads.
func (s *Service) CheckTenantAccess(ctx context.Context, userID, tenantID, relation string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CheckTenantAccess")
	defer span.End()

	if relation != authorization.CAN_VIEW_PERMISSION || !s.cached(ctx, userID, tenantID) {
		m, err := s.storage.GetMember(ctx, tenantID, userID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Security().AuthzFailure(userID, relation+"@"+authorization.TenantTuple(tenantID))
			return authorization.ErrForbidden
		}
		if err != nil {
			return fmt.Errorf("failed to get membership: %w", err)
		}

		if m.Status != types.MembershipStatusActive {
			s.logger.Security().AuthzFailure(userID, relation+"@"+authorization.TenantTuple(tenantID))
			return authorization.ErrForbidden
		}

		if relation == authorization.CAN_INVITE_PERMISSION && m.Role != types.RoleOwner {
			s.logger.Security().AuthzFailure(userID, relation+"@"+authorization.TenantTuple(tenantID))
			return authorization.ErrForbidden
		}
	}

	allowed, err := s.authz.CheckTenantAccess(ctx, tenantID, userID, relation)
	if err != nil {
		return fmt.Errorf("failed to check tenant access: %w", err)
	}
	if !allowed {
		return authorization.ErrForbidden
	}

	if relation == authorization.CAN_VIEW_PERMISSION {
		s.remember(ctx, userID, tenantID)
	}

	return nil
}

func (s *Service) CreateInvitation(ctx context.Context, userID string, req v0.CreateInvitationRequest) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CreateInvitation")
	defer span.End()

	req.TenantID = strings.TrimSpace(req.TenantID)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = types.RoleMember
	}

	if err := filters.Struct(req); err != nil {
		return nil, err
	}

	if err := s.CheckTenantAccess(ctx, userID, req.TenantID, authorization.CAN_INVITE_PERMISSION); err != nil {
		return nil, err
	}

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}

	if identityID == "" {
		s.logger.Infof("Creating new identity for email %s", req.Email)
		if identityID, err = s.kratos.CreateIdentity(ctx, req.Email); err != nil {
			return nil, fmt.Errorf("failed to provision user: %w", err)
		}
	}

	inv, err := s.storage.CreateInvitation(ctx, &types.Invitation{
		Code:      uuid.NewString(),
		TenantID:  req.TenantID,
		Email:     req.Email,
		Role:      req.Role,
		ExpiresAt: s.now().Add(s.invitationLifetime).UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	if _, err := s.storage.UpsertMember(ctx, req.TenantID, identityID, req.Role, types.MembershipStatusInvited); err != nil {
		return nil, fmt.Errorf("failed to add invited member: %w", err)
	}

	return inv, nil
}

// AcceptInvitation joins userID to the tenant the code was issued for. Only
// the invited identity can redeem it. Redeeming a code for a tenant the user
// already belongs to is a no-op.
func (s *Service) AcceptInvitation(ctx context.Context, userID, code string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.AcceptInvitation")
	defer span.End()

	req := v0.AcceptInvitationRequest{Code: strings.TrimSpace(code)}
	if err := filters.Struct(req); err != nil {
		return nil, err
	}

	inv, err := s.storage.GetInvitationByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	existing, err := s.storage.GetMember(ctx, inv.TenantID, userID)
	switch {
	case err == nil && existing.Status == types.MembershipStatusActive:
		s.remember(ctx, userID, inv.TenantID)
		return existing, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	now := s.now()
	if inv.AcceptedAt != nil {
		return nil, storage.ErrInvitationAccepted
	}
	if now.After(inv.ExpiresAt) {
		return nil, storage.ErrInvitationExpired
	}

	// the code only redeems for the identity it was issued to
	if existing == nil || existing.Status != types.MembershipStatusInvited {
		s.logger.Security().AuthzFailure(userID, "accept@"+authorization.TenantTuple(inv.TenantID))
		return nil, authorization.ErrForbidden
	}

	memberID, err := s.storage.UpsertMember(ctx, inv.TenantID, userID, inv.Role, types.MembershipStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to activate membership: %w", err)
	}

	if inv.Role == types.RoleOwner {
		err = s.authz.AssignTenantOwner(ctx, inv.TenantID, userID)
	} else {
		err = s.authz.AssignTenantMember(ctx, inv.TenantID, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	if err := s.storage.MarkInvitationAccepted(ctx, inv.ID, now); err != nil {
		return nil, err
	}

	s.remember(ctx, userID, inv.TenantID)
	s.logger.Security().TenantJoined(userID, inv.TenantID, "invitation")

	return &types.Membership{
		ID:               memberID,
		TenantID:         inv.TenantID,
		KratosIdentityID: userID,
		Role:             inv.Role,
		Status:           types.MembershipStatusActive,
	}, nil
}

func (s *Service) cached(ctx context.Context, userID, tenantID string) bool {
	if s.caches == nil || !s.cachedReads {
		return false
	}

	id, err := s.caches.ForUser(userID).Get(ctx)
	if err != nil && !errors.Is(err, tenantcache.ErrMiss) {
		s.logger.Debugf("tenant cache read failed: %v", err)
	}

	return err == nil && id == tenantID
}

func (s *Service) remember(ctx context.Context, userID, tenantID string) {
	if s.caches == nil {
		return
	}

	if err := s.caches.ForUser(userID).Set(ctx, tenantID); err != nil {
		s.logger.Warnf("failed to cache tenant id for %s: %v", userID, err)
	}
}
