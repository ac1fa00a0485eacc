// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/dispatch-console/internal/authorization"
	"github.com/canonical/dispatch-console/internal/storage"
	"github.com/canonical/dispatch-console/internal/types"
	"github.com/canonical/dispatch-console/pkg/filters"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
	v0 "github.com/canonical/dispatch-console/v0"
)

//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_tenant.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenant -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

const (
	userID   = "user-123"
	tenantID = "tenant-1"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	storage  *MockStorageInterface
	authz    *MockAuthzInterface
	kratos   *MockKratosClientInterface
	logger   *MockLoggerInterface
	security *MockSecurityLoggerInterface
	caches   *tenantcache.MemoryProvider
}

func newTestService(t *testing.T, opts ...Option) (*Service, *serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &serviceMocks{
		storage:  NewMockStorageInterface(ctrl),
		authz:    NewMockAuthzInterface(ctrl),
		kratos:   NewMockKratosClientInterface(ctrl),
		logger:   NewMockLoggerInterface(ctrl),
		security: NewMockSecurityLoggerInterface(ctrl),
		caches:   tenantcache.NewMemoryProvider(),
	}

	tracer := NewMockTracingInterface(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).Return(context.Background(), trace.SpanFromContext(context.Background())).AnyTimes()

	m.logger.EXPECT().Security().Return(m.security).AnyTimes()
	m.logger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()

	s := NewService(m.storage, m.authz, m.kratos, m.caches, 72*time.Hour, "UTC", tracer, NewMockMonitorInterface(ctrl), m.logger, opts...)
	s.now = func() time.Time { return fixedNow }

	return s, m
}

func cachedTenant(t *testing.T, m *serviceMocks) string {
	t.Helper()
	id, err := m.caches.ForUser(userID).Get(context.Background())
	if errors.Is(err, tenantcache.ErrMiss) {
		return ""
	}
	if err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	return id
}

func TestService_GetProfile(t *testing.T) {
	dbErr := errors.New("db error")

	testCases := []struct {
		name          string
		setupMocks    func(*serviceMocks)
		expectedEmail string
		expectedCount int
		expectedErr   error
	}{
		{
			name: "success",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().ListMembershipsByUserID(gomock.Any(), userID).Return([]*types.Membership{
					{TenantID: "tenant-1", Status: types.MembershipStatusActive, Role: types.RoleOwner},
					{TenantID: "tenant-2", Status: types.MembershipStatusInvited, Role: types.RoleMember},
				}, nil)
				m.kratos.EXPECT().GetIdentityEmail(gomock.Any(), userID).Return("guard@example.com", nil)
			},
			expectedEmail: "guard@example.com",
			expectedCount: 2,
		},
		{
			name: "kratos failure keeps the memberships",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().ListMembershipsByUserID(gomock.Any(), userID).Return([]*types.Membership{
					{TenantID: "tenant-1", Status: types.MembershipStatusActive},
				}, nil)
				m.kratos.EXPECT().GetIdentityEmail(gomock.Any(), userID).Return("", errors.New("kratos down"))
			},
			expectedCount: 1,
		},
		{
			name: "storage error",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().ListMembershipsByUserID(gomock.Any(), userID).Return(nil, dbErr)
			},
			expectedErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestService(t)
			tc.setupMocks(m)

			profile, err := s.GetProfile(context.Background(), userID)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if profile.ID != userID {
				t.Errorf("expected id %s, got %s", userID, profile.ID)
			}
			if profile.Email != tc.expectedEmail {
				t.Errorf("expected email %q, got %q", tc.expectedEmail, profile.Email)
			}
			if len(profile.Tenants) != tc.expectedCount {
				t.Errorf("expected %d memberships, got %d", tc.expectedCount, len(profile.Tenants))
			}
		})
	}
}

func TestService_CreateTenant(t *testing.T) {
	validRequest := v0.CreateTenantRequest{
		Name:    "  Acme Security ",
		Email:   "ops@acme.example",
		Phone:   "555-0100",
		Address: "1 Main St",
	}

	testCases := []struct {
		name        string
		req         v0.CreateTenantRequest
		setupMocks  func(*serviceMocks)
		expectedErr error
		invalid     []string
	}{
		{
			name: "success fills placeholders and default timezone",
			req:  validRequest,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, tn *types.Tenant) (*types.Tenant, error) {
						if tn.Name != "Acme Security" {
							t.Errorf("expected trimmed name, got %q", tn.Name)
						}
						if tn.TaxNumber != "N/A" || tn.BusinessTitle != "N/A" {
							t.Errorf("expected placeholders, got %q / %q", tn.TaxNumber, tn.BusinessTitle)
						}
						if tn.Timezone != "UTC" {
							t.Errorf("expected default timezone, got %q", tn.Timezone)
						}
						created := *tn
						created.ID = tenantID
						return &created, nil
					},
				)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, userID, types.RoleOwner, types.MembershipStatusActive).Return("member-1", nil)
				m.authz.EXPECT().AssignTenantOwner(gomock.Any(), tenantID, userID).Return(nil)
				m.security.EXPECT().TenantJoined(userID, tenantID, "create")
			},
		},
		{
			name:       "missing required fields",
			req:        v0.CreateTenantRequest{Name: "   ", Email: "not-an-email"},
			setupMocks: func(*serviceMocks) {},
			invalid:    []string{"name", "email", "phone", "address"},
		},
		{
			name: "invalid timezone",
			req: v0.CreateTenantRequest{
				Name: "Acme", Email: "ops@acme.example", Phone: "1", Address: "2", Timezone: "Mars/Olympus",
			},
			setupMocks: func(*serviceMocks) {},
			invalid:    []string{"timezone"},
		},
		{
			name: "authz failure",
			req:  validRequest,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(&types.Tenant{ID: tenantID}, nil)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, userID, types.RoleOwner, types.MembershipStatusActive).Return("member-1", nil)
				m.authz.EXPECT().AssignTenantOwner(gomock.Any(), tenantID, userID).Return(errors.New("fga down"))
			},
			expectedErr: errors.New("failed to assign owner role"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestService(t)
			tc.setupMocks(m)

			created, err := s.CreateTenant(context.Background(), userID, tc.req)

			if len(tc.invalid) > 0 {
				verr, ok := filters.AsValidationError(err)
				if !ok {
					t.Fatalf("expected validation error, got %v", err)
				}
				for _, field := range tc.invalid {
					if _, ok := verr.Field(field); !ok {
						t.Errorf("expected error on %s, got %v", field, verr)
					}
				}
				return
			}

			if tc.expectedErr != nil {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if created.ID != tenantID {
				t.Errorf("expected tenant %s, got %s", tenantID, created.ID)
			}
			if got := cachedTenant(t, m); got != tenantID {
				t.Errorf("expected cached tenant %s, got %q", tenantID, got)
			}
		})
	}
}

func TestService_CheckTenantAccess(t *testing.T) {
	testCases := []struct {
		name        string
		relation    string
		cached      string
		setupMocks  func(*serviceMocks)
		expectedErr error
	}{
		{
			name:     "active member allowed",
			relation: authorization.CAN_VIEW_PERMISSION,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusActive, Role: types.RoleMember}, nil)
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, userID, authorization.CAN_VIEW_PERMISSION).Return(true, nil)
			},
		},
		{
			name:     "cache hit skips the membership lookup",
			relation: authorization.CAN_VIEW_PERMISSION,
			cached:   tenantID,
			setupMocks: func(m *serviceMocks) {
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, userID, authorization.CAN_VIEW_PERMISSION).Return(true, nil)
			},
		},
		{
			name:     "cache for another tenant is ignored",
			relation: authorization.CAN_VIEW_PERMISSION,
			cached:   "tenant-9",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(nil, storage.ErrNotFound)
				m.security.EXPECT().AuthzFailure(userID, "can_view@tenant:"+tenantID)
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name:     "invited member denied",
			relation: authorization.CAN_VIEW_PERMISSION,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusInvited}, nil)
				m.security.EXPECT().AuthzFailure(userID, gomock.Any())
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name:     "member cannot invite",
			relation: authorization.CAN_INVITE_PERMISSION,
			cached:   tenantID,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusActive, Role: types.RoleMember}, nil)
				m.security.EXPECT().AuthzFailure(userID, "can_invite@tenant:"+tenantID)
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name:     "authorizer denies",
			relation: authorization.CAN_VIEW_PERMISSION,
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusActive}, nil)
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, userID, authorization.CAN_VIEW_PERMISSION).Return(false, nil)
			},
			expectedErr: authorization.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestService(t)
			if tc.cached != "" {
				if err := m.caches.ForUser(userID).Set(context.Background(), tc.cached); err != nil {
					t.Fatal(err)
				}
			}
			tc.setupMocks(m)

			err := s.CheckTenantAccess(context.Background(), userID, tenantID, tc.relation)

			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if err == nil && tc.relation == authorization.CAN_VIEW_PERMISSION {
				if got := cachedTenant(t, m); got != tenantID {
					t.Errorf("expected tenant %s cached after access, got %q", tenantID, got)
				}
			}
		})
	}
}

func TestService_CheckTenantAccessWithoutCachedReads(t *testing.T) {
	s, m := newTestService(t, WithoutCachedReads())
	if err := m.caches.ForUser(userID).Set(context.Background(), tenantID); err != nil {
		t.Fatal(err)
	}

	m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusInvited}, nil)
	m.security.EXPECT().AuthzFailure(userID, "can_view@tenant:"+tenantID)

	err := s.CheckTenantAccess(context.Background(), userID, tenantID, authorization.CAN_VIEW_PERMISSION)
	if !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected %v, got %v", authorization.ErrForbidden, err)
	}
}

func TestService_GetTenant(t *testing.T) {
	s, m := newTestService(t)

	m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusActive}, nil)
	m.authz.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, userID, authorization.CAN_VIEW_PERMISSION).Return(true, nil)
	m.storage.EXPECT().GetTenantByID(gomock.Any(), tenantID).Return(&types.Tenant{ID: tenantID, Name: "Acme"}, nil)

	got, err := s.GetTenant(context.Background(), userID, tenantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Acme" {
		t.Errorf("expected Acme, got %s", got.Name)
	}
}

func TestService_CreateInvitation(t *testing.T) {
	ownerAccess := func(m *serviceMocks) {
		m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusActive, Role: types.RoleOwner}, nil)
		m.authz.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, userID, authorization.CAN_INVITE_PERMISSION).Return(true, nil)
	}

	testCases := []struct {
		name        string
		req         v0.CreateInvitationRequest
		setupMocks  func(*serviceMocks)
		expectedErr error
		invalid     string
	}{
		{
			name: "existing identity",
			req:  v0.CreateInvitationRequest{TenantID: tenantID, Email: "guard@example.com"},
			setupMocks: func(m *serviceMocks) {
				ownerAccess(m)
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "guard@example.com").Return("identity-1", nil)
				m.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv *types.Invitation) (*types.Invitation, error) {
						if inv.Code == "" {
							t.Error("expected a generated code")
						}
						if inv.Role != types.RoleMember {
							t.Errorf("expected default role member, got %q", inv.Role)
						}
						if !inv.ExpiresAt.Equal(fixedNow.Add(72 * time.Hour)) {
							t.Errorf("unexpected expiry %v", inv.ExpiresAt)
						}
						return inv, nil
					},
				)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, "identity-1", types.RoleMember, types.MembershipStatusInvited).Return("member-2", nil)
			},
		},
		{
			name: "new identity is provisioned",
			req:  v0.CreateInvitationRequest{TenantID: tenantID, Email: "new@example.com", Role: "owner"},
			setupMocks: func(m *serviceMocks) {
				ownerAccess(m)
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
				m.kratos.EXPECT().CreateIdentity(gomock.Any(), "new@example.com").Return("identity-2", nil)
				m.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv *types.Invitation) (*types.Invitation, error) { return inv, nil },
				)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, "identity-2", types.RoleOwner, types.MembershipStatusInvited).Return("member-3", nil)
			},
		},
		{
			name:       "invalid role",
			req:        v0.CreateInvitationRequest{TenantID: tenantID, Email: "guard@example.com", Role: "admin"},
			setupMocks: func(*serviceMocks) {},
			invalid:    "role",
		},
		{
			name: "not an owner",
			req:  v0.CreateInvitationRequest{TenantID: tenantID, Email: "guard@example.com"},
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(nil, storage.ErrNotFound)
				m.security.EXPECT().AuthzFailure(userID, gomock.Any())
			},
			expectedErr: authorization.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestService(t)
			tc.setupMocks(m)

			inv, err := s.CreateInvitation(context.Background(), userID, tc.req)

			if tc.invalid != "" {
				verr, ok := filters.AsValidationError(err)
				if !ok {
					t.Fatalf("expected validation error, got %v", err)
				}
				if _, ok := verr.Field(tc.invalid); !ok {
					t.Errorf("expected error on %s, got %v", tc.invalid, verr)
				}
				return
			}
			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if err == nil && inv.TenantID != tenantID {
				t.Errorf("expected tenant %s, got %s", tenantID, inv.TenantID)
			}
		})
	}
}

func TestService_AcceptInvitation(t *testing.T) {
	accepted := fixedNow.Add(-time.Hour)
	pending := &types.Invitation{ID: "inv-1", Code: "code-1", TenantID: tenantID, Role: types.RoleMember, ExpiresAt: fixedNow.Add(time.Hour)}

	testCases := []struct {
		name         string
		code         string
		setupMocks   func(*serviceMocks)
		expectedErr  error
		expectCached bool
	}{
		{
			name: "joins the tenant",
			code: " code-1 ",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-1").Return(pending, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusInvited}, nil)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, userID, types.RoleMember, types.MembershipStatusActive).Return("member-1", nil)
				m.authz.EXPECT().AssignTenantMember(gomock.Any(), tenantID, userID).Return(nil)
				m.storage.EXPECT().MarkInvitationAccepted(gomock.Any(), "inv-1", fixedNow).Return(nil)
				m.security.EXPECT().TenantJoined(userID, tenantID, "invitation")
			},
			expectCached: true,
		},
		{
			name: "owner invitation assigns owner",
			code: "code-2",
			setupMocks: func(m *serviceMocks) {
				inv := *pending
				inv.Role = types.RoleOwner
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-2").Return(&inv, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{Status: types.MembershipStatusInvited}, nil)
				m.storage.EXPECT().UpsertMember(gomock.Any(), tenantID, userID, types.RoleOwner, types.MembershipStatusActive).Return("member-1", nil)
				m.authz.EXPECT().AssignTenantOwner(gomock.Any(), tenantID, userID).Return(nil)
				m.storage.EXPECT().MarkInvitationAccepted(gomock.Any(), "inv-1", fixedNow).Return(nil)
				m.security.EXPECT().TenantJoined(userID, tenantID, "invitation")
			},
			expectCached: true,
		},
		{
			name: "existing active member is a no-op",
			code: "code-1",
			setupMocks: func(m *serviceMocks) {
				inv := *pending
				inv.AcceptedAt = &accepted
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-1").Return(&inv, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(&types.Membership{TenantID: tenantID, Status: types.MembershipStatusActive}, nil)
			},
			expectCached: true,
		},
		{
			name: "already redeemed by someone else",
			code: "code-1",
			setupMocks: func(m *serviceMocks) {
				inv := *pending
				inv.AcceptedAt = &accepted
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-1").Return(&inv, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(nil, storage.ErrNotFound)
			},
			expectedErr: storage.ErrInvitationAccepted,
		},
		{
			name: "expired",
			code: "code-1",
			setupMocks: func(m *serviceMocks) {
				inv := *pending
				inv.ExpiresAt = fixedNow.Add(-time.Minute)
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-1").Return(&inv, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(nil, storage.ErrNotFound)
			},
			expectedErr: storage.ErrInvitationExpired,
		},
		{
			name: "code issued to another identity",
			code: "code-1",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "code-1").Return(pending, nil)
				m.storage.EXPECT().GetMember(gomock.Any(), tenantID, userID).Return(nil, storage.ErrNotFound)
				m.security.EXPECT().AuthzFailure(userID, "accept@tenant:"+tenantID)
			},
			expectedErr: authorization.ErrForbidden,
		},
		{
			name: "unknown code",
			code: "nope",
			setupMocks: func(m *serviceMocks) {
				m.storage.EXPECT().GetInvitationByCode(gomock.Any(), "nope").Return(nil, storage.ErrNotFound)
			},
			expectedErr: storage.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestService(t)
			tc.setupMocks(m)

			member, err := s.AcceptInvitation(context.Background(), userID, tc.code)

			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if err == nil && member.Status != types.MembershipStatusActive {
				t.Errorf("expected active membership, got %q", member.Status)
			}

			got := cachedTenant(t, m)
			if tc.expectCached && got != tenantID {
				t.Errorf("expected tenant %s cached, got %q", tenantID, got)
			}
			if !tc.expectCached && got != "" {
				t.Errorf("expected empty cache, got %q", got)
			}
		})
	}
}

func TestService_AcceptInvitationBlankCode(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.AcceptInvitation(context.Background(), userID, "   ")

	verr, ok := filters.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Field("code"); !ok {
		t.Errorf("expected error on code, got %v", verr)
	}
}
