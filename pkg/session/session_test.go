// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/membership"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
)

//go:generate mockgen -build_flags=--mod=mod -package session -destination ./mock_session.go -source=./interfaces.go

func profileWithTenant(id, status string) *membership.Profile {
	raw, _ := json.Marshal(map[string]string{"tenantId": id, "status": status})
	return &membership.Profile{ID: "user-1", Tenant: raw}
}

func TestSignInWithTokenFetchesProfile(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	cache := tenantcache.NewMemoryCache()
	s := NewSession(client, cache, logging.NewNoopLogger())

	client.EXPECT().SetToken("token-1")
	client.EXPECT().GetProfile(gomock.Any()).Return(profileWithTenant("t1", "active"), nil)

	if err := s.SignInWithToken(context.Background(), "token-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Token() != "token-1" {
		t.Errorf("expected token to be stored, got %q", s.Token())
	}

	if !s.HasActiveTenant() {
		t.Errorf("expected active tenant")
	}

	cached, ok := s.CachedTenantID(context.Background())
	if !ok || cached != "t1" {
		t.Errorf("expected t1 to be cached, got %q", cached)
	}
}

func TestSignInWithTokenUsesGivenProfile(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	cache := tenantcache.NewMemoryCache()
	s := NewSession(client, cache, logging.NewNoopLogger())

	client.EXPECT().SetToken("token-1")
	client.EXPECT().GetProfile(gomock.Any()).Times(0)

	profile := profileWithTenant("t1", "invited")
	if err := s.SignInWithToken(context.Background(), "token-1", profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Profile() != profile {
		t.Errorf("expected given profile to be kept")
	}

	if s.HasActiveTenant() {
		t.Errorf("invited membership must not count as active")
	}

	if _, ok := s.CachedTenantID(context.Background()); ok {
		t.Errorf("invited membership must not be cached")
	}
}

func TestRefreshError(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	s := NewSession(client, tenantcache.NewMemoryCache(), logging.NewNoopLogger())

	if _, err := s.Refresh(context.Background()); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}

	apiErr := errors.New("unavailable")
	client.EXPECT().SetToken("token-1")
	client.EXPECT().GetProfile(gomock.Any()).Return(nil, apiErr)

	err := s.SignInWithToken(context.Background(), "token-1", nil)
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if s.Profile() != nil {
		t.Errorf("expected no profile after failed fetch")
	}
}

func TestActiveTenantIDFallsBackToCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	cache := tenantcache.NewMemoryCache()
	_ = cache.Set(context.Background(), "t-cached")

	s := NewSession(client, cache, logging.NewNoopLogger())

	if s.Profile() != nil {
		t.Fatalf("expected no profile before sign in")
	}

	id, ok := s.ActiveTenantID(context.Background())
	if !ok || id != "t-cached" {
		t.Errorf("expected cached tenant, got %q", id)
	}
}

func TestLoadedProfileOverridesStaleCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	cache := tenantcache.NewMemoryCache()
	_ = cache.Set(context.Background(), "old-tenant")

	s := NewSession(client, cache, logging.NewNoopLogger())

	client.EXPECT().SetToken("token-1")
	client.EXPECT().GetProfile(gomock.Any()).Return(&membership.Profile{ID: "user-1"}, nil)

	if err := s.SignInWithToken(context.Background(), "token-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.HasActiveTenant() {
		t.Errorf("expected no active tenant")
	}

	if id, ok := s.ActiveTenantID(context.Background()); ok {
		t.Errorf("expected no active tenant id, got %q", id)
	}

	if _, err := cache.Get(context.Background()); !errors.Is(err, tenantcache.ErrMiss) {
		t.Errorf("expected stale hint to be cleared, got %v", err)
	}
}

func TestSignOutClearsCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	client := NewMockProfileClientInterface(ctrl)
	cache := tenantcache.NewMemoryCache()
	s := NewSession(client, cache, logging.NewNoopLogger())

	client.EXPECT().SetToken("token-1")
	client.EXPECT().SetToken("")

	if err := s.SignInWithToken(context.Background(), "token-1", profileWithTenant("t1", "active")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SignOut(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Token() != "" || s.Profile() != nil {
		t.Errorf("expected session to be cleared")
	}

	if _, err := cache.Get(context.Background()); !errors.Is(err, tenantcache.ErrMiss) {
		t.Errorf("expected cache to be cleared, got %v", err)
	}
}
