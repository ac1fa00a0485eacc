// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/membership"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
)

var ErrSignedOut = errors.New("no active session")

// Session keeps the token and the last known profile of the signed in user.
type Session struct {
	mu      sync.RWMutex
	token   string
	profile *membership.Profile

	client ProfileClientInterface
	cache  tenantcache.Cache

	logger logging.LoggerInterface
}

// SignInWithToken starts a session. When profile is nil it is fetched with the new token.
func (s *Session) SignInWithToken(ctx context.Context, token string, profile *membership.Profile) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.client.SetToken(token)

	if profile == nil {
		_, err := s.Refresh(ctx)
		return err
	}

	s.hydrate(ctx, profile)
	return nil
}

// Refresh fetches the profile again and replaces the cached copy.
func (s *Session) Refresh(ctx context.Context) (*membership.Profile, error) {
	if s.Token() == "" {
		return nil, ErrSignedOut
	}

	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	s.hydrate(ctx, profile)
	return profile, nil
}

func (s *Session) hydrate(ctx context.Context, profile *membership.Profile) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	id, ok := membership.ActiveTenantID(profile.Memberships())
	if !ok {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warnf("failed to clear tenant cache: %v", err)
		}
		return
	}

	if err := s.cache.Set(ctx, id); err != nil {
		s.logger.Warnf("failed to cache tenant id: %v", err)
	}
}

func (s *Session) Profile() *membership.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.profile
}

func (s *Session) HasActiveTenant() bool {
	return s.Profile().HasActiveTenant()
}

// ActiveTenantID returns the tenant of the loaded profile. The cached hint
// only answers while no profile has been loaded yet.
func (s *Session) ActiveTenantID(ctx context.Context) (string, bool) {
	if profile := s.Profile(); profile != nil {
		return membership.ActiveTenantID(profile.Memberships())
	}
	return s.CachedTenantID(ctx)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// CachedTenantID reads the tenant hint without calling the API.
func (s *Session) CachedTenantID(ctx context.Context) (string, bool) {
	id, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, tenantcache.ErrMiss) {
			s.logger.Warnf("failed to read tenant cache: %v", err)
		}
		return "", false
	}
	return id, true
}

func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()

	s.client.SetToken("")

	return s.cache.Clear(ctx)
}

func NewSession(client ProfileClientInterface, cache tenantcache.Cache, logger logging.LoggerInterface) *Session {
	s := new(Session)

	s.client = client
	s.cache = cache
	s.logger = logger

	return s
}
