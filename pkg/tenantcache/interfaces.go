// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenantcache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when no tenant id is cached.
var ErrMiss = errors.New("tenant cache miss")

// Cache holds a hint of the user's active tenant id. The profile served by
// the API stays authoritative; readers must tolerate a stale value.
type Cache interface {
	Get(context.Context) (string, error)
	Set(context.Context, string) error
	Clear(context.Context) error
}

// Provider hands out the cache scoped to one user, for servers that hold many.
type Provider interface {
	ForUser(userID string) Cache
}
