// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package gate

import (
	"context"
	"time"

	"github.com/canonical/dispatch-console/pkg/membership"
	v0 "github.com/canonical/dispatch-console/v0"
)

type SessionInterface interface {
	ActiveTenantID(ctx context.Context) (string, bool)
	HasActiveTenant() bool
	Refresh(ctx context.Context) (*membership.Profile, error)
}

type TenantClientInterface interface {
	AcceptInvitation(ctx context.Context, code string) (string, error)
	CreateTenant(ctx context.Context, payload v0.CreateTenantRequest) (string, error)
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}
