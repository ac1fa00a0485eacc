// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package session

import (
	"context"

	"github.com/canonical/dispatch-console/pkg/membership"
)

type ProfileClientInterface interface {
	SetToken(string)
	GetProfile(context.Context) (*membership.Profile, error)
}
