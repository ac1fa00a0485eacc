// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	"github.com/canonical/dispatch-console/internal/openfga"
)

type AuthorizerInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ListObjects(context.Context, string, string, string) ([]string, error)

	AssignTenantOwner(context.Context, string, string) error
	AssignTenantMember(context.Context, string, string) error
	RemoveTenantMember(context.Context, string, string) error

	CheckTenantAccess(context.Context, string, string, string) (bool, error)
	ListUserTenants(context.Context, string) ([]string, error)
}

type AuthzClientInterface interface {
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	ListObjects(context.Context, string, string, string) ([]string, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
}
