// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when a user holds no relation granting the operation.
var ErrForbidden = errors.New("forbidden")

const (
	OWNER_RELATION  = "owner"
	MEMBER_RELATION = "member"

	CAN_VIEW_PERMISSION   = "can_view"
	CAN_INVITE_PERMISSION = "can_invite"

	TENANT_TYPE = "tenant"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func TenantTuple(tenantId string) string {
	return TENANT_TYPE + ":" + tenantId
}

// TenantID strips the type prefix from a tenant object.
func TenantID(object string) string {
	return strings.TrimPrefix(object, TENANT_TYPE+":")
}
