// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package membership

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *Profile {
	t.Helper()

	p := new(Profile)
	require.NoError(t, json.Unmarshal([]byte(body), p))
	return p
}

func TestFromProfileShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []TenantMembership
	}{
		{
			name:     "no tenant",
			body:     `{"id":"u1"}`,
			expected: []TenantMembership{},
		},
		{
			name:     "tenant object",
			body:     `{"id":"u1","tenant":{"tenantId":"t1","status":"active"}}`,
			expected: []TenantMembership{{TenantID: "t1", Status: StatusActive}},
		},
		{
			name:     "tenant object snake case",
			body:     `{"id":"u1","tenant":{"tenant_id":"t1","status":"invited"}}`,
			expected: []TenantMembership{{TenantID: "t1", Status: StatusInvited}},
		},
		{
			name:     "tenant object with id only",
			body:     `{"id":"u1","tenant":{"id":"t1"}}`,
			expected: []TenantMembership{{TenantID: "t1", Status: StatusActive}},
		},
		{
			name:     "tenant string",
			body:     `{"id":"u1","tenant":"t1"}`,
			expected: []TenantMembership{{TenantID: "t1", Status: StatusActive}},
		},
		{
			name:     "legacy nested object",
			body:     `{"id":"u1","tenant":{"status":"invited","tenant":{"id":"t1"}}}`,
			expected: []TenantMembership{{TenantID: "t1", Status: StatusInvited}},
		},
		{
			name:     "legacy nested string",
			body:     `{"id":"u1","tenants":[{"tenant":"t2"}]}`,
			expected: []TenantMembership{{TenantID: "t2", Status: StatusActive}},
		},
		{
			name: "tenant list",
			body: `{"id":"u1","tenants":[{"tenantId":"t1","status":"invited","role":"member"},"t2",null,{"status":"active"}]}`,
			expected: []TenantMembership{
				{TenantID: "t1", Status: StatusInvited, Role: "member"},
				{TenantID: "t2", Status: StatusActive},
			},
		},
		{
			name:     "top level tenant id",
			body:     `{"id":"u1","tenantId":"t9"}`,
			expected: []TenantMembership{{TenantID: "t9", Status: StatusActive}},
		},
		{
			name: "duplicates merged active wins",
			body: `{"id":"u1","tenant":{"tenantId":"t1","status":"invited"},"tenants":[{"tenantId":"t1","status":"active"}],"tenantId":"t1"}`,
			expected: []TenantMembership{
				{TenantID: "t1", Status: StatusActive},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := FromProfile(decode(t, test.body))
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestFromProfileNil(t *testing.T) {
	assert.Nil(t, FromProfile(nil))
}

func TestHasActiveTenant(t *testing.T) {
	tests := []struct {
		name     string
		ms       []TenantMembership
		active   bool
		tenantID string
	}{
		{"empty", nil, false, ""},
		{"invited only", []TenantMembership{{TenantID: "t1", Status: StatusInvited}}, false, ""},
		{"empty id", []TenantMembership{{Status: StatusActive}}, false, ""},
		{"unknown status counts as active", []TenantMembership{{TenantID: "t1", Status: "suspended"}}, true, "t1"},
		{
			"first active wins",
			[]TenantMembership{
				{TenantID: "t1", Status: StatusInvited},
				{TenantID: "t2", Status: StatusActive},
				{TenantID: "t3", Status: StatusActive},
			},
			true,
			"t2",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.active, HasActiveTenant(test.ms))

			id, ok := ActiveTenantID(test.ms)
			assert.Equal(t, test.active, ok)
			assert.Equal(t, test.tenantID, id)
		})
	}
}

func TestProfileHasActiveTenant(t *testing.T) {
	assert.True(t, decode(t, `{"id":"u1","tenant":"t1"}`).HasActiveTenant())
	assert.False(t, decode(t, `{"id":"u1","tenant":{"tenantId":"t1","status":"invited"}}`).HasActiveTenant())
}
