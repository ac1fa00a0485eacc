// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package membership

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	StatusInvited = "invited"
	StatusActive  = "active"
)

// TenantMembership links the signed in user to one tenant.
// Any status other than "invited" counts as active.
type TenantMembership struct {
	TenantID string `json:"tenantId"`
	Status   string `json:"status"`
	Role     string `json:"role,omitempty"`
}

func (m TenantMembership) Active() bool {
	return m.TenantID != "" && m.Status != StatusInvited
}

// Profile is the user profile as served by the API. Tenant information has
// been published in several shapes over time, so it is kept raw here and
// normalized by FromProfile.
type Profile struct {
	ID       string            `json:"id"`
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Tenant   json.RawMessage   `json:"tenant,omitempty"`
	Tenants  []json.RawMessage `json:"tenants,omitempty"`
	TenantID string            `json:"tenantId,omitempty"`
}

// Memberships is a shortcut for FromProfile(p).
func (p *Profile) Memberships() []TenantMembership {
	return FromProfile(p)
}

// HasActiveTenant reports whether the profile carries at least one active membership.
func (p *Profile) HasActiveTenant() bool {
	return HasActiveTenant(FromProfile(p))
}

type entry struct {
	TenantID      string          `json:"tenantId"`
	TenantIDSnake string          `json:"tenant_id"`
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Role          string          `json:"role"`
	Tenant        json.RawMessage `json:"tenant"`
}

type nested struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// nestedID resolves the id of a legacy nested "tenant" value, either a
// bare string or an object with id or tenantId.
func nestedID(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n nested
	if err := json.Unmarshal(raw, &n); err == nil {
		return firstNonEmpty(n.ID, n.TenantID)
	}

	return ""
}

// parseEntry accepts a bare id, a flat membership object or a legacy object
// wrapping the tenant. It returns false when no tenant id can be resolved.
func parseEntry(raw json.RawMessage) (TenantMembership, bool) {
	if isNull(raw) {
		return TenantMembership{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return TenantMembership{TenantID: s, Status: StatusActive}, s != ""
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return TenantMembership{}, false
	}

	id := firstNonEmpty(e.TenantID, e.TenantIDSnake, nestedID(e.Tenant), e.ID)
	if id == "" {
		return TenantMembership{}, false
	}

	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = StatusActive
	}

	return TenantMembership{TenantID: id, Status: status, Role: e.Role}, true
}

// FromProfile normalizes every tenant shape found on p into memberships.
// Entries are returned in the order they appear: tenant, tenants, tenantId.
// Repeated ids are merged and an active entry wins over an invited one.
func FromProfile(p *Profile) []TenantMembership {
	if p == nil {
		return nil
	}

	raws := make([]json.RawMessage, 0, len(p.Tenants)+2)
	raws = append(raws, p.Tenant)
	raws = append(raws, p.Tenants...)

	out := make([]TenantMembership, 0, len(raws))
	index := make(map[string]int)

	merge := func(m TenantMembership) {
		i, seen := index[m.TenantID]
		if !seen {
			index[m.TenantID] = len(out)
			out = append(out, m)
			return
		}

		if !out[i].Active() && m.Active() {
			out[i] = m
		}
	}

	for _, raw := range raws {
		if m, ok := parseEntry(raw); ok {
			merge(m)
		}
	}

	if id := strings.TrimSpace(p.TenantID); id != "" {
		merge(TenantMembership{TenantID: id, Status: StatusActive})
	}

	return out
}

// HasActiveTenant reports whether any membership has a tenant id and is not invited.
func HasActiveTenant(ms []TenantMembership) bool {
	_, ok := ActiveTenantID(ms)
	return ok
}

// ActiveTenantID returns the first active tenant id.
func ActiveTenantID(ms []TenantMembership) (string, bool) {
	for _, m := range ms {
		if m.Active() {
			return m.TenantID, true
		}
	}
	return "", false
}
