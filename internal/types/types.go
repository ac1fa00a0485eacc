// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

const (
	MembershipStatusInvited = "invited"
	MembershipStatusActive  = "active"

	RoleOwner  = "owner"
	RoleMember = "member"
)

type Tenant struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	Address       string    `db:"address"`
	TaxNumber     string    `db:"tax_number"`
	BusinessTitle string    `db:"business_title"`
	Timezone      string    `db:"timezone"`
	CreatedAt     time.Time `db:"created_at"`
	Enabled       bool      `db:"enabled"`
}

type Membership struct {
	ID               string    `db:"id"`
	TenantID         string    `db:"tenant_id"`
	KratosIdentityID string    `db:"kratos_identity_id"`
	Role             string    `db:"role"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
}

type Invitation struct {
	ID         string     `db:"id"`
	Code       string     `db:"code"`
	TenantID   string     `db:"tenant_id"`
	Email      string     `db:"email"`
	Role       string     `db:"role"`
	ExpiresAt  time.Time  `db:"expires_at"`
	AcceptedAt *time.Time `db:"accepted_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

type IncidentTicket struct {
	ID         string    `db:"id"`
	TenantID   string    `db:"tenant_id"`
	ClientID   string    `db:"client_id"`
	SiteID     string    `db:"site_id"`
	Title      string    `db:"title"`
	Status     string    `db:"status"`
	ReportedAt time.Time `db:"reported_at"`
	Archived   bool      `db:"archived"`
}

type Vehicle struct {
	ID         string `db:"id"`
	TenantID   string `db:"tenant_id"`
	CategoryID string `db:"category_id"`
	Plate      string `db:"plate"`
	Status     string `db:"status"`
}

type Invoice struct {
	ID       string    `db:"id"`
	TenantID string    `db:"tenant_id"`
	ClientID string    `db:"client_id"`
	Number   string    `db:"number"`
	Status   string    `db:"status"`
	IssuedOn time.Time `db:"issued_on"`
	Total    int64     `db:"total_cents"`
}

// TicketQuery is a validated dispatch filter resolved to absolute instants.
type TicketQuery struct {
	TenantID        string
	ClientID        string
	SiteID          string
	Status          string
	From            *time.Time
	To              *time.Time
	IncludeArchived bool
}

type VehicleQuery struct {
	TenantID   string
	CategoryID string
	Status     string
	Page       int64
	PerPage    uint64
}

type InvoiceQuery struct {
	TenantID string
	ClientID string
	Status   string
	From     *time.Time
	To       *time.Time
	Page     int64
	PerPage  uint64
}
