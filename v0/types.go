// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package v0 holds the JSON documents exchanged over the /api/v0 routes.
package v0

import "github.com/canonical/dispatch-console/pkg/filters"

const PathPrefix = "/api/v0"

type Tenant struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	TaxNumber     string `json:"taxNumber,omitempty"`
	BusinessTitle string `json:"businessTitle,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	Enabled       bool   `json:"enabled"`
}

type Membership struct {
	TenantID string `json:"tenantId"`
	Status   string `json:"status"`
	Role     string `json:"role,omitempty"`
}

type Profile struct {
	ID      string       `json:"id"`
	Email   string       `json:"email,omitempty"`
	Tenants []Membership `json:"tenants"`
}

// CreateTenantRequest is also the draft of the console's create form.
type CreateTenantRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	TaxNumber     string `json:"taxNumber"`
	BusinessTitle string `json:"businessTitle"`
	Timezone      string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

type CreateInvitationRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=owner member"`
}

type CreateInvitationResponse struct {
	Code      string `json:"code"`
	TenantID  string `json:"tenantId"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}

type AcceptInvitationRequest struct {
	Code string `json:"code" validate:"required"`
}

type AcceptInvitationResponse struct {
	TenantID string `json:"tenantId"`
	Status   string `json:"status"`
}

type Ticket struct {
	ID         string `json:"id"`
	ClientID   string `json:"clientId"`
	SiteID     string `json:"siteId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	ReportedAt string `json:"reportedAt"`
	Archived   bool   `json:"archived"`
}

type Vehicle struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId,omitempty"`
	Plate      string `json:"plate"`
	Status     string `json:"status"`
}

type Invoice struct {
	ID         string `json:"id"`
	ClientID   string `json:"clientId"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	IssuedOn   string `json:"issuedOn"`
	TotalCents int64  `json:"totalCents"`
}

type ListTicketsResponse struct {
	Data []Ticket `json:"data"`
}

type ListVehiclesResponse struct {
	Data    []Vehicle `json:"data"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
}

type ListInvoicesResponse struct {
	Data    []Invoice `json:"data"`
	Page    int       `json:"page"`
	PerPage int       `json:"perPage"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Status  int                  `json:"status"`
	Message string               `json:"message"`
	Errors  []filters.FieldError `json:"errors,omitempty"`
}
