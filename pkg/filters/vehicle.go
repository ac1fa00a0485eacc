// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package filters

import "strings"

const DefaultPerPage = 10

type VehicleFilter struct {
	CategoryID string `json:"categoryId,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=activo inactivo"`
	PerPage    int    `json:"perPage,omitempty" validate:"omitempty,oneof=10 25 50"`
	Page       int    `json:"page,omitempty" validate:"gte=0"`
}

// ValidateVehicle returns f with the page size defaulted.
func ValidateVehicle(f VehicleFilter) (VehicleFilter, error) {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Status = strings.TrimSpace(f.Status)

	if err := fromValidator(validate.Struct(f)); err != nil {
		return VehicleFilter{}, err
	}

	if f.PerPage == 0 {
		f.PerPage = DefaultPerPage
	}
	if f.Page == 0 {
		f.Page = 1
	}

	return f, nil
}
