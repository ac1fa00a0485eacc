// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package client

import (
	"errors"
	"fmt"

	"github.com/canonical/dispatch-console/pkg/filters"
)

var ErrMissingTenantID = errors.New("response carried no tenant id")

// APIError is a non-2xx answer from the console API.
type APIError struct {
	Status  int
	Message string
	Fields  []filters.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
