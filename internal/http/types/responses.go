// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canonical/dispatch-console/internal/authorization"
	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/storage"
	"github.com/canonical/dispatch-console/pkg/authentication"
	"github.com/canonical/dispatch-console/pkg/filters"
	v0 "github.com/canonical/dispatch-console/v0"
)

// ErrMalformedBody marks a request body that could not be decoded.
var ErrMalformedBody = errors.New("malformed request body")

var statuses = []struct {
	err    error
	status int
}{
	{ErrMalformedBody, http.StatusBadRequest},
	{authentication.ErrUnauthenticated, http.StatusUnauthorized},
	{authorization.ErrForbidden, http.StatusForbidden},
	{storage.ErrNotFound, http.StatusNotFound},
	{storage.ErrDuplicateKey, http.StatusConflict},
	{storage.ErrForeignKeyViolation, http.StatusConflict},
	{storage.ErrInvitationAccepted, http.StatusConflict},
	{storage.ErrInvitationExpired, http.StatusGone},
}

// ErrorResponse maps err onto the JSON error document returned by the API.
// Unknown errors become a 500 whose message does not leak internals.
func ErrorResponse(err error) *v0.ErrorResponse {
	if verr, ok := filters.AsValidationError(err); ok {
		return &v0.ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "validation failed",
			Errors:  verr.Errors,
		}
	}

	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return &v0.ErrorResponse{Status: s.status, Message: s.err.Error()}
		}
	}

	return &v0.ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}

func WriteJSON(w http.ResponseWriter, status int, body any, logger logging.LoggerInterface) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}

// WriteError logs server side failures and writes the mapped error document.
func WriteError(w http.ResponseWriter, err error, logger logging.LoggerInterface) {
	resp := ErrorResponse(err)
	if resp.Status >= http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
	}

	WriteJSON(w, resp.Status, resp, logger)
}

// DecodeJSON reads a JSON request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrMalformedBody, err)
	}

	return nil
}
