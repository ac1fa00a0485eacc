// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
)

// Define a private custom type to avoid collisions
type contextKey struct{}

var userContextKey = contextKey{}

// WithUserID returns a new context with the given user ID derived from the parent context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns an empty string and false if the user ID is not present.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey).(string)
	return id, ok
}

// ErrUnauthenticated is returned when a request reaches a handler without an identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// MustUserID returns the identity attached by the middleware or ErrUnauthenticated.
func MustUserID(ctx context.Context) (string, error) {
	id, ok := GetUserID(ctx)
	if !ok || id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}
