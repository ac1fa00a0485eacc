// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
)

var ErrEmptyToken = errors.New("empty token")

type NoopVerifier struct{}

func NewNoopVerifier() *NoopVerifier {
	return &NoopVerifier{}
}

// VerifyToken treats the raw token as the identity id, for local development.
func (n *NoopVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", ErrEmptyToken
	}

	return rawToken, nil
}
