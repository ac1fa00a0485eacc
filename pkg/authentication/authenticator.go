// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
)

var ErrMissingIssuer = errors.New("issuer is required for JWT authentication")

// Settings groups what is needed to build the API token verifier.
type Settings struct {
	Enabled         bool
	Issuer          string
	JWKSURL         string
	AllowedSubjects []string
	RequiredScope   string
}

// NewAuthenticator returns the verifier described by s. With authentication
// disabled every bearer token is taken to be the caller's identity id.
func NewAuthenticator(
	ctx context.Context,
	s Settings,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	if !s.Enabled {
		logger.Info("JWT authentication is disabled")
		return NewNoopVerifier(), nil
	}

	if s.Issuer == "" {
		return nil, ErrMissingIssuer
	}

	if s.JWKSURL != "" {
		logger.Infof("Using manual JWKS URL: %s", s.JWKSURL)
		return NewJWTVerifierDirect(NewKeySetVerifier(ctx, s.Issuer, s.JWKSURL), s.AllowedSubjects, s.RequiredScope, tracer, monitor, logger), nil
	}

	logger.Infof("Using OIDC discovery for issuer: %s", s.Issuer)
	provider, err := NewProvider(ctx, s.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	return NewJWTVerifier(provider, s.AllowedSubjects, s.RequiredScope, tracer, monitor, logger), nil
}
