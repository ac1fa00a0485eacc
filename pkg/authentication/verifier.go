// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
)

const consoleAccess = "console_api_access"

var (
	ErrNoAccessPolicy = errors.New("unauthorized: no access policy configured")
	ErrAccessDenied   = errors.New("unauthorized: missing required scope or subject not allowed")
)

type claims struct {
	Subject string   `json:"sub"`
	Scope   string   `json:"scope"`
	Scopes  []string `json:"scp"`
}

func (c claims) hasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scopes, scope)
}

// JWTVerifier accepts tokens whose subject is allow-listed or which carry the
// required scope. Console users sign in through the identity provider and get
// the scope; machine clients are usually allow-listed by subject.
type JWTVerifier struct {
	verifier        *oidc.IDTokenVerifier
	allowedSubjects []string
	requiredScope   string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	c := claims{}
	if err := token.Claims(&c); err != nil {
		v.logger.Debugf("Failed to extract claims: %v", err)
		return "", err
	}

	return v.authorize(c)
}

func (v *JWTVerifier) authorize(c claims) (string, error) {
	if len(v.allowedSubjects) == 0 && v.requiredScope == "" {
		v.logger.Debugf("No authorization criteria configured")
		v.logger.Security().AuthzFailure(c.Subject, consoleAccess)
		return "", ErrNoAccessPolicy
	}

	if slices.Contains(v.allowedSubjects, c.Subject) {
		return c.Subject, nil
	}

	if v.requiredScope != "" && c.hasScope(v.requiredScope) {
		return c.Subject, nil
	}

	v.logger.Security().AuthzFailure(c.Subject, consoleAccess)
	return "", ErrAccessDenied
}

func NewJWTVerifier(
	provider ProviderInterface,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return NewJWTVerifierDirect(
		provider.Verifier(&oidc.Config{SkipClientIDCheck: true}),
		allowedSubjects,
		requiredScope,
		tracer,
		monitor,
		logger,
	)
}

func NewJWTVerifierDirect(
	verifier *oidc.IDTokenVerifier,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return &JWTVerifier{
		verifier:        verifier,
		allowedSubjects: allowedSubjects,
		requiredScope:   requiredScope,
		tracer:          tracer,
		monitor:         monitor,
		logger:          logger,
	}
}
