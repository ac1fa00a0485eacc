// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// tracedHTTPClient fetches discovery documents and signing keys with client spans.
var tracedHTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// WithTracedHTTPClient makes go-oidc calls made with ctx go through the traced client.
func WithTracedHTTPClient(ctx context.Context) context.Context {
	return oidc.ClientContext(ctx, tracedHTTPClient)
}

// NewProvider discovers the issuer through its well-known configuration.
func NewProvider(ctx context.Context, issuer string) (*oidc.Provider, error) {
	provider, err := oidc.NewProvider(WithTracedHTTPClient(ctx), issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover issuer %s: %w", issuer, err)
	}

	return provider, nil
}

// NewKeySetVerifier skips discovery and checks tokens of issuer against the
// keys served at jwksURL. The key set is fetched lazily on first use, so ctx
// must outlive the verifier.
func NewKeySetVerifier(ctx context.Context, issuer, jwksURL string) *oidc.IDTokenVerifier {
	keySet := oidc.NewRemoteKeySet(WithTracedHTTPClient(ctx), jwksURL)

	return oidc.NewVerifier(issuer, keySet, &oidc.Config{SkipClientIDCheck: true})
}
