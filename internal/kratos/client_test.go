// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/internal/monitoring"
	"github.com/canonical/dispatch-console/internal/tracing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())
}

func identityJSON(id, email string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"schema_id":  "default",
		"schema_url": "http://kratos/schemas/default",
		"traits":     map[string]string{"email": email},
	}
}

func TestGetIdentityIDByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/identities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("credentials_identifier") == "guard@example.com" {
			_ = json.NewEncoder(w).Encode([]interface{}{identityJSON("id-1", "guard@example.com")})
			return
		}
		_ = json.NewEncoder(w).Encode([]interface{}{})
	})

	id, err := c.GetIdentityIDByEmail(context.Background(), "guard@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "id-1" {
		t.Errorf("expected id-1, got %q", id)
	}

	id, err = c.GetIdentityIDByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Errorf("expected no identity, got %q", id)
	}
}

func TestGetIdentityEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/identities/id-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identityJSON("id-1", "guard@example.com"))
	})

	email, err := c.GetIdentityEmail(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "guard@example.com" {
		t.Errorf("expected guard@example.com, got %q", email)
	}

	if _, err := c.GetIdentityEmail(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing identity")
	}
}

func TestEmailTrait(t *testing.T) {
	testCases := []struct {
		name     string
		traits   interface{}
		expected string
	}{
		{"map with email", map[string]interface{}{"email": "a@b.c"}, "a@b.c"},
		{"map without email", map[string]interface{}{"name": "x"}, ""},
		{"email not a string", map[string]interface{}{"email": 42}, ""},
		{"nil", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EmailTrait(tc.traits); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
