// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateArgs(t *testing.T) {
	tests := []struct {
		args      []string
		expectErr bool
	}{
		{args: nil},
		{args: []string{"up"}},
		{args: []string{"status"}},
		{args: []string{"down", "3"}},
		{args: []string{"sideways"}, expectErr: true},
		{args: []string{"up", "3"}, expectErr: true},
		{args: []string{"down", "-1"}, expectErr: true},
		{args: []string{"down", "1", "2"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			err := customValidArgs()(&cobra.Command{}, tt.args)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	defer func(prev string) { output = prev }(output)

	rows := []struct {
		Code string `json:"code"`
	}{{Code: "MX"}}
	table := func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "CODE")
		for _, r := range rows {
			fmt.Fprintln(w, r.Code)
		}
	}

	output = "json"
	var out bytes.Buffer
	require.NoError(t, render(&out, rows, table))
	assert.JSONEq(t, `[{"code":"MX"}]`, out.String())

	output = "text"
	out.Reset()
	require.NoError(t, render(&out, rows, table))
	assert.Equal(t, "CODE\nMX\n", out.String())
}

func TestLocation(t *testing.T) {
	defer func(prev string) { timezone = prev }(timezone)

	timezone = "UTC"
	loc, err := location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	timezone = "Mars/Olympus_Mons"
	_, err = location()
	assert.Error(t, err)
}

func TestNewConsoleNeedsToken(t *testing.T) {
	defer func(prevToken, prevOutput string) { token, output = prevToken, prevOutput }(token, output)

	token, output = "", "text"
	_, err := newConsole(&cobra.Command{})
	assert.ErrorIs(t, err, errNoToken)

	token, output = "secret", "yaml"
	_, err = newConsole(&cobra.Command{})
	assert.ErrorIs(t, err, errFormat)
}

func TestNewConsoleScopesTenantHintToUser(t *testing.T) {
	defer func(prevURL, prevToken, prevTenant, prevOutput, prevCache string) {
		apiURL, token, tenantID, output, cacheFile = prevURL, prevToken, prevTenant, prevOutput, prevCache
	}(apiURL, token, tenantID, output, cacheFile)

	profiles := map[string]map[string]interface{}{
		"Bearer token-a": {"id": "user-a", "tenant": map[string]string{"tenantId": "t-a", "status": "active"}},
		"Bearer token-b": {"id": "user-b"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profiles[r.Header.Get("Authorization")])
	}))
	t.Cleanup(srv.Close)

	apiURL, tenantID, output = srv.URL, "", "text"
	cacheFile = filepath.Join(t.TempDir(), "tenant.json")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	token = "token-a"
	c, err := newConsole(cmd)
	require.NoError(t, err)

	id, err := c.tenant(cmd.Context())
	require.NoError(t, err)
	assert.Equal(t, "t-a", id)

	token = "token-b"
	c, err = newConsole(cmd)
	require.NoError(t, err)

	_, err = c.tenant(cmd.Context())
	assert.ErrorIs(t, err, errNoTenant)

	_, ok := c.session.CachedTenantID(cmd.Context())
	assert.False(t, ok)
}
