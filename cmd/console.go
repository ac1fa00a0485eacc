// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/dispatch-console/internal/logging"
	"github.com/canonical/dispatch-console/pkg/client"
	"github.com/canonical/dispatch-console/pkg/session"
	"github.com/canonical/dispatch-console/pkg/tenantcache"
)

var (
	errNoToken  = errors.New("no token, pass --token or set $DISPATCH_TOKEN")
	errNoTenant = errors.New("no active tenant, run `tenant join` or `tenant create` first")
	errFormat   = errors.New("output must be text or json")
)

// console bundles what every signed in command needs.
type console struct {
	client  *client.Client
	session *session.Session
	cache   tenantcache.Cache
	loc     *time.Location

	out    io.Writer
	logger logging.LoggerInterface
}

func newLogger() logging.LoggerInterface {
	return logging.NewLogger(logLevel)
}

func location() (*time.Location, error) {
	if timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

func newFileCache() (*tenantcache.FileCache, error) {
	path := cacheFile
	if path == "" {
		var err error
		if path, err = tenantcache.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return tenantcache.NewFileCache(path), nil
}

// newConsole loads the profile of the configured token and signs in with a
// tenant hint scoped to that user.
func newConsole(cmd *cobra.Command) (*console, error) {
	if output != "text" && output != "json" {
		return nil, errFormat
	}
	if token == "" {
		return nil, errNoToken
	}

	loc, err := location()
	if err != nil {
		return nil, err
	}

	files, err := newFileCache()
	if err != nil {
		return nil, err
	}

	logger := newLogger()
	c := client.NewClient(apiURL, logger)
	c.SetToken(token)

	profile, err := c.GetProfile(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	cache := files.ForUser(profile.ID)
	s := session.NewSession(c, cache, logger)

	if err := s.SignInWithToken(cmd.Context(), token, profile); err != nil {
		return nil, err
	}

	return &console{
		client:  c,
		session: s,
		cache:   cache,
		loc:     loc,
		out:     cmd.OutOrStdout(),
		logger:  logger,
	}, nil
}

// tenant returns the --tenant flag or the active tenant of the session.
func (c *console) tenant(ctx context.Context) (string, error) {
	if tenantID != "" {
		return tenantID, nil
	}

	id, ok := c.session.ActiveTenantID(ctx)
	if !ok {
		return "", errNoTenant
	}
	return id, nil
}

// render writes v as JSON, or as a table through text in text mode.
func render(out io.Writer, v interface{}, text func(w *tabwriter.Writer)) error {
	if output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	text(w)
	return w.Flush()
}
