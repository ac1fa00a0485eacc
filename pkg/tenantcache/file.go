// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenantcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "dispatch-console"
	fileName = "tenant.json"
)

type fileState struct {
	UserID   string `json:"userId,omitempty"`
	TenantID string `json:"tenantId"`
}

// FileCache persists the tenant id in a small JSON document, the console
// CLI equivalent of browser local storage. A cache scoped with ForUser
// ignores a hint written for another user.
type FileCache struct {
	path  string
	owner string
}

// DefaultPath returns the cache location under the user configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func (c *FileCache) Path() string {
	return c.path
}

func (c *FileCache) Get(context.Context) (string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to read tenant cache: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		// an unreadable hint is as good as no hint
		return "", ErrMiss
	}

	if state.TenantID == "" || state.UserID != c.owner {
		return "", ErrMiss
	}
	return state.TenantID, nil
}

func (c *FileCache) Set(_ context.Context, tenantID string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create tenant cache dir: %w", err)
	}

	data, err := json.Marshal(fileState{UserID: c.owner, TenantID: tenantID})
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write tenant cache: %w", err)
	}

	return os.Rename(tmp, c.path)
}

func (c *FileCache) Clear(context.Context) error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear tenant cache: %w", err)
	}
	return nil
}

// ForUser returns a cache on the same file holding the hint of userID.
func (c *FileCache) ForUser(userID string) Cache {
	return &FileCache{path: c.path, owner: userID}
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}
