// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenantcache

import (
	"context"
	"sync"
)

type MemoryCache struct {
	mu       sync.RWMutex
	tenantID string
}

func (c *MemoryCache) Get(context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.tenantID == "" {
		return "", ErrMiss
	}
	return c.tenantID, nil
}

func (c *MemoryCache) Set(_ context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tenantID = tenantID
	return nil
}

func (c *MemoryCache) Clear(context.Context) error {
	return c.Set(context.Background(), "")
}

func NewMemoryCache() *MemoryCache {
	return new(MemoryCache)
}

// MemoryProvider keeps one MemoryCache per user for the life of the process.
type MemoryProvider struct {
	mu     sync.Mutex
	caches map[string]*MemoryCache
}

func (p *MemoryProvider) ForUser(userID string) Cache {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.caches[userID]
	if !ok {
		c = NewMemoryCache()
		p.caches[userID] = c
	}
	return c
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{caches: make(map[string]*MemoryCache)}
}
