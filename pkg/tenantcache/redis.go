// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenantcache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "tenantId:"

// RedisCache keeps one user's tenant id in Redis with an expiry.
type RedisCache struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

func (r *RedisCache) Get(ctx context.Context) (string, error) {
	val, err := r.c.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCache) Set(ctx context.Context, tenantID string) error {
	return r.c.Set(ctx, r.key, tenantID, r.ttl).Err()
}

func (r *RedisCache) Clear(ctx context.Context) error {
	return r.c.Del(ctx, r.key).Err()
}

// NewRedisCache scopes the cache to userID. A zero ttl keeps the key forever.
func NewRedisCache(c *redis.Client, userID string, ttl time.Duration) *RedisCache {
	return &RedisCache{c: c, key: keyPrefix + userID, ttl: ttl}
}

type RedisProvider struct {
	c   *redis.Client
	ttl time.Duration
}

func (p *RedisProvider) ForUser(userID string) Cache {
	return NewRedisCache(p.c, userID, p.ttl)
}

func NewRedisProvider(c *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{c: c, ttl: ttl}
}

func (p *RedisProvider) Ping(ctx context.Context) error {
	return p.c.Ping(ctx).Err()
}
