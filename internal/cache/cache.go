/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"

	redis_db "github.com/fintrack/fintrack/internal/redis-db"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = cache.ErrCacheMiss

// Cache is a time-bounded store for computed results.
type Cache interface {
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the value stored under key into data, returning ErrMiss when there is none.
	Get(ctx context.Context, key string, data interface{}) error

	Delete(ctx context.Context, key string) error
}

// RedisCache implements the Cache interface, using Redis as the shared store with a small local
// TinyLFU tier in front of it.
type RedisCache struct {
	cache *cache.Cache
}

// localCacheSize is the number of entries kept in process alongside Redis.
const localCacheSize = 1024

const localCacheTTL = time.Minute

// NewRedisCache builds a cache on top of an existing Redis client.
func NewRedisCache(client *redis_db.Redis) *RedisCache {
	c := cache.New(&cache.Options{
		Redis:      client.Client(),
		LocalCache: cache.NewTinyLFU(localCacheSize, localCacheTTL),
	})
	return &RedisCache{cache: c}
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
