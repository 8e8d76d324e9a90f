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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_db "github.com/fintrack/fintrack/internal/redis-db"
	"github.com/fintrack/fintrack/model"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := redis_db.NewRedisClient([]string{mr.Addr()}, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	projection := model.CashFlowProjection{
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-31",
		Days:            30,
		Scenario:        "realistic",
		StartingBalance: decimal.RequireFromString("1000.50"),
	}
	require.NoError(t, c.Set(ctx, "projection:2024-01-01", projection, 10*time.Minute))

	var got model.CashFlowProjection
	require.NoError(t, c.Get(ctx, "projection:2024-01-01", &got))
	assert.Equal(t, projection.EndDate, got.EndDate)
	assert.True(t, projection.StartingBalance.Equal(got.StartingBalance))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var got map[string]string
	err := c.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrMiss)
	assert.Empty(t, got)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	assert.True(t, mr.Exists("key"))

	require.NoError(t, c.Delete(ctx, "key"))
	assert.False(t, mr.Exists("key"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), ErrMiss)

	assert.NoError(t, c.Delete(ctx, "never-set"))
}
