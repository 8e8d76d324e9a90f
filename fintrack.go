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

package fintrack

import (
	"context"
	"embed"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/database"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/notification"
	redis_db "github.com/fintrack/fintrack/internal/redis-db"
	"github.com/fintrack/fintrack/model"
)

// Fintrack wires the reconciliation and cash-flow engines to storage. Redis is optional: without
// it projections are never cached and applies are not serialized across processes.
type Fintrack struct {
	datasource database.IDataSource
	cache      cache.Cache
	redis      redis.UniversalClient
	now        func() time.Time
	alert      func(context.Context, *model.CashFlowProjection) error
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewFintrack builds the service over db, connecting to Redis when one is configured.
func NewFintrack(db database.IDataSource) (*Fintrack, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	f := &Fintrack{datasource: db, now: time.Now, alert: notification.CriticalBalanceAlert}
	if configuration.Redis.Dns == "" {
		return f, nil
	}

	redisClient, err := redis_db.NewRedisClient([]string{configuration.Redis.Dns}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	f.redis = redisClient.Client()
	f.cache = cache.NewRedisCache(redisClient)
	return f, nil
}

// today is the current date at UTC midnight.
func (f *Fintrack) today() time.Time {
	now := f.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
