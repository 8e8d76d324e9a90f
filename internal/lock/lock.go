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

package redlock

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// Locker is a single-key Redis mutex. The value identifies the holder so that only it can release the lock.
type Locker struct {
	client redis.UniversalClient
	key    string
	value  string
}

func NewLocker(client redis.UniversalClient, key, value string) *Locker {
	return &Locker{
		client: client,
		key:    key,
		value:  value,
	}
}

// Key returns the Redis key guarded by the locker.
func (l *Locker) Key() string {
	return l.key
}

func (l *Locker) Lock(ctx context.Context, timeout time.Duration) error {
	success, err := l.client.SetNX(ctx, l.key, l.value, timeout).Result()
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("lock for key %s is already held", l.key)
	}
	return nil
}

func (l *Locker) Unlock(ctx context.Context) error {
	result, err := l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("unlock failed, either lock expired or you're not the lock holder for key %s", l.key)
	}
	return nil
}

// newWaitBackOff is swapped in tests to avoid real sleeps.
var newWaitBackOff = func(waitTimeout time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = waitTimeout
	return b
}

// WaitLock retries Lock with exponential backoff until it succeeds, waitTimeout elapses or ctx is done.
func (l *Locker) WaitLock(ctx context.Context, lockTimeout, waitTimeout time.Duration) error {
	attempt := func() error {
		err := l.Lock(ctx, lockTimeout)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	err := backoff.Retry(attempt, backoff.WithContext(newWaitBackOff(waitTimeout), ctx))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to acquire lock for key %s within the wait timeout: %w", l.key, err)
	}
	return nil
}
