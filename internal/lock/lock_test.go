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
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const applyKey = "fintrack:reconciliation:apply"

func withStopBackOff(t *testing.T, retries uint64) {
	original := newWaitBackOff
	newWaitBackOff = func(time.Duration) backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	}
	t.Cleanup(func() { newWaitBackOff = original })
}

func TestLocker_Lock(t *testing.T) {
	tests := []struct {
		name    string
		acquire bool
		wantErr string
	}{
		{name: "acquired", acquire: true},
		{name: "held elsewhere", acquire: false, wantErr: "lock for key " + applyKey + " is already held"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			locker := NewLocker(db, applyKey, "req-1")
			assert.Equal(t, applyKey, locker.Key())
			mock.ExpectSetNX(applyKey, "req-1", 5*time.Second).SetVal(tt.acquire)

			err := locker.Lock(context.Background(), 5*time.Second)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLocker_Lock_RedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, applyKey, "req-1")
	mock.ExpectSetNX(applyKey, "req-1", time.Second).SetErr(errors.New("connection refused"))

	err := locker.Lock(context.Background(), time.Second)
	assert.EqualError(t, err, "connection refused")
}

func TestLocker_Unlock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, applyKey, "req-1")

	mock.ExpectEval(unlockScript, []string{applyKey}, "req-1").SetVal(int64(1))
	assert.NoError(t, locker.Unlock(context.Background()))

	mock.ExpectEval(unlockScript, []string{applyKey}, "req-1").SetVal(int64(0))
	err := locker.Unlock(context.Background())
	assert.EqualError(t, err, "unlock failed, either lock expired or you're not the lock holder for key "+applyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_AcquiresAfterRetry(t *testing.T) {
	withStopBackOff(t, 3)
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, applyKey, "req-2")

	mock.ExpectSetNX(applyKey, "req-2", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(applyKey, "req-2", 10*time.Second).SetVal(true)

	err := locker.WaitLock(context.Background(), 10*time.Second, time.Second)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_GivesUp(t *testing.T) {
	withStopBackOff(t, 1)
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, applyKey, "req-3")

	mock.ExpectSetNX(applyKey, "req-3", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(applyKey, "req-3", 10*time.Second).SetVal(false)

	err := locker.WaitLock(context.Background(), 10*time.Second, time.Second)
	assert.ErrorContains(t, err, "failed to acquire lock for key "+applyKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_ContextCancelled(t *testing.T) {
	db, _ := redismock.NewClientMock()
	locker := NewLocker(db, applyKey, "req-4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := locker.WaitLock(ctx, 10*time.Second, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
