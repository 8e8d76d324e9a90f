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

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fintrack/fintrack/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Transaction methods

func (m *MockDataSource) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

// Reconciliation methods

func (m *MockDataSource) ApplyReconciliationAction(ctx context.Context, action string, ids []int64) (int64, error) {
	args := m.Called(ctx, action, ids)
	return args.Get(0).(int64), args.Error(1)
}

// Account methods

func (m *MockDataSource) ListActiveAccounts(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

// Obligation methods

func (m *MockDataSource) ListActiveFreelancers(ctx context.Context) ([]model.Freelancer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Freelancer), args.Error(1)
}

func (m *MockDataSource) ListActiveServices(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func (m *MockDataSource) ListActiveDebts(ctx context.Context) ([]model.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Debt), args.Error(1)
}

func (m *MockDataSource) ListOpenPayables(ctx context.Context, from, to time.Time) ([]model.Payable, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payable), args.Error(1)
}

func (m *MockDataSource) ListOpenReceivables(ctx context.Context, from, to time.Time) ([]model.Receivable, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receivable), args.Error(1)
}
