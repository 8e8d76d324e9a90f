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

package database

import (
	"context"
	"time"

	"github.com/fintrack/fintrack/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	transaction    // Interface for transaction reads
	reconciliation // Interface for applying reconciliation decisions
	account        // Interface for account reads
	obligation     // Interface for recurring and one-off obligations
}

type transaction interface {
	ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) // Lists transactions, newest first
}

type reconciliation interface {
	ApplyReconciliationAction(ctx context.Context, action string, ids []int64) (int64, error) // Applies an action atomically, returning rows affected
}

type account interface {
	ListActiveAccounts(ctx context.Context) ([]model.Account, error) // Lists accounts flagged active
}

type obligation interface {
	ListActiveFreelancers(ctx context.Context) ([]model.Freelancer, error)                   // Freelancers with status 'active'
	ListActiveServices(ctx context.Context) ([]model.Service, error)                         // Services with status 'active'
	ListActiveDebts(ctx context.Context) ([]model.Debt, error)                               // Debts with status 'active'
	ListOpenPayables(ctx context.Context, from, to time.Time) ([]model.Payable, error)       // Pending or partial payables due in [from, to]
	ListOpenReceivables(ctx context.Context, from, to time.Time) ([]model.Receivable, error) // Pending or partial receivables due in [from, to]
}
