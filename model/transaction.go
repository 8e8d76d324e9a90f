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
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	// legacy labels still present on older rows
	TypeIngreso = "ingreso"
	TypeGasto   = "gasto"

	TransactionTypeTransfer = "transfer"
)

type Transaction struct {
	ID                  int64           `json:"id"`
	Date                time.Time       `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	Type                string          `json:"type"`
	Description         string          `json:"description"`
	Account             string          `json:"account"`
	TransactionType     string          `json:"transaction_type,omitempty"`
	LinkedTransactionID *int64          `json:"linked_transaction_id,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	IsDeleted           bool            `json:"is_deleted"`
}

// TransactionFilter narrows ListTransactions. Zero From/To means unbounded.
type TransactionFilter struct {
	IncludeDeleted bool
	From           time.Time
	To             time.Time
	Limit          int
}

// IsIncome reports whether the transaction carries income polarity, for both current and legacy labels.
func (transaction *Transaction) IsIncome() bool {
	switch strings.ToLower(transaction.Type) {
	case TypeIncome, TypeIngreso:
		return true
	}
	return false
}

// IsExpense reports whether the transaction carries expense polarity, for both current and legacy labels.
func (transaction *Transaction) IsExpense() bool {
	switch strings.ToLower(transaction.Type) {
	case TypeExpense, TypeGasto:
		return true
	}
	return false
}

func (transaction *Transaction) IsTransfer() bool {
	return transaction.TransactionType == TransactionTypeTransfer
}
