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
	"database/sql"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/fintrack/fintrack/internal/apierror"
	"github.com/fintrack/fintrack/model"
)

const transactionColumns = `id, date, amount, type, COALESCE(description, ''), COALESCE(account, ''),
		COALESCE(transaction_type, ''), linked_transaction_id, COALESCE(notes, ''), is_deleted`

// ListTransactions returns transactions ordered newest first.
// Soft-deleted rows are excluded unless filter.IncludeDeleted is set; a zero From or To leaves that
// side of the window open and a non-positive Limit returns every matching row.
func (d Datasource) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing transactions")
	defer span.End()

	query, args := buildTransactionQuery(filter)
	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list transactions", err)
	}
	defer rows.Close()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			span.RecordError(err)
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transaction", err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating transactions", err)
	}

	return transactions, nil
}

func buildTransactionQuery(filter model.TransactionFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if !filter.IncludeDeleted {
		conditions = append(conditions, "is_deleted = FALSE")
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	query.WriteString(transactionColumns)
	query.WriteString(" FROM fintrack.transactions")
	if len(conditions) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY date DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return query.String(), args
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		txn    model.Transaction
		linked sql.NullInt64
	)
	err := rows.Scan(
		&txn.ID, &txn.Date, &txn.Amount, &txn.Type, &txn.Description, &txn.Account,
		&txn.TransactionType, &linked, &txn.Notes, &txn.IsDeleted,
	)
	if err != nil {
		return txn, err
	}
	if linked.Valid {
		id := linked.Int64
		txn.LinkedTransactionID = &id
	}
	return txn, nil
}
