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

	"go.opentelemetry.io/otel"

	"github.com/fintrack/fintrack/internal/apierror"
	"github.com/fintrack/fintrack/model"
)

// ListActiveAccounts returns every account flagged active. Their balances seed the projection.
func (d Datasource) ListActiveAccounts(ctx context.Context) ([]model.Account, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing active accounts")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, type, balance, is_active, created_at
		FROM fintrack.accounts
		WHERE is_active = TRUE
		ORDER BY id
	`)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list accounts", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var account model.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.Type, &account.Balance, &account.IsActive, &account.CreatedAt); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan account", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating accounts", err)
	}
	return accounts, nil
}
