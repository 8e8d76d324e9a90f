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

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fintrack/fintrack/internal/apierror"
	"github.com/fintrack/fintrack/model"
)

// LinkNote is the cross-reference appended to each side of a linked transfer.
func LinkNote(peerID int64) string {
	return fmt.Sprintf("Linked transfer with transaction #%d", peerID)
}

// ApplyReconciliationAction commits a user approved reconciliation decision in one database
// transaction. Every id must exist and be live; otherwise nothing is changed and a NOT_FOUND error
// is returned. link_transfers expects exactly two ids.
func (d Datasource) ApplyReconciliationAction(ctx context.Context, action string, ids []int64) (int64, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Applying reconciliation action")
	defer span.End()
	span.SetAttributes(attribute.String("action", action), attribute.Int("transactions", len(ids)))

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var affected int64
	switch action {
	case model.ActionMarkAsTransfer:
		affected, err = execAffected(ctx, tx, `
			UPDATE fintrack.transactions
			SET transaction_type = 'transfer'
			WHERE id = ANY($1) AND is_deleted = FALSE
		`, pq.Array(ids))
	case model.ActionDeleteDuplicates:
		affected, err = execAffected(ctx, tx, `
			UPDATE fintrack.transactions
			SET is_deleted = TRUE
			WHERE id = ANY($1) AND is_deleted = FALSE
		`, pq.Array(ids))
	case model.ActionLinkTransfers:
		if len(ids) != 2 {
			return 0, apierror.NewAPIError(apierror.ErrInvalidInput, "link_transfers requires exactly two transaction ids", nil)
		}
		affected, err = linkTransfers(ctx, tx, ids[0], ids[1])
	default:
		return 0, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("unknown reconciliation action '%s'", action), nil)
	}
	if err != nil {
		span.RecordError(err)
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to apply reconciliation action", err)
	}

	if affected != int64(len(ids)) {
		return 0, apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("expected to update %d transactions but found %d; nothing was changed", len(ids), affected), nil)
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return 0, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit reconciliation action", err)
	}

	return affected, nil
}

func linkTransfers(ctx context.Context, tx *sql.Tx, first, second int64) (int64, error) {
	const link = `
		UPDATE fintrack.transactions
		SET transaction_type = 'transfer',
			linked_transaction_id = $2,
			notes = CASE WHEN COALESCE(notes, '') = '' THEN $3 ELSE notes || E'\n' || $3 END
		WHERE id = $1 AND is_deleted = FALSE
	`

	var total int64
	for _, pair := range [][2]int64{{first, second}, {second, first}} {
		n, err := execAffected(ctx, tx, link, pair[0], pair[1], LinkNote(pair[1]))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func execAffected(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
