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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/internal/apierror"
	redlock "github.com/fintrack/fintrack/internal/lock"
	"github.com/fintrack/fintrack/internal/reconcile"
	"github.com/fintrack/fintrack/model"
)

// HighConfidence is the score from which a suggestion counts as high confidence in the stats.
const HighConfidence = 90.0

const (
	applyLockKey     = "fintrack:reconciliation:apply"
	applyLockTimeout = 30 * time.Second
	applyLockWait    = 5 * time.Second
)

// DefaultSuggestionOptions returns the configured reconciliation defaults, falling back to the
// built-in ones when no configuration is loaded.
func DefaultSuggestionOptions() model.SuggestionOptions {
	cfg, err := config.Fetch()
	if err != nil {
		return config.ReconciliationConfig{}.SuggestionDefaults()
	}
	return cfg.Reconciliation.SuggestionDefaults()
}

func validateSuggestionOptions(opts model.SuggestionOptions) error {
	switch {
	case opts.ToleranceDays < 0:
		return apierror.NewAPIError(apierror.ErrInvalidInput, "tolerance_days must not be negative", nil)
	case opts.ToleranceAmount.IsNegative():
		return apierror.NewAPIError(apierror.ErrInvalidInput, "tolerance_amount must not be negative", nil)
	case opts.ToleranceHours < 0:
		return apierror.NewAPIError(apierror.ErrInvalidInput, "tolerance_hours must not be negative", nil)
	case opts.MinConfidence < 0 || opts.MinConfidence > 100:
		return apierror.NewAPIError(apierror.ErrInvalidInput, "min_confidence must be between 0 and 100", nil)
	case opts.Limit < 0:
		return apierror.NewAPIError(apierror.ErrInvalidInput, "limit must not be negative", nil)
	}
	return nil
}

// SuggestReconciliation reads the most recent transactions and proposes transfer pairs and
// duplicate groups scoring at least opts.MinConfidence. A zero limit uses the configured one.
func (f *Fintrack) SuggestReconciliation(ctx context.Context, opts model.SuggestionOptions) (*model.ReconciliationSuggestions, error) {
	ctx, span := otel.Tracer("fintrack.reconciliation").Start(ctx, "Suggest reconciliation")
	defer span.End()

	if err := validateSuggestionOptions(opts); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultSuggestionOptions().Limit
	}

	txns, err := f.datasource.ListTransactions(ctx, model.TransactionFilter{Limit: opts.Limit})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	transfers := filterTransfers(reconcile.FindTransferMatches(txns, opts.ToleranceDays, opts.ToleranceAmount), opts.MinConfidence)
	duplicates := filterDuplicates(reconcile.FindDuplicateTransactions(txns, opts.ToleranceHours), opts.MinConfidence)

	suggestions := &model.ReconciliationSuggestions{
		Transfers:  transfers,
		Duplicates: duplicates,
		Stats:      reconciliationStats(len(txns), transfers, duplicates),
		Options:    opts,
	}

	span.SetAttributes(
		attribute.Int("transactions.analyzed", len(txns)),
		attribute.Int("suggestions.transfers", len(transfers)),
		attribute.Int("suggestions.duplicate_groups", len(duplicates)),
	)
	logrus.WithFields(logrus.Fields{
		"analyzed":         len(txns),
		"transfers":        len(transfers),
		"duplicate_groups": len(duplicates),
		"min_confidence":   opts.MinConfidence,
	}).Info("reconciliation suggestions computed")

	return suggestions, nil
}

func filterTransfers(candidates []model.MatchCandidate, minConfidence float64) []model.MatchCandidate {
	kept := make([]model.MatchCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Confidence >= minConfidence {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// filterDuplicates drops duplicates under the threshold and any group left without duplicates.
// Groups stay ordered by their top confidence since duplicates are sorted within each group.
func filterDuplicates(groups []model.DuplicateGroup, minConfidence float64) []model.DuplicateGroup {
	kept := make([]model.DuplicateGroup, 0, len(groups))
	for _, group := range groups {
		matches := make([]model.DuplicateMatch, 0, len(group.Duplicates))
		for _, match := range group.Duplicates {
			if match.Confidence >= minConfidence {
				matches = append(matches, match)
			}
		}
		if len(matches) == 0 {
			continue
		}
		kept = append(kept, model.DuplicateGroup{Original: group.Original, Duplicates: matches})
	}
	return kept
}

func reconciliationStats(analyzed int, transfers []model.MatchCandidate, groups []model.DuplicateGroup) model.ReconciliationStats {
	stats := model.ReconciliationStats{
		TransactionsAnalyzed: analyzed,
		PotentialTransfers:   len(transfers),
		DuplicateGroups:      len(groups),
	}
	for _, transfer := range transfers {
		if transfer.Confidence >= HighConfidence {
			stats.HighConfidenceTransfers++
		}
	}
	for _, group := range groups {
		for _, match := range group.Duplicates {
			stats.PotentialDuplicates++
			if match.Confidence >= HighConfidence {
				stats.HighConfidenceDuplicates++
			}
		}
	}
	return stats
}

// ApplyReconciliation commits one user-approved action over ids in a single storage transaction.
// When Redis is available, applies are serialized so two requests never interleave their updates.
func (f *Fintrack) ApplyReconciliation(ctx context.Context, action string, ids []int64) (*model.ReconciliationResult, error) {
	ctx, span := otel.Tracer("fintrack.reconciliation").Start(ctx, "Apply reconciliation",
		trace.WithAttributes(attribute.String("reconciliation.action", action)))
	defer span.End()

	ids, err := validateApply(action, ids)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if f.redis != nil {
		locker := redlock.NewLocker(f.redis, applyLockKey, uuid.NewString())
		if err := locker.WaitLock(ctx, applyLockTimeout, applyLockWait); err != nil {
			span.RecordError(err)
			return nil, apierror.NewAPIError(apierror.ErrConflict, "another reconciliation is being applied, retry shortly", err)
		}
		defer func() {
			if err := locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				logrus.WithError(err).WithField("lock_key", locker.Key()).Warn("failed to release reconciliation lock")
			}
		}()
	}

	affected, err := f.datasource.ApplyReconciliationAction(ctx, action, ids)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"action":   action,
		"ids":      ids,
		"affected": affected,
	}).Info("reconciliation applied")

	return &model.ReconciliationResult{Action: action, TransactionIDs: ids, Affected: affected}, nil
}

// validateApply checks the action and its ids, returning the ids with repeats removed.
func validateApply(action string, ids []int64) ([]int64, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("invalid transaction id %d", id), nil)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	switch action {
	case model.ActionMarkAsTransfer, model.ActionDeleteDuplicates:
		if len(unique) == 0 {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "at least one transaction id is required", nil)
		}
	case model.ActionLinkTransfers:
		if len(unique) != 2 {
			return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "link_transfers requires exactly two distinct transaction ids", nil)
		}
	default:
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("unknown action %q", action), nil)
	}
	return unique, nil
}
