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
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/database/mocks"
	"github.com/fintrack/fintrack/internal/apierror"
	redis_db "github.com/fintrack/fintrack/internal/redis-db"
	"github.com/fintrack/fintrack/model"
)

func txnOn(id int64, amount, kind, account, date, description string) model.Transaction {
	d, err := time.Parse("2006-01-02 15:04", date)
	if err != nil {
		d, _ = time.Parse("2006-01-02", date)
	}
	return model.Transaction{
		ID:          id,
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		Account:     account,
		Description: description,
	}
}

func suggestionOptions() model.SuggestionOptions {
	return model.SuggestionOptions{
		ToleranceDays:   3,
		ToleranceAmount: decimal.RequireFromString("0.01"),
		ToleranceHours:  24,
		MinConfidence:   70,
		Limit:           1000,
	}
}

func TestSuggestReconciliation(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, now: time.Now}

	txns := []model.Transaction{
		txnOn(1, "-200", "gasto", "A", "2024-01-01", "Transfer to savings"),
		txnOn(2, "200", "ingreso", "B", "2024-01-02", "Transfer from checking"),
		txnOn(3, "100", "expense", "A", "2024-01-05 10:00", "Uber trip"),
		txnOn(4, "100", "expense", "A", "2024-01-05 12:00", "Uber Trip"),
		txnOn(5, "55", "expense", "C", "2024-01-09", "Groceries"),
	}
	mockDS.On("ListTransactions", mock.Anything, model.TransactionFilter{Limit: 1000}).Return(txns, nil)

	suggestions, err := f.SuggestReconciliation(context.Background(), suggestionOptions())
	require.NoError(t, err)

	require.Len(t, suggestions.Transfers, 1)
	assert.Equal(t, int64(1), suggestions.Transfers[0].Tx1.ID)
	assert.Equal(t, int64(2), suggestions.Transfers[0].Tx2.ID)
	assert.GreaterOrEqual(t, suggestions.Transfers[0].Confidence, 80.0)

	require.Len(t, suggestions.Duplicates, 1)
	assert.Equal(t, int64(3), suggestions.Duplicates[0].Original.ID)
	assert.Equal(t, 100.0, suggestions.Duplicates[0].TopConfidence())

	assert.Equal(t, model.ReconciliationStats{
		TransactionsAnalyzed:     5,
		PotentialTransfers:       1,
		HighConfidenceTransfers:  1,
		DuplicateGroups:          1,
		PotentialDuplicates:      1,
		HighConfidenceDuplicates: 1,
	}, suggestions.Stats)
	assert.Equal(t, 1000, suggestions.Options.Limit)
	mockDS.AssertExpectations(t)
}

func TestSuggestReconciliation_MinConfidenceFilters(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, now: time.Now}

	txns := []model.Transaction{
		txnOn(1, "-200", "gasto", "A", "2024-01-01", "abc"),
		txnOn(2, "200", "ingreso", "B", "2024-01-04", "xyz"),
	}
	mockDS.On("ListTransactions", mock.Anything, mock.Anything).Return(txns, nil)

	opts := suggestionOptions()
	opts.MinConfidence = 95
	suggestions, err := f.SuggestReconciliation(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, suggestions.Transfers)
	assert.Empty(t, suggestions.Duplicates)
	assert.Equal(t, 2, suggestions.Stats.TransactionsAnalyzed)

	opts.MinConfidence = 0
	suggestions, err = f.SuggestReconciliation(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, suggestions.Transfers, 1)
}

func TestSuggestReconciliation_DefaultLimit(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, now: time.Now}

	mockDS.On("ListTransactions", mock.Anything, model.TransactionFilter{Limit: 1000}).Return([]model.Transaction{}, nil)

	opts := suggestionOptions()
	opts.Limit = 0
	suggestions, err := f.SuggestReconciliation(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, suggestions.Transfers)
	assert.Equal(t, 1000, suggestions.Options.Limit)
	mockDS.AssertExpectations(t)
}

func TestSuggestReconciliation_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.SuggestionOptions)
	}{
		{"negative days", func(o *model.SuggestionOptions) { o.ToleranceDays = -1 }},
		{"negative amount", func(o *model.SuggestionOptions) { o.ToleranceAmount = decimal.NewFromFloat(-0.5) }},
		{"negative hours", func(o *model.SuggestionOptions) { o.ToleranceHours = -2 }},
		{"confidence above 100", func(o *model.SuggestionOptions) { o.MinConfidence = 101 }},
		{"negative confidence", func(o *model.SuggestionOptions) { o.MinConfidence = -1 }},
		{"negative limit", func(o *model.SuggestionOptions) { o.Limit = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDS := new(mocks.MockDataSource)
			f := &Fintrack{datasource: mockDS, now: time.Now}

			opts := suggestionOptions()
			tt.modify(&opts)
			_, err := f.SuggestReconciliation(context.Background(), opts)
			assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
			mockDS.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
		})
	}
}

func TestSuggestReconciliation_StorageError(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, now: time.Now}

	storageErr := apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list transactions", errors.New("connection reset"))
	mockDS.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, storageErr)

	_, err := f.SuggestReconciliation(context.Background(), suggestionOptions())
	assert.True(t, apierror.HasCode(err, apierror.ErrInternalServer))
}

func TestApplyReconciliation(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		ids      []int64
		wantIDs  []int64
		affected int64
	}{
		{"mark as transfer", model.ActionMarkAsTransfer, []int64{4, 7}, []int64{4, 7}, 2},
		{"delete duplicates dedupes ids", model.ActionDeleteDuplicates, []int64{9, 9, 10}, []int64{9, 10}, 2},
		{"link transfers", model.ActionLinkTransfers, []int64{1, 2}, []int64{1, 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDS := new(mocks.MockDataSource)
			f := &Fintrack{datasource: mockDS, now: time.Now}
			mockDS.On("ApplyReconciliationAction", mock.Anything, tt.action, tt.wantIDs).Return(tt.affected, nil)

			result, err := f.ApplyReconciliation(context.Background(), tt.action, tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.affected, result.Affected)
			assert.Equal(t, tt.wantIDs, result.TransactionIDs)
			mockDS.AssertExpectations(t)
		})
	}
}

func TestApplyReconciliation_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		action string
		ids    []int64
	}{
		{"unknown action", "merge", []int64{1}},
		{"mark without ids", model.ActionMarkAsTransfer, nil},
		{"delete without ids", model.ActionDeleteDuplicates, []int64{}},
		{"link with one id", model.ActionLinkTransfers, []int64{1}},
		{"link with same id twice", model.ActionLinkTransfers, []int64{3, 3}},
		{"link with three ids", model.ActionLinkTransfers, []int64{1, 2, 3}},
		{"non positive id", model.ActionMarkAsTransfer, []int64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDS := new(mocks.MockDataSource)
			f := &Fintrack{datasource: mockDS, now: time.Now}

			_, err := f.ApplyReconciliation(context.Background(), tt.action, tt.ids)
			assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
			mockDS.AssertNotCalled(t, "ApplyReconciliationAction", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApplyReconciliation_NotFoundPropagates(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, now: time.Now}

	notFound := apierror.NewAPIError(apierror.ErrNotFound, "one or more transactions were not found", nil)
	mockDS.On("ApplyReconciliationAction", mock.Anything, model.ActionDeleteDuplicates, []int64{42}).Return(int64(0), notFound)

	_, err := f.ApplyReconciliation(context.Background(), model.ActionDeleteDuplicates, []int64{42})
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
}

func TestApplyReconciliation_ReleasesLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis_db.NewRedisClient([]string{mr.Addr()}, false)
	require.NoError(t, err)
	defer client.Close()

	mockDS := new(mocks.MockDataSource)
	f := &Fintrack{datasource: mockDS, redis: client.Client(), now: time.Now}

	mockDS.On("ApplyReconciliationAction", mock.Anything, model.ActionMarkAsTransfer, []int64{5}).
		Run(func(args mock.Arguments) {
			assert.True(t, mr.Exists(applyLockKey), "lock must be held while applying")
		}).
		Return(int64(1), nil)

	_, err = f.ApplyReconciliation(context.Background(), model.ActionMarkAsTransfer, []int64{5})
	require.NoError(t, err)
	assert.False(t, mr.Exists(applyLockKey))
}
