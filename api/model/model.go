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
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fintrack/fintrack/model"
)

var scenarios = []interface{}{"optimistic", "realistic", "pessimistic"}

func (q *SuggestionQuery) ValidateSuggestionQuery() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.ToleranceDays, validation.Min(0)),
		validation.Field(&q.ToleranceAmount, validation.Min(0.0)),
		validation.Field(&q.ToleranceHours, validation.Min(0)),
		validation.Field(&q.MinConfidence, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&q.Limit, validation.Min(1)),
	)
}

func (a *ApplyReconciliation) ValidateApplyReconciliation() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Action, validation.Required,
			validation.In(model.ActionMarkAsTransfer, model.ActionDeleteDuplicates, model.ActionLinkTransfers)),
		validation.Field(&a.TransactionIDs, validation.Required, validation.Each(validation.Min(int64(1))),
			validation.When(a.Action == model.ActionLinkTransfers,
				validation.Length(2, 2).Error("link_transfers requires exactly two transaction ids"),
				validation.By(distinctIDs))),
	)
}

func distinctIDs(value interface{}) error {
	ids, ok := value.([]int64)
	if !ok {
		return errors.New("invalid transaction ids")
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return errors.New("transaction ids must be distinct")
		}
		seen[id] = true
	}
	return nil
}

func (q *ProjectionQuery) ValidateProjectionQuery() error {
	q.Scenario = strings.ToLower(strings.TrimSpace(q.Scenario))
	return validation.ValidateStruct(q,
		validation.Field(&q.Days, validation.Min(1)),
		validation.Field(&q.Scenario, validation.In(scenarios...)),
		validation.Field(&q.HistoricalDays, validation.Min(1)),
	)
}
