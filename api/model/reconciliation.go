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
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/model"
)

// SuggestionQuery carries the optional query parameters of the suggestions endpoint.
type SuggestionQuery struct {
	ToleranceDays   *int     `form:"tolerance_days"`
	ToleranceAmount *float64 `form:"tolerance_amount"`
	ToleranceHours  *int     `form:"tolerance_hours"`
	MinConfidence   *float64 `form:"min_confidence"`
	Limit           *int     `form:"limit"`
}

type ApplyReconciliation struct {
	Action         string  `json:"action"`
	TransactionIDs []int64 `json:"transaction_ids"`
}

// ToOptions overlays the parameters that were sent on top of defaults.
func (q *SuggestionQuery) ToOptions(defaults model.SuggestionOptions) model.SuggestionOptions {
	opts := defaults
	if q.ToleranceDays != nil {
		opts.ToleranceDays = *q.ToleranceDays
	}
	if q.ToleranceAmount != nil {
		opts.ToleranceAmount = decimal.NewFromFloat(*q.ToleranceAmount)
	}
	if q.ToleranceHours != nil {
		opts.ToleranceHours = *q.ToleranceHours
	}
	if q.MinConfidence != nil {
		opts.MinConfidence = *q.MinConfidence
	}
	if q.Limit != nil {
		opts.Limit = *q.Limit
	}
	return opts
}
