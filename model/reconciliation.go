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
)

// Reconciliation actions accepted by the apply step.
const (
	ActionMarkAsTransfer   = "mark_as_transfer"
	ActionDeleteDuplicates = "delete_duplicates"
	ActionLinkTransfers    = "link_transfers"
)

const MatchTypeTransfer = "transfer"

// MatchCandidate is a proposed pairing of two transactions as the sides of one transfer.
type MatchCandidate struct {
	Tx1        Transaction     `json:"tx1"`
	Tx2        Transaction     `json:"tx2"`
	AmountDiff decimal.Decimal `json:"amount_diff"`
	DaysDiff   float64         `json:"days_diff"`
	Confidence float64         `json:"confidence"`
	Type       string          `json:"type"`
}

type DuplicateMatch struct {
	Transaction Transaction `json:"transaction"`
	Similarity  float64     `json:"similarity"`
	HoursDiff   float64     `json:"hours_diff"`
	Confidence  float64     `json:"confidence"`
}

// DuplicateGroup clusters transactions that look like redundant entries of Original.
type DuplicateGroup struct {
	Original   Transaction      `json:"original"`
	Duplicates []DuplicateMatch `json:"duplicates"`
}

// TopConfidence returns the confidence of the strongest duplicate in the group.
func (g DuplicateGroup) TopConfidence() float64 {
	if len(g.Duplicates) == 0 {
		return 0
	}
	return g.Duplicates[0].Confidence
}

type SuggestionOptions struct {
	ToleranceDays   int             `json:"tolerance_days"`
	ToleranceAmount decimal.Decimal `json:"tolerance_amount"`
	ToleranceHours  int             `json:"tolerance_hours"`
	MinConfidence   float64         `json:"min_confidence"`
	Limit           int             `json:"limit"`
}

type ReconciliationStats struct {
	TransactionsAnalyzed     int `json:"transactions_analyzed"`
	PotentialTransfers       int `json:"potential_transfers"`
	HighConfidenceTransfers  int `json:"high_confidence_transfers"`
	DuplicateGroups          int `json:"duplicate_groups"`
	PotentialDuplicates      int `json:"potential_duplicates"`
	HighConfidenceDuplicates int `json:"high_confidence_duplicates"`
}

type ReconciliationSuggestions struct {
	Transfers  []MatchCandidate    `json:"transfers"`
	Duplicates []DuplicateGroup    `json:"duplicates"`
	Stats      ReconciliationStats `json:"stats"`
	Options    SuggestionOptions   `json:"options"`
}

type ReconciliationResult struct {
	Action         string  `json:"action"`
	TransactionIDs []int64 `json:"transaction_ids"`
	Affected       int64   `json:"affected"`
}
