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

// Package reconcile proposes transfer pairs and duplicate clusters over a set of transactions.
// Everything here is a pure function of its inputs; persisting the user's decision is done by
// the storage layer.
//
// Both matchers claim greedily in input order: the first acceptable partner wins, even if a later
// pairing would have scored higher. Callers that need stable results must pass a stable order.
package reconcile

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/model"
)

const (
	transferAmountWeight     = 20
	transferDaysWeight       = 20
	transferSimilarityWeight = 10
	transferFlaggedBonus     = 10
)

// FindTransferMatches pairs opposite-polarity transactions on different accounts whose amounts
// and dates fall within the given tolerances. toleranceAmount is a fraction of the first
// transaction's magnitude (0.01 = 1%). Results are sorted by descending confidence.
func FindTransferMatches(txns []model.Transaction, toleranceDays int, toleranceAmount decimal.Decimal) []model.MatchCandidate {
	claimed := make(map[int]bool, len(txns))
	matches := make([]model.MatchCandidate, 0)

	for i := 0; i < len(txns); i++ {
		if claimed[i] {
			continue
		}
		for j := i + 1; j < len(txns); j++ {
			if claimed[j] {
				continue
			}
			candidate, ok := evaluateTransferPair(txns[i], txns[j], toleranceDays, toleranceAmount)
			if !ok {
				continue
			}
			claimed[i] = true
			claimed[j] = true
			matches = append(matches, candidate)
			break
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Confidence > matches[b].Confidence
	})
	return matches
}

func evaluateTransferPair(tx1, tx2 model.Transaction, toleranceDays int, toleranceAmount decimal.Decimal) (model.MatchCandidate, bool) {
	abs1 := tx1.Amount.Abs()
	abs2 := tx2.Amount.Abs()

	amountDiff := abs1.Sub(abs2).Abs()
	maxAllowedDiff := abs1.Mul(toleranceAmount)
	if amountDiff.GreaterThan(maxAllowedDiff) {
		return model.MatchCandidate{}, false
	}

	daysDiff := daysBetween(tx1, tx2)
	if daysDiff > float64(toleranceDays) {
		return model.MatchCandidate{}, false
	}

	if tx1.Account == tx2.Account {
		return model.MatchCandidate{}, false
	}

	if !oppositePolarity(tx1, tx2) {
		return model.MatchCandidate{}, false
	}

	return model.MatchCandidate{
		Tx1:        tx1,
		Tx2:        tx2,
		AmountDiff: amountDiff,
		DaysDiff:   daysDiff,
		Confidence: transferConfidence(tx1, tx2, amountDiff, maxAllowedDiff, daysDiff, toleranceDays),
		Type:       model.MatchTypeTransfer,
	}, true
}

func oppositePolarity(tx1, tx2 model.Transaction) bool {
	return (tx1.IsIncome() && tx2.IsExpense()) || (tx1.IsExpense() && tx2.IsIncome())
}

// transferConfidence starts at 100 and trades points for amount and date drift, rewarding
// similar descriptions and rows already flagged as transfers.
func transferConfidence(tx1, tx2 model.Transaction, amountDiff, maxAllowedDiff decimal.Decimal, daysDiff float64, toleranceDays int) float64 {
	confidence := 100.0

	// a zero allowance only admits exact amounts, so there is nothing to penalise
	if maxAllowedDiff.IsPositive() {
		confidence -= amountDiff.Div(maxAllowedDiff).InexactFloat64() * transferAmountWeight
	}

	if toleranceDays > 0 {
		confidence -= daysDiff / float64(toleranceDays) * transferDaysWeight
	}

	confidence += StringSimilarity(tx1.Description, tx2.Description) * transferSimilarityWeight

	if tx1.IsTransfer() && tx2.IsTransfer() {
		confidence += transferFlaggedBonus
	}

	return roundScore(clamp(confidence, 0, 100))
}

func daysBetween(tx1, tx2 model.Transaction) float64 {
	return math.Abs(tx2.Date.Sub(tx1.Date).Hours()) / 24
}

func hoursBetween(tx1, tx2 model.Transaction) float64 {
	return math.Abs(tx2.Date.Sub(tx1.Date).Hours())
}

func clamp(value, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, value))
}

func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}
