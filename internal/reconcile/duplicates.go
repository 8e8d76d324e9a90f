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

package reconcile

import (
	"sort"

	"github.com/fintrack/fintrack/model"
)

// MinDuplicateSimilarity is the description similarity a candidate needs to count as a duplicate.
const MinDuplicateSimilarity = 0.7

const (
	duplicateBaseConfidence  = 50
	duplicateSimilarityScore = 40
	duplicateTimeScore       = 10
	duplicateSameAccount     = 20
)

// FindDuplicateTransactions clusters transactions with the same magnitude and type recorded
// within toleranceHours of each other and with near-identical descriptions. Each group keeps its
// duplicates sorted by confidence; groups are sorted by their strongest duplicate.
func FindDuplicateTransactions(txns []model.Transaction, toleranceHours int) []model.DuplicateGroup {
	claimed := make(map[int]bool, len(txns))
	groups := make([]model.DuplicateGroup, 0)

	for i := 0; i < len(txns); i++ {
		if claimed[i] {
			continue
		}

		var duplicates []model.DuplicateMatch
		var indices []int
		for j := i + 1; j < len(txns); j++ {
			if claimed[j] {
				continue
			}
			duplicate, ok := evaluateDuplicate(txns[i], txns[j], toleranceHours)
			if !ok {
				continue
			}
			duplicates = append(duplicates, duplicate)
			indices = append(indices, j)
		}

		if len(duplicates) == 0 {
			continue
		}

		sort.SliceStable(duplicates, func(a, b int) bool {
			return duplicates[a].Confidence > duplicates[b].Confidence
		})

		claimed[i] = true
		for _, idx := range indices {
			claimed[idx] = true
		}
		groups = append(groups, model.DuplicateGroup{Original: txns[i], Duplicates: duplicates})
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TopConfidence() > groups[b].TopConfidence()
	})
	return groups
}

func evaluateDuplicate(original, candidate model.Transaction, toleranceHours int) (model.DuplicateMatch, bool) {
	if !original.Amount.Abs().Equal(candidate.Amount.Abs()) {
		return model.DuplicateMatch{}, false
	}
	if original.Type != candidate.Type {
		return model.DuplicateMatch{}, false
	}

	hoursDiff := hoursBetween(original, candidate)
	if hoursDiff > float64(toleranceHours) {
		return model.DuplicateMatch{}, false
	}

	similarity := StringSimilarity(original.Description, candidate.Description)
	if similarity < MinDuplicateSimilarity {
		return model.DuplicateMatch{}, false
	}

	return model.DuplicateMatch{
		Transaction: candidate,
		Similarity:  roundScore(similarity),
		HoursDiff:   hoursDiff,
		Confidence:  duplicateConfidence(original, candidate, similarity, hoursDiff, toleranceHours),
	}, true
}

func duplicateConfidence(original, candidate model.Transaction, similarity, hoursDiff float64, toleranceHours int) float64 {
	confidence := float64(duplicateBaseConfidence)
	confidence += similarity * duplicateSimilarityScore

	if toleranceHours > 0 {
		confidence += (1 - hoursDiff/float64(toleranceHours)) * duplicateTimeScore
	}

	if original.Account == candidate.Account {
		confidence += duplicateSameAccount
	}

	return roundScore(clamp(confidence, 0, 100))
}
