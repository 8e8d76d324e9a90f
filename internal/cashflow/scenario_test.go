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

package cashflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	tests := []struct {
		input    string
		expected Scenario
		wantErr  bool
	}{
		{input: "optimistic", expected: Optimistic},
		{input: "Realistic", expected: Realistic},
		{input: " pessimistic ", expected: Pessimistic},
		{input: "", expected: Realistic},
		{input: "catastrophic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scenario, err := ParseScenario(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownScenario)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, scenario)
		})
	}
}

func TestScenarioFactors(t *testing.T) {
	tests := []struct {
		scenario       Scenario
		collectionRate string
		income         string
		expense        string
	}{
		{scenario: Optimistic, collectionRate: "1", income: "1.15", expense: "0.9"},
		{scenario: Realistic, collectionRate: "0.85", income: "1", expense: "1"},
		{scenario: Pessimistic, collectionRate: "0.7", income: "0.85", expense: "1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario.String(), func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.collectionRate).Equal(tt.scenario.CollectionRate()))
			m := tt.scenario.Modifiers()
			assert.True(t, decimal.RequireFromString(tt.income).Equal(m.Income))
			assert.True(t, decimal.RequireFromString(tt.expense).Equal(m.Expense))
		})
	}
}
