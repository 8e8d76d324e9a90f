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
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scenario is a named adjustment profile applied to uncertain future flows.
type Scenario string

const (
	Optimistic  Scenario = "optimistic"
	Realistic   Scenario = "realistic"
	Pessimistic Scenario = "pessimistic"
)

// ErrUnknownScenario is returned by ParseScenario for names outside the three profiles.
var ErrUnknownScenario = fmt.Errorf("unknown scenario")

// Modifiers scale the historical daily averages on weekdays.
type Modifiers struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

var (
	one = decimal.NewFromInt(1)

	collectionRates = map[Scenario]decimal.Decimal{
		Optimistic:  one,
		Realistic:   decimal.RequireFromString("0.85"),
		Pessimistic: decimal.RequireFromString("0.70"),
	}

	scenarioModifiers = map[Scenario]Modifiers{
		Optimistic:  {Income: decimal.RequireFromString("1.15"), Expense: decimal.RequireFromString("0.9")},
		Realistic:   {Income: one, Expense: one},
		Pessimistic: {Income: decimal.RequireFromString("0.85"), Expense: decimal.RequireFromString("1.1")},
	}
)

// ParseScenario resolves a scenario name. An empty name means Realistic.
func ParseScenario(name string) (Scenario, error) {
	normalized := Scenario(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return Realistic, nil
	}
	if _, ok := collectionRates[normalized]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return normalized, nil
}

// CollectionRate is the fraction of each receivable's remainder expected to arrive.
func (s Scenario) CollectionRate() decimal.Decimal {
	if rate, ok := collectionRates[s]; ok {
		return rate
	}
	return collectionRates[Realistic]
}

func (s Scenario) Modifiers() Modifiers {
	if m, ok := scenarioModifiers[s]; ok {
		return m
	}
	return scenarioModifiers[Realistic]
}

func (s Scenario) String() string {
	return string(s)
}
