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

// Package cashflow forward-simulates account balances day by day from dated obligations and
// optional historical averages. All arithmetic is decimal; values are rounded to cents only when
// written into the result.
package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/model"
)

// MaxHorizonDays bounds the simulation length.
const MaxHorizonDays = 365

const (
	dateLayout   = "2006-01-02"
	outputPlaces = 2
)

// Input is everything a projection needs. Today comes from the caller's clock.
type Input struct {
	Today           time.Time
	Days            int
	Scenario        Scenario
	StartingBalance decimal.Decimal
	Occurrences     []Occurrence
	Historical      *HistoricalAverages
}

// ClampDays keeps a requested horizon inside [0, MaxHorizonDays].
func ClampDays(days int) int {
	if days > MaxHorizonDays {
		return MaxHorizonDays
	}
	if days < 0 {
		return 0
	}
	return days
}

// Project simulates days 0 through Days inclusive, so the result always has Days+1 rows.
func Project(in Input) model.CashFlowProjection {
	today := dateOnly(in.Today)
	days := ClampDays(in.Days)
	end := today.AddDate(0, 0, days)

	byDate := make(map[string][]model.ProjectedFlow)
	for _, occurrence := range in.Occurrences {
		key := occurrence.Date.Format(dateLayout)
		byDate[key] = append(byDate[key], occurrence.Flow)
	}

	modifiers := in.Scenario.Modifiers()

	var (
		balance      = in.StartingBalance
		totalInflow  = decimal.Zero
		totalOutflow = decimal.Zero
		minBalance   decimal.Decimal
		maxBalance   decimal.Decimal
		daily        = make([]model.DailyProjection, 0, days+1)
		critical     = make([]model.CriticalDay, 0)
	)

	for i := 0; i <= days; i++ {
		date := today.AddDate(0, 0, i)
		key := date.Format(dateLayout)

		inflow := decimal.Zero
		outflow := decimal.Zero
		flows := byDate[key]
		for _, flow := range flows {
			if flow.Direction == model.FlowInflow {
				inflow = inflow.Add(flow.Amount)
			} else {
				outflow = outflow.Add(flow.Amount)
			}
		}

		if in.Historical != nil && isWeekday(date) {
			inflow = inflow.Add(in.Historical.DailyIncome.Mul(modifiers.Income))
			outflow = outflow.Add(in.Historical.DailyExpense.Mul(modifiers.Expense))
		}

		netFlow := inflow.Sub(outflow)
		balance = balance.Add(netFlow)
		totalInflow = totalInflow.Add(inflow)
		totalOutflow = totalOutflow.Add(outflow)

		if i == 0 || balance.LessThan(minBalance) {
			minBalance = balance
		}
		if i == 0 || balance.GreaterThan(maxBalance) {
			maxBalance = balance
		}

		// Criticality follows the reported balance, not sub-cent residue.
		reported := balance.Round(outputPlaces)
		if reported.IsNegative() {
			critical = append(critical, model.CriticalDay{
				Date:             key,
				ProjectedBalance: reported,
				Shortfall:        reported.Abs(),
			})
		}

		daily = append(daily, model.DailyProjection{
			Date:             key,
			Inflow:           inflow.Round(outputPlaces),
			Outflow:          outflow.Round(outputPlaces),
			NetFlow:          netFlow.Round(outputPlaces),
			ProjectedBalance: reported,
			Transactions:     roundFlows(flows),
		})
	}

	return model.CashFlowProjection{
		StartDate:       today.Format(dateLayout),
		EndDate:         end.Format(dateLayout),
		Days:            days,
		Scenario:        in.Scenario.String(),
		StartingBalance: in.StartingBalance.Round(outputPlaces),
		Historical:      in.Historical != nil,
		Daily:           daily,
		Summary: model.ProjectionSummary{
			TotalInflow:  totalInflow.Round(outputPlaces),
			TotalOutflow: totalOutflow.Round(outputPlaces),
			NetFlow:      totalInflow.Sub(totalOutflow).Round(outputPlaces),
			FinalBalance: balance.Round(outputPlaces),
			MinBalance:   minBalance.Round(outputPlaces),
			MaxBalance:   maxBalance.Round(outputPlaces),
			CriticalDays: critical,
		},
	}
}

func roundFlows(flows []model.ProjectedFlow) []model.ProjectedFlow {
	rounded := make([]model.ProjectedFlow, 0, len(flows))
	for _, flow := range flows {
		flow.Amount = flow.Amount.Round(outputPlaces)
		rounded = append(rounded, flow)
	}
	return rounded
}
