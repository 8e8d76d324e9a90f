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
	"sort"
	"time"

	"github.com/fintrack/fintrack/model"
)

// Occurrence is one dated flow produced from an obligation.
type Occurrence struct {
	Date time.Time
	Flow model.ProjectedFlow
}

// Obligations groups everything the projection reads from storage besides balances.
type Obligations struct {
	Freelancers []model.Freelancer
	Services    []model.Service
	Debts       []model.Debt
	Payables    []model.Payable
	Receivables []model.Receivable
}

// BuildOccurrences turns obligations into dated flows within [today, end].
// Freelancers, services and debts are expanded by frequency as outflows. Payables and receivables
// contribute their outstanding remainder once on the due date; receivables are discounted by the
// scenario's collection rate.
func BuildOccurrences(today, end time.Time, scenario Scenario, obligations Obligations) []Occurrence {
	today = dateOnly(today)
	end = dateOnly(end)

	var occurrences []Occurrence

	for _, f := range obligations.Freelancers {
		for _, date := range ExpandRecurring(f.NextPaymentDate, today, end, f.Frequency, f.PaymentDay) {
			occurrences = append(occurrences, Occurrence{Date: date, Flow: model.ProjectedFlow{
				Source:    model.SourceFreelancer,
				SourceID:  f.ID,
				Name:      f.Name,
				Amount:    f.PaymentAmount,
				Direction: model.FlowOutflow,
			}})
		}
	}

	for _, s := range obligations.Services {
		for _, date := range ExpandRecurring(s.NextPaymentDate, today, end, s.Frequency, s.PaymentDay) {
			occurrences = append(occurrences, Occurrence{Date: date, Flow: model.ProjectedFlow{
				Source:    model.SourceService,
				SourceID:  s.ID,
				Name:      s.Name,
				Amount:    s.Amount,
				Direction: model.FlowOutflow,
			}})
		}
	}

	for _, d := range obligations.Debts {
		for _, date := range ExpandRecurring(d.NextPaymentDate, today, end, d.PaymentFrequency, d.PaymentDay) {
			occurrences = append(occurrences, Occurrence{Date: date, Flow: model.ProjectedFlow{
				Source:    model.SourceDebt,
				SourceID:  d.ID,
				Name:      d.Name,
				Amount:    d.MonthlyPayment,
				Direction: model.FlowOutflow,
			}})
		}
	}

	for _, p := range obligations.Payables {
		due := dateOnly(p.DueDate)
		remaining := p.Remaining()
		if !withinWindow(due, today, end) || !remaining.IsPositive() {
			continue
		}
		occurrences = append(occurrences, Occurrence{Date: due, Flow: model.ProjectedFlow{
			Source:    model.SourcePayable,
			SourceID:  p.ID,
			Name:      p.Vendor,
			Amount:    remaining,
			Direction: model.FlowOutflow,
		}})
	}

	rate := scenario.CollectionRate()
	for _, r := range obligations.Receivables {
		due := dateOnly(r.DueDate)
		remaining := r.Remaining()
		if !withinWindow(due, today, end) || !remaining.IsPositive() {
			continue
		}
		occurrences = append(occurrences, Occurrence{Date: due, Flow: model.ProjectedFlow{
			Source:    model.SourceReceivable,
			SourceID:  r.ID,
			Name:      r.Client,
			Amount:    remaining.Mul(rate),
			Direction: model.FlowInflow,
		}})
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences
}

func withinWindow(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}
