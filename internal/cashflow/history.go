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
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/model"
)

// DefaultHistoricalDays is the look-back window used when the caller does not pick one.
const DefaultHistoricalDays = 90

// HistoricalAverages are the per-weekday income and expense observed over a past window.
type HistoricalAverages struct {
	DailyIncome  decimal.Decimal
	DailyExpense decimal.Decimal
	Weekdays     int
}

// AverageDaily averages income and expense over the weekdays in [from, to]. The averages are
// only applied on weekdays, so weekend days do not dilute the divisor. Transfers between own
// accounts and rows outside the window are ignored.
func AverageDaily(history []model.Transaction, from, to time.Time) *HistoricalAverages {
	from = dateOnly(from)
	to = dateOnly(to)

	averages := &HistoricalAverages{DailyIncome: decimal.Zero, DailyExpense: decimal.Zero}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if isWeekday(d) {
			averages.Weekdays++
		}
	}
	if averages.Weekdays == 0 {
		return averages
	}

	income := decimal.Zero
	expense := decimal.Zero
	for i := range history {
		tx := &history[i]
		if tx.IsDeleted || tx.IsTransfer() || !withinWindow(dateOnly(tx.Date), from, to) {
			continue
		}
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount.Abs())
		case tx.IsExpense():
			expense = expense.Add(tx.Amount.Abs())
		}
	}

	divisor := decimal.NewFromInt(int64(averages.Weekdays))
	averages.DailyIncome = income.Div(divisor)
	averages.DailyExpense = expense.Div(divisor)
	return averages
}
