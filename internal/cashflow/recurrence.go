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

	"github.com/fintrack/fintrack/model"
)

const unknownFrequencyStep = 30

// NextOccurrence advances date by one step of frequency.
//
// Month based steps (monthly, quarterly, yearly) anchor on paymentDay when it is set and clamp it
// to the last day of the target month, so a payment_day of 31 lands on Feb 28 or 29. Without a
// payment day the step follows calendar normalisation (Jan 31 + 1 month is early March).
// Unknown frequencies advance 30 days.
func NextOccurrence(date time.Time, frequency string, paymentDay *int) time.Time {
	date = dateOnly(date)

	switch frequency {
	case model.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case model.FrequencyBiweekly:
		return date.AddDate(0, 0, 14)
	case model.FrequencyMonthly:
		return addMonths(date, 1, paymentDay)
	case model.FrequencyQuarterly:
		return addMonths(date, 3, paymentDay)
	case model.FrequencyYearly:
		return addMonths(date, 12, paymentDay)
	default:
		return date.AddDate(0, 0, unknownFrequencyStep)
	}
}

// ExpandRecurring lists the dates of a recurring obligation between today and end, both
// inclusive. Expansion starts at start so schedules anchored in the past still land on their
// proper dates. Without a start, month based schedules begin on the next paymentDay and anything
// else begins today.
func ExpandRecurring(start *time.Time, today, end time.Time, frequency string, paymentDay *int) []time.Time {
	today = dateOnly(today)
	end = dateOnly(end)

	current := today
	switch {
	case start != nil:
		current = dateOnly(*start)
	case hasPaymentDay(paymentDay) && monthBased(frequency):
		current = onDay(today.Year(), today.Month(), *paymentDay)
		if current.Before(today) {
			current = addMonths(current, 1, paymentDay)
		}
	}

	var dates []time.Time
	for !current.After(end) {
		if !current.Before(today) {
			dates = append(dates, current)
		}
		current = NextOccurrence(current, frequency, paymentDay)
	}
	return dates
}

func addMonths(date time.Time, months int, paymentDay *int) time.Time {
	if !hasPaymentDay(paymentDay) {
		return date.AddDate(0, months, 0)
	}

	// the first of the month never overflows, so this lands in the intended target month
	target := time.Date(date.Year(), date.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return onDay(target.Year(), target.Month(), *paymentDay)
}

// onDay is the given day of the month, clamped to the month's last day.
func onDay(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func hasPaymentDay(paymentDay *int) bool {
	return paymentDay != nil && *paymentDay > 0
}

func monthBased(frequency string) bool {
	switch frequency {
	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencyYearly:
		return true
	}
	return false
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}
