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
	"time"

	"github.com/shopspring/decimal"
)

// Payment frequencies understood by the recurrence expansion.
const (
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// Freelancer is a contractor paid on a recurring schedule.
type Freelancer struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	Frequency       string          `json:"frequency"`
	NextPaymentDate *time.Time      `json:"next_payment_date,omitempty"`
	PaymentDay      *int            `json:"payment_day,omitempty"`
	Status          string          `json:"status"`
}

// Service is a recurring subscription or utility payment.
type Service struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Frequency       string          `json:"frequency"`
	NextPaymentDate *time.Time      `json:"next_payment_date,omitempty"`
	PaymentDay      *int            `json:"payment_day,omitempty"`
	Status          string          `json:"status"`
}

type Debt struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	MonthlyPayment   decimal.Decimal `json:"monthly_payment"`
	PaymentFrequency string          `json:"payment_frequency"`
	NextPaymentDate  *time.Time      `json:"next_payment_date,omitempty"`
	PaymentDay       *int            `json:"payment_day,omitempty"`
	Status           string          `json:"status"`
}

type Payable struct {
	ID          int64           `json:"id"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
}

type Receivable struct {
	ID          int64           `json:"id"`
	Client      string          `json:"client"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
}

// Remaining is the outstanding amount still owed on the payable.
func (p Payable) Remaining() decimal.Decimal {
	return p.Amount.Sub(p.AmountPaid)
}

// Remaining is the outstanding amount still to be collected.
func (r Receivable) Remaining() decimal.Decimal {
	return r.Amount.Sub(r.AmountPaid)
}
