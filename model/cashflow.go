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

const (
	FlowInflow  = "inflow"
	FlowOutflow = "outflow"
)

// Sources of projected flows.
const (
	SourceFreelancer = "freelancer"
	SourceService    = "service"
	SourceDebt       = "debt"
	SourcePayable    = "payable"
	SourceReceivable = "receivable"
)

// ProjectedFlow is one discrete dated movement on a projected day.
type ProjectedFlow struct {
	Source    string          `json:"source"`
	SourceID  int64           `json:"source_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
}

type DailyProjection struct {
	Date             string          `json:"date"`
	Inflow           decimal.Decimal `json:"inflow"`
	Outflow          decimal.Decimal `json:"outflow"`
	NetFlow          decimal.Decimal `json:"net_flow"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	Transactions     []ProjectedFlow `json:"transactions"`
}

type CriticalDay struct {
	Date             string          `json:"date"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	Shortfall        decimal.Decimal `json:"shortfall"`
}

type ProjectionSummary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	NetFlow      decimal.Decimal `json:"net_flow"`
	FinalBalance decimal.Decimal `json:"final_balance"`
	MinBalance   decimal.Decimal `json:"min_balance"`
	MaxBalance   decimal.Decimal `json:"max_balance"`
	CriticalDays []CriticalDay   `json:"critical_days"`
}

type CashFlowProjection struct {
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Days            int               `json:"days"`
	Scenario        string            `json:"scenario"`
	StartingBalance decimal.Decimal   `json:"starting_balance"`
	Historical      bool              `json:"include_historical"`
	Daily           []DailyProjection `json:"daily"`
	Summary         ProjectionSummary `json:"summary"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

type ProjectionOptions struct {
	Days              int    `json:"days"`
	Scenario          string `json:"scenario"`
	IncludeHistorical bool   `json:"include_historical"`
	HistoricalDays    int    `json:"historical_days"`
}

// HasCriticalDays reports whether the balance is projected to go negative at any point.
func (p *CashFlowProjection) HasCriticalDays() bool {
	return len(p.Summary.CriticalDays) > 0
}
