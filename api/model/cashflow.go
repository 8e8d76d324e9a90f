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
	"github.com/fintrack/fintrack/model"
)

// ProjectionQuery carries the optional query parameters of the projection endpoint.
type ProjectionQuery struct {
	Days              *int   `form:"days"`
	Scenario          string `form:"scenario"`
	IncludeHistorical *bool  `form:"include_historical"`
	HistoricalDays    *int   `form:"historical_days"`
}

func (q *ProjectionQuery) ToOptions(defaults model.ProjectionOptions) model.ProjectionOptions {
	opts := defaults
	if q.Days != nil {
		opts.Days = *q.Days
	}
	if q.Scenario != "" {
		opts.Scenario = q.Scenario
	}
	if q.IncludeHistorical != nil {
		opts.IncludeHistorical = *q.IncludeHistorical
	}
	if q.HistoricalDays != nil {
		opts.HistoricalDays = *q.HistoricalDays
	}
	return opts
}
