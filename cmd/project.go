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

package main

import (
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack"
)

func projectCommands(f *fintrackInstance) *cobra.Command {
	var (
		days           int
		scenario       string
		historical     bool
		historicalDays int
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "print a day by day cash-flow projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fintrack.DefaultProjectionOptions()
			flags := cmd.Flags()
			if flags.Changed("days") {
				opts.Days = days
			}
			if flags.Changed("scenario") {
				opts.Scenario = scenario
			}
			if flags.Changed("historical") {
				opts.IncludeHistorical = historical
			}
			if flags.Changed("historical-days") {
				opts.HistoricalDays = historicalDays
			}

			projection, err := f.fintrack.ProjectCashFlow(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, projection)
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "projection horizon in days, at most 365")
	cmd.Flags().StringVar(&scenario, "scenario", "realistic", "optimistic, realistic or pessimistic")
	cmd.Flags().BoolVar(&historical, "historical", false, "add weekday averages of past income and expenses")
	cmd.Flags().IntVar(&historicalDays, "historical-days", 90, "days of history behind the averages")

	return cmd
}
