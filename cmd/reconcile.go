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
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack"
)

// reconcileCommands prints reconciliation suggestions as JSON. Flags override the configured tolerances.
func reconcileCommands(f *fintrackInstance) *cobra.Command {
	var (
		toleranceDays   int
		toleranceAmount float64
		toleranceHours  int
		minConfidence   float64
		limit           int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "print transfer and duplicate suggestions for recent transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := fintrack.DefaultSuggestionOptions()
			flags := cmd.Flags()
			if flags.Changed("tolerance-days") {
				opts.ToleranceDays = toleranceDays
			}
			if flags.Changed("tolerance-amount") {
				opts.ToleranceAmount = decimal.NewFromFloat(toleranceAmount)
			}
			if flags.Changed("tolerance-hours") {
				opts.ToleranceHours = toleranceHours
			}
			if flags.Changed("min-confidence") {
				opts.MinConfidence = minConfidence
			}
			if flags.Changed("limit") {
				opts.Limit = limit
			}

			suggestions, err := f.fintrack.SuggestReconciliation(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, suggestions)
		},
	}

	cmd.Flags().IntVar(&toleranceDays, "tolerance-days", 3, "maximum days between the two sides of a transfer")
	cmd.Flags().Float64Var(&toleranceAmount, "tolerance-amount", 0.01, "allowed amount difference as a fraction of the amount")
	cmd.Flags().IntVar(&toleranceHours, "tolerance-hours", 24, "maximum hours between duplicates")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 70, "drop suggestions scoring below this")
	cmd.Flags().IntVar(&limit, "limit", 1000, "number of recent transactions to analyze")

	return cmd
}
