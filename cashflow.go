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

package fintrack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/internal/apierror"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/cashflow"
	"github.com/fintrack/fintrack/internal/notification"
	"github.com/fintrack/fintrack/model"
)

const (
	defaultProjectionTTL = 5 * time.Minute
	alertTimeout         = 10 * time.Second
)

// DefaultProjectionOptions returns the configured projection defaults, falling back to the
// built-in ones when no configuration is loaded.
func DefaultProjectionOptions() model.ProjectionOptions {
	cfg, err := config.Fetch()
	if err != nil {
		return config.ProjectionConfig{}.ProjectionDefaults()
	}
	return cfg.Projection.ProjectionDefaults()
}

func projectionTTL() time.Duration {
	cfg, err := config.Fetch()
	if err != nil || cfg.Projection.CacheTTLSeconds <= 0 {
		return defaultProjectionTTL
	}
	return time.Duration(cfg.Projection.CacheTTLSeconds) * time.Second
}

func projectionCacheKey(today time.Time, opts model.ProjectionOptions) string {
	return fmt.Sprintf("cashflow:projection:%s:%d:%s:%t:%d",
		today.Format(time.DateOnly), opts.Days, opts.Scenario, opts.IncludeHistorical, opts.HistoricalDays)
}

// ProjectCashFlow simulates the balance of all active accounts from today over opts.Days days.
// Horizons beyond a year are clamped. Results are cached per day and option set.
func (f *Fintrack) ProjectCashFlow(ctx context.Context, opts model.ProjectionOptions) (*model.CashFlowProjection, error) {
	ctx, span := otel.Tracer("fintrack.cashflow").Start(ctx, "Project cash flow")
	defer span.End()

	scenario, err := cashflow.ParseScenario(opts.Scenario)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "scenario must be optimistic, realistic or pessimistic", err)
	}
	if opts.HistoricalDays < 0 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "historical_days must not be negative", nil)
	}
	opts.Scenario = scenario.String()
	opts.Days = cashflow.ClampDays(opts.Days)
	if opts.IncludeHistorical && opts.HistoricalDays == 0 {
		opts.HistoricalDays = cashflow.DefaultHistoricalDays
	}
	if !opts.IncludeHistorical {
		opts.HistoricalDays = 0
	}

	today := f.today()
	key := projectionCacheKey(today, opts)
	span.SetAttributes(attribute.String("projection.cache_key", key))

	if f.cache != nil {
		var cached model.CashFlowProjection
		err := f.cache.Get(ctx, key, &cached)
		if err == nil {
			span.SetAttributes(attribute.Bool("projection.cache_hit", true))
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logrus.WithError(err).Warn("projection cache read failed")
		}
	}

	input, err := f.projectionInput(ctx, today, scenario, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	projection := cashflow.Project(input)
	projection.GeneratedAt = f.now().UTC()

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, projection, projectionTTL()); err != nil {
			logrus.WithError(err).Warn("projection cache write failed")
		}
	}

	logrus.WithFields(logrus.Fields{
		"days":          opts.Days,
		"scenario":      opts.Scenario,
		"historical":    opts.IncludeHistorical,
		"critical_days": len(projection.Summary.CriticalDays),
		"final_balance": projection.Summary.FinalBalance.String(),
	}).Info("cash flow projected")

	if projection.HasCriticalDays() {
		alerted := projection
		f.sendCriticalAlert(&alerted)
	}

	return &projection, nil
}

// projectionInput loads the starting balance, obligations and history a projection needs.
func (f *Fintrack) projectionInput(ctx context.Context, today time.Time, scenario cashflow.Scenario, opts model.ProjectionOptions) (cashflow.Input, error) {
	end := today.AddDate(0, 0, opts.Days)
	input := cashflow.Input{Today: today, Days: opts.Days, Scenario: scenario}

	accounts, err := f.datasource.ListActiveAccounts(ctx)
	if err != nil {
		return input, err
	}
	input.StartingBalance = model.TotalBalance(accounts)

	var obligations cashflow.Obligations
	if obligations.Freelancers, err = f.datasource.ListActiveFreelancers(ctx); err != nil {
		return input, err
	}
	if obligations.Services, err = f.datasource.ListActiveServices(ctx); err != nil {
		return input, err
	}
	if obligations.Debts, err = f.datasource.ListActiveDebts(ctx); err != nil {
		return input, err
	}
	if obligations.Payables, err = f.datasource.ListOpenPayables(ctx, today, end); err != nil {
		return input, err
	}
	if obligations.Receivables, err = f.datasource.ListOpenReceivables(ctx, today, end); err != nil {
		return input, err
	}
	input.Occurrences = cashflow.BuildOccurrences(today, end, scenario, obligations)

	if opts.IncludeHistorical {
		from := today.AddDate(0, 0, -opts.HistoricalDays)
		to := today.AddDate(0, 0, -1)
		history, err := f.datasource.ListTransactions(ctx, model.TransactionFilter{From: from, To: to})
		if err != nil {
			return input, err
		}
		input.Historical = cashflow.AverageDaily(history, from, to)
	}

	return input, nil
}

// sendCriticalAlert notifies about projected negative balances without holding up the response.
func (f *Fintrack) sendCriticalAlert(projection *model.CashFlowProjection) {
	if f.alert == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		err := f.alert(ctx, projection)
		if err != nil && !errors.Is(err, notification.ErrNoWebhook) {
			logrus.WithError(err).Warn("failed to send critical balance alert")
		}
	}()
}
