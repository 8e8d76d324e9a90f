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

package database

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/fintrack/fintrack/internal/apierror"
	"github.com/fintrack/fintrack/model"
)

// schedule carries the nullable scheduling columns shared by freelancers, services and debts.
type schedule struct {
	nextPaymentDate sql.NullTime
	paymentDay      sql.NullInt32
}

func (s schedule) next() *time.Time {
	if !s.nextPaymentDate.Valid {
		return nil
	}
	t := s.nextPaymentDate.Time
	return &t
}

func (s schedule) day() *int {
	if !s.paymentDay.Valid {
		return nil
	}
	day := int(s.paymentDay.Int32)
	return &day
}

func (d Datasource) ListActiveFreelancers(ctx context.Context) ([]model.Freelancer, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing active freelancers")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, payment_amount, frequency, next_payment_date, payment_day, status
		FROM fintrack.freelancers
		WHERE status = 'active'
		ORDER BY id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list freelancers", err)
	}
	defer rows.Close()

	freelancers := make([]model.Freelancer, 0)
	for rows.Next() {
		var (
			f model.Freelancer
			s schedule
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.PaymentAmount, &f.Frequency, &s.nextPaymentDate, &s.paymentDay, &f.Status); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan freelancer", err)
		}
		f.NextPaymentDate, f.PaymentDay = s.next(), s.day()
		freelancers = append(freelancers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating freelancers", err)
	}
	return freelancers, nil
}

func (d Datasource) ListActiveServices(ctx context.Context) ([]model.Service, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing active services")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, amount, frequency, next_payment_date, payment_day, status
		FROM fintrack.services
		WHERE status = 'active'
		ORDER BY id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list services", err)
	}
	defer rows.Close()

	services := make([]model.Service, 0)
	for rows.Next() {
		var (
			svc model.Service
			s   schedule
		)
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Amount, &svc.Frequency, &s.nextPaymentDate, &s.paymentDay, &svc.Status); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan service", err)
		}
		svc.NextPaymentDate, svc.PaymentDay = s.next(), s.day()
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating services", err)
	}
	return services, nil
}

func (d Datasource) ListActiveDebts(ctx context.Context) ([]model.Debt, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing active debts")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, monthly_payment, payment_frequency, next_payment_date, payment_day, status
		FROM fintrack.debts
		WHERE status = 'active'
		ORDER BY id
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list debts", err)
	}
	defer rows.Close()

	debts := make([]model.Debt, 0)
	for rows.Next() {
		var (
			debt model.Debt
			s    schedule
		)
		if err := rows.Scan(&debt.ID, &debt.Name, &debt.MonthlyPayment, &debt.PaymentFrequency, &s.nextPaymentDate, &s.paymentDay, &debt.Status); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan debt", err)
		}
		debt.NextPaymentDate, debt.PaymentDay = s.next(), s.day()
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating debts", err)
	}
	return debts, nil
}

// ListOpenPayables returns pending or partially paid payables due between from and to inclusive.
func (d Datasource) ListOpenPayables(ctx context.Context, from, to time.Time) ([]model.Payable, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing open payables")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, vendor, COALESCE(description, ''), amount, amount_paid, due_date, status
		FROM fintrack.payables
		WHERE status IN ('pending', 'partial') AND due_date BETWEEN $1 AND $2
		ORDER BY due_date, id
	`, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list payables", err)
	}
	defer rows.Close()

	payables := make([]model.Payable, 0)
	for rows.Next() {
		var p model.Payable
		if err := rows.Scan(&p.ID, &p.Vendor, &p.Description, &p.Amount, &p.AmountPaid, &p.DueDate, &p.Status); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan payable", err)
		}
		payables = append(payables, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating payables", err)
	}
	return payables, nil
}

// ListOpenReceivables returns pending or partially collected receivables due between from and to inclusive.
func (d Datasource) ListOpenReceivables(ctx context.Context, from, to time.Time) ([]model.Receivable, error) {
	ctx, span := otel.Tracer("fintrack.database").Start(ctx, "Listing open receivables")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, client, COALESCE(description, ''), amount, amount_paid, due_date, status
		FROM fintrack.receivables
		WHERE status IN ('pending', 'partial') AND due_date BETWEEN $1 AND $2
		ORDER BY due_date, id
	`, from, to)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to list receivables", err)
	}
	defer rows.Close()

	receivables := make([]model.Receivable, 0)
	for rows.Next() {
		var r model.Receivable
		if err := rows.Scan(&r.ID, &r.Client, &r.Description, &r.Amount, &r.AmountPaid, &r.DueDate, &r.Status); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan receivable", err)
		}
		receivables = append(receivables, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed while iterating receivables", err)
	}
	return receivables, nil
}
