package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/medibill/internal/billing"
	embedsql "github.com/gyeh/medibill/internal/sql"
)

// PG is the Postgres-backed Store. The underlying pool is owned by the
// caller; Close it there.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG wraps an existing pool.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) LookupCoveragePlan(ctx context.Context, patientID int) (billing.CoveragePlan, error) {
	var planName string
	err := s.pool.QueryRow(ctx, embedsql.LookupPlan, patientID).Scan(&planName)
	if errors.Is(err, pgx.ErrNoRows) {
		return billing.CoveragePlan{}, ErrPatientNotFound
	}
	if err != nil {
		return billing.CoveragePlan{}, fmt.Errorf("lookup coverage plan for patient %d: %w", patientID, err)
	}

	plan, ok := billing.PlanByName(planName)
	if !ok {
		return billing.CoveragePlan{}, fmt.Errorf("patient %d has unrecognized plan %q", patientID, planName)
	}
	return plan, nil
}

func (s *PG) AppendBill(ctx context.Context, patientID int, visitDate string, amountCents int64) error {
	if _, err := s.pool.Exec(ctx, embedsql.InsertBill, patientID, visitDate, amountCents); err != nil {
		return fmt.Errorf("append bill for patient %d: %w", patientID, err)
	}
	return nil
}

func (s *PG) RegisterPatient(ctx context.Context, p Patient) error {
	if _, ok := billing.PlanByName(p.Plan.Name); !ok {
		return fmt.Errorf("register patient %d: unknown coverage plan %q", p.ID, p.Plan.Name)
	}
	_, err := s.pool.Exec(ctx, embedsql.UpsertPatient,
		p.ID, p.FullName, p.Age, p.Plan.Name, p.ContactNumber)
	if err != nil {
		return fmt.Errorf("register patient %d: %w", p.ID, err)
	}
	return nil
}

func (s *PG) BillHistory(ctx context.Context, patientID int) ([]BillRecord, error) {
	rows, err := s.pool.Query(ctx, embedsql.BillsByPatient, patientID)
	if err != nil {
		return nil, fmt.Errorf("bill history for patient %d: %w", patientID, err)
	}
	defer rows.Close()
	return scanBills(rows)
}

func (s *PG) AllBills(ctx context.Context) ([]BillRecord, error) {
	rows, err := s.pool.Query(ctx, embedsql.AllBills)
	if err != nil {
		return nil, fmt.Errorf("list all bills: %w", err)
	}
	defer rows.Close()
	return scanBills(rows)
}

func scanBills(rows pgx.Rows) ([]BillRecord, error) {
	var out []BillRecord
	for rows.Next() {
		var b BillRecord
		if err := rows.Scan(&b.BillID, &b.PatientID, &b.VisitDate, &b.AmountCents, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bill row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bill rows: %w", err)
	}
	return out, nil
}
