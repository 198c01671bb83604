// Package store holds the persistence collaborators for the billing
// service: the patient directory (coverage plan lookup) and the
// append-only bill ledger.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gyeh/medibill/internal/billing"
)

// ErrPatientNotFound is returned by LookupCoveragePlan for unknown ids.
var ErrPatientNotFound = errors.New("patient not found")

// Patient is one patient directory record.
type Patient struct {
	ID            int
	FullName      string
	Age           int
	Plan          billing.CoveragePlan
	ContactNumber string
}

// BillRecord is one persisted ledger row. VisitDate uses the wire's
// YYYY-MM-DD form; the amount is stored as integer cents.
type BillRecord struct {
	BillID      int64
	PatientID   int
	VisitDate   string
	AmountCents int64
	CreatedAt   time.Time
}

// PlanDirectory resolves a patient's coverage plan.
type PlanDirectory interface {
	LookupCoveragePlan(ctx context.Context, patientID int) (billing.CoveragePlan, error)
}

// BillLedger is the append-only bill history. Appends are independent;
// duplicate submissions create duplicate rows by design.
type BillLedger interface {
	AppendBill(ctx context.Context, patientID int, visitDate string, amountCents int64) error
	BillHistory(ctx context.Context, patientID int) ([]BillRecord, error)
	AllBills(ctx context.Context) ([]BillRecord, error)
}

// Store combines the collaborators plus patient registration, which the
// seed tooling uses. Implementations must be safe for concurrent
// independent calls from connection handlers.
type Store interface {
	PlanDirectory
	BillLedger
	RegisterPatient(ctx context.Context, p Patient) error
}
