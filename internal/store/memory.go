package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gyeh/medibill/internal/billing"
)

// Memory is an in-process Store for tests and the --store memory demo
// mode. A single mutex guards both tables; contention is irrelevant at
// that scale.
type Memory struct {
	mu       sync.Mutex
	patients map[int]Patient
	bills    []BillRecord
	nextBill int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{patients: make(map[int]Patient), nextBill: 1}
}

func (m *Memory) RegisterPatient(ctx context.Context, p Patient) error {
	if _, ok := billing.PlanByName(p.Plan.Name); !ok {
		return fmt.Errorf("register patient %d: unknown coverage plan %q", p.ID, p.Plan.Name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients[p.ID] = p
	return nil
}

func (m *Memory) LookupCoveragePlan(ctx context.Context, patientID int) (billing.CoveragePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[patientID]
	if !ok {
		return billing.CoveragePlan{}, ErrPatientNotFound
	}
	return p.Plan, nil
}

func (m *Memory) AppendBill(ctx context.Context, patientID int, visitDate string, amountCents int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills = append(m.bills, BillRecord{
		BillID:      m.nextBill,
		PatientID:   patientID,
		VisitDate:   visitDate,
		AmountCents: amountCents,
		CreatedAt:   time.Now().UTC(),
	})
	m.nextBill++
	return nil
}

func (m *Memory) BillHistory(ctx context.Context, patientID int) ([]BillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []BillRecord
	for _, b := range m.bills {
		if b.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) AllBills(ctx context.Context) ([]BillRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BillRecord, len(m.bills))
	copy(out, m.bills)
	return out, nil
}
