package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gyeh/medibill/internal/billing"
)

func TestMemory_LookupCoveragePlan(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	plan, _ := billing.PlanByName("Standard")
	if err := m.RegisterPatient(ctx, Patient{ID: 11, FullName: "Aisha", Plan: plan}); err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}

	got, err := m.LookupCoveragePlan(ctx, 11)
	if err != nil {
		t.Fatalf("LookupCoveragePlan: %v", err)
	}
	if got != plan {
		t.Errorf("got plan %+v, want %+v", got, plan)
	}

	if _, err := m.LookupCoveragePlan(ctx, 99); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown id: got %v, want ErrPatientNotFound", err)
	}
}

func TestMemory_RegisterRejectsUnknownPlan(t *testing.T) {
	m := NewMemory()
	err := m.RegisterPatient(context.Background(), Patient{ID: 1, Plan: billing.CoveragePlan{Name: "Gold"}})
	if err == nil {
		t.Fatal("expected error for plan outside the closed enumeration")
	}
}

func TestMemory_AppendIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 3; i++ {
		if err := m.AppendBill(ctx, 11, "2026-02-01", 1200); err != nil {
			t.Fatalf("AppendBill: %v", err)
		}
	}

	bills, err := m.BillHistory(ctx, 11)
	if err != nil {
		t.Fatalf("BillHistory: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected 3 duplicate rows, got %d", len(bills))
	}
	ids := map[int64]bool{}
	for _, b := range bills {
		ids[b.BillID] = true
	}
	if len(ids) != 3 {
		t.Errorf("bill ids not unique: %v", bills)
	}
}

func TestMemory_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const n = 50
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			m.AppendBill(ctx, id, "2026-02-01", int64(id))
		}(i)
	}
	wg.Wait()

	bills, _ := m.AllBills(ctx)
	if len(bills) != n {
		t.Fatalf("expected %d rows, got %d", n, len(bills))
	}
	for _, b := range bills {
		if b.AmountCents != int64(b.PatientID) {
			t.Errorf("cross-contaminated row: %+v", b)
		}
	}
}
