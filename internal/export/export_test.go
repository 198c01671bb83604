package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gyeh/medibill/internal/store"
)

func TestWriteBills_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.parquet")
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	bills := []store.BillRecord{
		{BillID: 1, PatientID: 101, VisitDate: "2026-03-15", AmountCents: 14800, CreatedAt: now},
		{BillID: 2, PatientID: 102, VisitDate: "2026-03-16", AmountCents: 0, CreatedAt: now},
		{BillID: 3, PatientID: 101, VisitDate: "2026-03-15", AmountCents: 14800, CreatedAt: now},
	}

	n, err := WriteBills(path, bills)
	if err != nil {
		t.Fatalf("WriteBills: %v", err)
	}
	if n != len(bills) {
		t.Fatalf("wrote %d rows, want %d", n, len(bills))
	}

	rows, err := ReadBills(path)
	if err != nil {
		t.Fatalf("ReadBills: %v", err)
	}
	if len(rows) != len(bills) {
		t.Fatalf("read %d rows, want %d", len(rows), len(bills))
	}
	for i, row := range rows {
		src := bills[i]
		if row.BillID != src.BillID || int(row.PatientID) != src.PatientID ||
			row.VisitDate != src.VisitDate || row.AmountCents != src.AmountCents {
			t.Errorf("row %d mismatch: %+v vs %+v", i, row, src)
		}
		if row.CreatedAtUnix != now.Unix() {
			t.Errorf("row %d created_at: got %d, want %d", i, row.CreatedAtUnix, now.Unix())
		}
	}
	if rows[0].AmountOMR != 148.0 {
		t.Errorf("amount_omr: got %v, want 148.0", rows[0].AmountOMR)
	}
}

func TestWriteBills_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	n, err := WriteBills(path, nil)
	if err != nil {
		t.Fatalf("WriteBills: %v", err)
	}
	if n != 0 {
		t.Fatalf("wrote %d rows, want 0", n)
	}
	rows, err := ReadBills(path)
	if err != nil {
		t.Fatalf("ReadBills: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("read %d rows from empty export", len(rows))
	}
}
