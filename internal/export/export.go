// Package export dumps the persisted bill ledger to a Parquet file for
// offline analytics.
package export

import (
	"fmt"
	"io"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/store"
)

// BillRow is the Parquet schema for one exported ledger row. Amounts are
// carried both as integer cents (exact) and OMR (convenient for
// downstream aggregation).
type BillRow struct {
	BillID        int64   `parquet:"bill_id"`
	PatientID     int32   `parquet:"patient_id"`
	VisitDate     string  `parquet:"visit_date"`
	AmountCents   int64   `parquet:"amount_cents"`
	AmountOMR     float64 `parquet:"amount_omr"`
	CreatedAtUnix int64   `parquet:"created_at_unix"`
}

// WriteBills writes the ledger rows to a Parquet file at path, replacing
// any existing file. Returns the number of rows written.
func WriteBills(path string, bills []store.BillRecord) (int, error) {
	rows := make([]BillRow, len(bills))
	for i, b := range bills {
		rows[i] = BillRow{
			BillID:        b.BillID,
			PatientID:     int32(b.PatientID),
			VisitDate:     b.VisitDate,
			AmountCents:   b.AmountCents,
			AmountOMR:     billing.CentsToAmount(b.AmountCents),
			CreatedAtUnix: b.CreatedAt.Unix(),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	writer := goparquet.NewGenericWriter[BillRow](f)
	if _, err := writer.Write(rows); err != nil {
		return 0, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	return len(rows), nil
}

// ReadBills reads an exported file back, mostly for verification.
func ReadBills(path string) ([]BillRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat export file: %w", err)
	}
	pf, err := goparquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := goparquet.NewGenericReader[BillRow](pf)
	defer reader.Close()

	rows := make([]BillRow, reader.NumRows())
	if len(rows) == 0 {
		return nil, nil
	}
	if _, err := reader.Read(rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows, nil
}
