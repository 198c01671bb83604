package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/db"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/store"
)

const (
	testPort     = 15433
	testDB       = "medibilltest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	if os.Getenv("MEDIBILL_SKIP_PG_TESTS") != "" {
		fmt.Fprintln(os.Stderr, "SKIP: MEDIBILL_SKIP_PG_TESTS is set")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupPG creates a pool against a clean schema and applies migrations.
func setupPG(t *testing.T) *store.PG {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS medibill CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, logging.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return store.NewPG(pool)
}

func registerTestPatient(t *testing.T, s *store.PG, id int, planName string) {
	t.Helper()
	plan, ok := billing.PlanByName(planName)
	if !ok {
		t.Fatalf("plan %q not found", planName)
	}
	err := s.RegisterPatient(context.Background(), store.Patient{
		ID:            id,
		FullName:      fmt.Sprintf("Test Patient %d", id),
		Age:           35,
		Plan:          plan,
		ContactNumber: "99887766",
	})
	if err != nil {
		t.Fatalf("register patient %d: %v", id, err)
	}
}

func TestPG_LookupCoveragePlan(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	registerTestPatient(t, s, 101, "Premium")

	plan, err := s.LookupCoveragePlan(ctx, 101)
	if err != nil {
		t.Fatalf("LookupCoveragePlan: %v", err)
	}
	if plan.Name != "Premium" || plan.DiscountRate != 0.15 {
		t.Errorf("unexpected plan: %+v", plan)
	}

	if _, err := s.LookupCoveragePlan(ctx, 404); !errors.Is(err, store.ErrPatientNotFound) {
		t.Errorf("unknown patient: got %v, want ErrPatientNotFound", err)
	}
}

func TestPG_RegisterPatient_Upsert(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	registerTestPatient(t, s, 102, "Basic")
	registerTestPatient(t, s, 102, "Standard") // re-register moves the plan

	plan, err := s.LookupCoveragePlan(ctx, 102)
	if err != nil {
		t.Fatalf("LookupCoveragePlan: %v", err)
	}
	if plan.Name != "Standard" {
		t.Errorf("plan after upsert: got %s, want Standard", plan.Name)
	}
}

func TestPG_AppendBillAndHistory(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	registerTestPatient(t, s, 103, "Standard")

	// Duplicates are independent appended rows.
	for i := 0; i < 2; i++ {
		if err := s.AppendBill(ctx, 103, "2026-03-15", 1725); err != nil {
			t.Fatalf("AppendBill: %v", err)
		}
	}
	if err := s.AppendBill(ctx, 103, "2026-04-01", 0); err != nil {
		t.Fatalf("AppendBill zero amount: %v", err)
	}

	bills, err := s.BillHistory(ctx, 103)
	if err != nil {
		t.Fatalf("BillHistory: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(bills))
	}
	if bills[0].VisitDate != "2026-03-15" || bills[0].AmountCents != 1725 {
		t.Errorf("first row: %+v", bills[0])
	}
	if bills[2].VisitDate != "2026-04-01" || bills[2].AmountCents != 0 {
		t.Errorf("third row: %+v", bills[2])
	}
	for _, b := range bills {
		if b.PatientID != 103 {
			t.Errorf("row for wrong patient: %+v", b)
		}
		if b.CreatedAt.IsZero() {
			t.Errorf("row missing created_at: %+v", b)
		}
	}
}

func TestPG_BillHistory_IsolatedByPatient(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	registerTestPatient(t, s, 201, "Premium")
	registerTestPatient(t, s, 202, "Basic")

	s.AppendBill(ctx, 201, "2026-01-01", 100)
	s.AppendBill(ctx, 202, "2026-01-02", 200)

	bills, err := s.BillHistory(ctx, 201)
	if err != nil {
		t.Fatalf("BillHistory: %v", err)
	}
	if len(bills) != 1 || bills[0].AmountCents != 100 {
		t.Errorf("history leaked across patients: %+v", bills)
	}

	all, err := s.AllBills(ctx)
	if err != nil {
		t.Fatalf("AllBills: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("AllBills: got %d rows, want 2", len(all))
	}
}

func TestPG_ConcurrentAppends(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	const n = 20
	for i := 1; i <= n; i++ {
		registerTestPatient(t, s, 300+i, "Basic")
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := s.AppendBill(ctx, 300+id, "2026-05-01", int64(id*100)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	all, err := s.AllBills(ctx)
	if err != nil {
		t.Fatalf("AllBills: %v", err)
	}
	if len(all) != n {
		t.Fatalf("expected %d rows, got %d", n, len(all))
	}
	for _, b := range all {
		if b.AmountCents != int64((b.PatientID-300)*100) {
			t.Errorf("cross-contaminated row: %+v", b)
		}
	}
}

func TestPG_MigrationsIdempotent(t *testing.T) {
	s := setupPG(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Second application must be a no-op, not an error.
	if err := db.ApplyMigrations(ctx, pool, logging.Nop()); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	registerTestPatient(t, s, 501, "Premium")
	if _, err := s.LookupCoveragePlan(ctx, 501); err != nil {
		t.Errorf("lookup after re-migration: %v", err)
	}
}
