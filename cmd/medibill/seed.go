package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/db"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register patients in the directory",
	Long:  "Registers the reference patient set, or the patients listed in a YAML file, into the Postgres patient directory. Existing ids are updated.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML file with patients to register (default: built-in reference set)")
	rootCmd.AddCommand(seedCmd)
}

// referencePatients is the built-in demo patient set, one per plan tier
// plus two extras for concurrency testing.
func referencePatients() []store.Patient {
	mustPlan := func(name string) billing.CoveragePlan {
		p, _ := billing.PlanByName(name)
		return p
	}
	return []store.Patient{
		{ID: 101, FullName: "Ahmed Al Balushi", Age: 34, Plan: mustPlan("Premium"), ContactNumber: "91234567"},
		{ID: 102, FullName: "Fatima Al Harthy", Age: 29, Plan: mustPlan("Standard"), ContactNumber: "92345678"},
		{ID: 103, FullName: "Salim Al Busaidi", Age: 52, Plan: mustPlan("Basic"), ContactNumber: "93456789"},
		{ID: 104, FullName: "Maryam Al Zadjali", Age: 41, Plan: mustPlan("Premium"), ContactNumber: "94567890"},
		{ID: 105, FullName: "Khalid Al Rashdi", Age: 63, Plan: mustPlan("Standard"), ContactNumber: "95678901"},
	}
}

// yamlPatient is the --file entry structure.
type yamlPatient struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Age     int    `yaml:"age"`
	Plan    string `yaml:"plan"`
	Contact string `yaml:"contact"`
}

func loadPatientFile(path string) ([]store.Patient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patient file: %w", err)
	}
	var doc struct {
		Patients []yamlPatient `yaml:"patients"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse patient file: %w", err)
	}

	patients := make([]store.Patient, 0, len(doc.Patients))
	for _, yp := range doc.Patients {
		if yp.ID <= 0 {
			return nil, fmt.Errorf("patient %q: id must be positive", yp.Name)
		}
		plan, ok := billing.PlanByName(yp.Plan)
		if !ok {
			return nil, fmt.Errorf("patient %d: unknown plan %q", yp.ID, yp.Plan)
		}
		patients = append(patients, store.Patient{
			ID:            yp.ID,
			FullName:      yp.Name,
			Age:           yp.Age,
			Plan:          plan,
			ContactNumber: yp.Contact,
		})
	}
	return patients, nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or MEDIBILL_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	patients := referencePatients()
	if seedFile != "" {
		var err error
		patients, err = loadPatientFile(seedFile)
		if err != nil {
			log.Error().Err(err).Msg("patient file invalid")
			os.Exit(exitcode.ConfigError)
		}
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	s := store.NewPG(pool)
	for _, p := range patients {
		if err := s.RegisterPatient(ctx, p); err != nil {
			log.Error().Err(err).Int("patient_id", p.ID).Msg("register failed")
			os.Exit(exitcode.StoreError)
		}
		log.Info().Int("patient_id", p.ID).Str("plan", p.Plan.Name).Msg("patient registered")
	}

	fmt.Printf("Seed complete: %d patient(s) registered\n", len(patients))
	return nil
}
