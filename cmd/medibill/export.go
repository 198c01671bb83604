package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/medibill/internal/db"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/export"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the bill ledger to a Parquet file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output Parquet path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or MEDIBILL_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	bills, err := store.NewPG(pool).AllBills(ctx)
	if err != nil {
		log.Error().Err(err).Msg("ledger query failed")
		os.Exit(exitcode.StoreError)
	}

	n, err := export.WriteBills(exportOut, bills)
	if err != nil {
		log.Error().Err(err).Str("out", exportOut).Msg("export failed")
		os.Exit(exitcode.ExportError)
	}

	fmt.Printf("Export complete: %d row(s) written to %s\n", n, exportOut)
	return nil
}
