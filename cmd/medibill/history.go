package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/db"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/store"
)

var historyPatient int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the bill ledger for one patient",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyPatient, "patient", 0, "Patient id (required)")
	_ = historyCmd.MarkFlagRequired("patient")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	bills, err := store.NewPG(pool).BillHistory(ctx, historyPatient)
	if err != nil {
		log.Error().Err(err).Msg("bill history query failed")
		os.Exit(exitcode.StoreError)
	}

	if len(bills) == 0 {
		fmt.Printf("No bills recorded for patient %d\n", historyPatient)
		return nil
	}

	fmt.Printf("%-10s %-12s %12s\n", "BILL", "VISIT DATE", "AMOUNT OMR")
	var totalCents int64
	for _, b := range bills {
		fmt.Printf("%-10d %-12s %12s\n", b.BillID, b.VisitDate,
			billing.FormatAmount(billing.CentsToAmount(b.AmountCents)))
		totalCents += b.AmountCents
	}
	fmt.Printf("%d bill(s), total %s OMR\n", len(bills),
		billing.FormatAmount(billing.CentsToAmount(totalCents)))
	return nil
}
