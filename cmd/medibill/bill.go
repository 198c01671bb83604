package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/medibill/internal/client"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/wire"
)

var billFlags struct {
	addr     string
	patient  int
	date     string
	category string
	service  string
	timeout  time.Duration
}

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Submit one billing request to a running server",
	RunE:  runBill,
}

func init() {
	f := billCmd.Flags()
	f.StringVar(&billFlags.addr, "addr", "localhost:5000", "Server address")
	f.IntVar(&billFlags.patient, "patient", 0, "Patient id (required)")
	f.StringVar(&billFlags.date, "date", "", "Visit date YYYY-MM-DD (default today)")
	f.StringVar(&billFlags.category, "category", "", "Patient category: Outpatient, Inpatient or Emergency (required)")
	f.StringVar(&billFlags.service, "service", "", "Service code, e.g. MRI700 (required)")
	f.DurationVar(&billFlags.timeout, "timeout", 30*time.Second, "Exchange timeout")
	_ = billCmd.MarkFlagRequired("patient")
	_ = billCmd.MarkFlagRequired("category")
	_ = billCmd.MarkFlagRequired("service")
	rootCmd.AddCommand(billCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	date := billFlags.date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	c := &client.Client{Addr: billFlags.addr, Timeout: billFlags.timeout}
	breakdown, err := c.Submit(context.Background(), wire.Request{
		PatientID:   billFlags.patient,
		VisitDate:   date,
		Category:    billFlags.category,
		ServiceCode: billFlags.service,
	})

	var srvErr *wire.ServerError
	switch {
	case errors.As(err, &srvErr):
		log.Error().Str("reason", srvErr.Message).Msg("request rejected by server")
		os.Exit(exitcode.ServerError)
	case err != nil:
		log.Error().Err(err).Msg("billing request failed")
		os.Exit(exitcode.ServerError)
	}

	fmt.Println(breakdown.Receipt())
	return nil
}
