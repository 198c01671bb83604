package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/medibill/internal/config"
	"github.com/gyeh/medibill/internal/db"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/logging"
	"github.com/gyeh/medibill/internal/server"
	"github.com/gyeh/medibill/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the billing server",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", "", "TCP listen address (default :5000)")
	f.StringVar(&cfg.StoreKind, "store", "", "Backing store: postgres or memory (default postgres)")
	f.DurationVar(&cfg.IOTimeout, "io-timeout", 0, "Per-connection I/O deadline (default 30s)")
	f.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 0, "Grace period for in-flight handlers on shutdown (default 10s)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.StoreKind {
	case config.StoreMemory:
		mem := store.NewMemory()
		for _, p := range referencePatients() {
			if err := mem.RegisterPatient(ctx, p); err != nil {
				log.Error().Err(err).Msg("seed memory store failed")
				os.Exit(exitcode.StoreError)
			}
		}
		log.Warn().Msg("using in-memory store: bills are lost on exit")
		st = mem
	default:
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		st = store.NewPG(pool)
		log.Info().Msg("database connection verified")
	}

	srv := server.New(st, log, cfg.IOTimeout)

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, cfg.ListenAddr)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			os.Exit(exitcode.ServerError)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, draining connections")
		select {
		case err := <-done:
			if err != nil {
				log.Error().Err(err).Msg("server failed during drain")
				os.Exit(exitcode.ServerError)
			}
		case <-time.After(cfg.ShutdownTimeout):
			log.Warn().Msg("in-flight handlers did not finish in time, exiting")
		}
	}
	return nil
}
