package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/medibill/internal/config"
	"github.com/gyeh/medibill/internal/exitcode"
	"github.com/gyeh/medibill/internal/logging"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "medibill",
	Short: "MediCare Oman encounter billing service",
	Long:  "TCP billing service that prices medical encounters: resolves the patient's coverage plan, applies the discount/surcharge pipeline, persists the bill, and returns an itemized breakdown.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log := logging.Setup(cfg.LogFormat)
		if err := loadConfig(); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.ConfigError)
		}
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			os.Exit(exitcode.UsageError)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("MEDIBILL_DB_URL"), "Postgres connection string (or set MEDIBILL_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Path to YAML config file")
}

// loadConfig merges the optional config file and fills defaults. Flags
// set explicitly win over file values.
func loadConfig() error {
	if cfgFile != "" {
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			return err
		}
	}
	cfg.ApplyDefaults()
	return nil
}
