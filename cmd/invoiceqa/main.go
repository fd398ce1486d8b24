// Package main implements the invoiceqa CLI: an interactive invoice
// question-answering shell plus maintenance commands for the local index.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/invoiceqa/internal/config"
	"github.com/fyrsmithlabs/invoiceqa/internal/logging"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "invoiceqa",
	Short: "Ask questions about your invoices",
	Long: `invoiceqa answers natural-language questions about invoice records.

It retrieves relevant invoices from a search index and synthesizes answers
with a language model, either through a one-shot retrieval pipeline or a
tool-using agent with conversation memory.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadEnvironment loads .env if present, then builds the effective config
// and a logger from it.
func loadEnvironment() (*config.Config, *logging.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger, err := logging.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// checkCmd reports whether the required environment is in place.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that required environment variables are set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		keys := config.RequiredKeys(cfg)
		presence := config.Presence(keys, config.EnvLookup)
		for _, key := range keys {
			mark := "missing"
			if presence[key] {
				mark = "ok"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", key, mark)
		}
		if !config.AllPresent(presence) {
			return fmt.Errorf("missing required environment variables")
		}
		return nil
	},
}
