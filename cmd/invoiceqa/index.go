package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/invoiceqa/internal/invoice"
	"github.com/fyrsmithlabs/invoiceqa/internal/search"
)

var indexCmd = &cobra.Command{
	Use:   "index <records.json>",
	Short: "Load invoice records into the local search index",
	Long: `Load invoice records from a JSON file into the local index.

The file must contain a JSON array of objects. Each object is one invoice
record; a "content" field is indexed verbatim, otherwise the indexed text
is built from the known invoice fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	var records []invoice.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s", args[0])
	}

	backend, err := search.NewBackend(cfg, nil, logger.Underlying())
	if err != nil {
		return fmt.Errorf("creating search backend: %w", err)
	}
	indexer, ok := backend.(search.Indexer)
	if !ok {
		return fmt.Errorf("search provider %q does not support local indexing", cfg.Search.Provider)
	}

	ids, err := indexer.Index(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("indexing records: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d records\n", len(ids))
	return nil
}
