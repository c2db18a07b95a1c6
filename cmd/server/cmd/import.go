package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/stock-market-api/internal/snapshot"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load records from a .json or .parquet file",
		Long: `Insert every record of a .json or .parquet file into the database in a
single transaction. JSON files may hold a bare array or {"data": [...]}.

Examples:
  stockapi import stock_market_data.json
  stockapi import backup.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			recs, err := snapshot.ReadFile(path)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.stockService().ImportStockRecords(cmd.Context(), recs)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}

			log.Info().Str("path", path).Int("records", n).Msg("Import complete")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", n)
			return nil
		},
	}
}
