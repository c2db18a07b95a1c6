package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/stock-market-api/internal/snapshot"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all records to a .json or .parquet file",
		Long: `Read every record from the configured source and write it to a file.
Parquet output is Snappy-compressed.

Examples:
  stockapi export backup.parquet
  stockapi export stock_market_data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if _, err := snapshot.Format(path); err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.stockService().AllStockRecords(cmd.Context())
			if err != nil {
				return err
			}

			if err := snapshot.WriteFile(path, recs); err != nil {
				return fmt.Errorf("failed to export %s: %w", path, err)
			}

			log.Info().Str("path", path).Int("records", len(recs)).Msg("Export complete")
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records\n", len(recs))
			return nil
		},
	}
}
