// Package cmd holds the stockapi CLI commands.
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the stockapi command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "stockapi",
		Short: "Stock market data API",
		Long: `Stock market data API

Serves daily OHLC and volume records over HTTP from a SQL database or a
static JSON document.

Commands:
    serve      Run the HTTP API (default)
    migrate    Apply database migrations
    import     Load records from a .json or .parquet file
    export     Write all records to a .json or .parquet file
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			// Variables already set in the environment win.
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
			return nil
		},
		RunE: runServe,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading configuration (default .env)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
