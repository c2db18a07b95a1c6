package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ndewijer/stock-market-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Apply the embedded migrations for the configured DB_DRIVER and exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db, cfg.Database.Driver); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			log.Info().Str("driver", cfg.Database.Driver).Msg("Migrations applied")
			return nil
		},
	}
}
