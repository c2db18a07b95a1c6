package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations for the given driver.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) error {
	var (
		dialect goose.Dialect
		dir     string
	)

	switch driver {
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, driver)
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("Applied migration")
	}

	return nil
}
