package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/config"
	"github.com/ndewijer/stock-market-api/internal/database"
	"github.com/ndewijer/stock-market-api/internal/logger"
	"github.com/ndewijer/stock-market-api/internal/repository"
	"github.com/ndewijer/stock-market-api/internal/service"
)

// app holds what every command needs: configuration and the open data source.
type app struct {
	cfg   *config.Config
	db    *sqlx.DB // nil for the static source
	store repository.StockStore
}

// loadConfig reads configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// newApp loads configuration and opens the configured source. Database
// sources are migrated first when DB_AUTO_MIGRATE is set.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.Source.Kind {
	case config.SourceStatic:
		store, err := repository.LoadStaticStockRepository(cfg.Source.StaticPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Source.StaticPath).Msg("Loaded static stock data")
		return &app{cfg: cfg, store: store}, nil

	case config.SourceDatabase:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db, cfg.Database.Driver); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		return &app{cfg: cfg, db: db, store: repository.NewSQLStockRepository(db)}, nil

	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedSource, cfg.Source.Kind)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(ctx, cfg.Database, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (a *app) stockService() *service.StockService {
	return service.NewStockService(a.store)
}

func (a *app) systemService() *service.SystemService {
	return service.NewSystemService(a.store, a.cfg.Source.Kind)
}

// Close releases the database connection, if any.
func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database")
	}
}
