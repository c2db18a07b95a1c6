package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/config"
	"github.com/ndewijer/stock-market-api/internal/logger"
)

// pgxDriverName is the name sqlx uses to pick "$n" placeholders.
const pgxDriverName = "pgx"

// Open opens a pooled connection to the configured database and verifies it.
func Open(ctx context.Context, cfg config.DatabaseConfig, logCfg config.LoggingConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = openSQLite(cfg.Path)
	case config.DriverPostgres:
		db, err = openPostgres(cfg, logCfg)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("driver", cfg.Driver).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Connected to database")

	return db, nil
}

func openSQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func openPostgres(cfg config.DatabaseConfig, logCfg config.LoggingConfig) (*sqlx.DB, error) {
	connConfig, err := pgx.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if logCfg.SQL {
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewPgxZerologAdapter(logger.NewQueryLogger(logCfg)),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Name).
		Str("user", cfg.User).
		Msg("Connecting to PostgreSQL...")

	return sqlx.NewDb(stdlib.OpenDB(*connConfig), pgxDriverName), nil
}

// PostgresDSN builds a connection URL from the individual DB_* settings.
func PostgresDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
