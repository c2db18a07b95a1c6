// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ndewijer/stock-market-api/internal/config"
)

// ServiceName is attached to every log line.
const ServiceName = "stock-market-api"

// Init initializes the global logger
func Init(cfg config.LoggingConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer

	if cfg.Format == "pretty" {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	} else {
		writers = append(writers, os.Stderr)
	}

	if cfg.FileEnabled {
		if err := os.MkdirAll(cfg.FilePath, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		writers = append(writers, rotatingFile(cfg, "app.log", 10))

		// ERROR and above only
		writers = append(writers, &errorLevelWriter{
			LevelWriter: zerolog.LevelWriterAdapter{Writer: rotatingFile(cfg, "error.log", 10)},
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	// log.Ctx falls back to the global logger outside of HTTP requests.
	zerolog.DefaultContextLogger = &log.Logger

	log.Info().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Bool("file_enabled", cfg.FileEnabled).
		Msg("Logger initialized")

	return nil
}

// NewQueryLogger returns a logger for SQL tracing. It writes to query.log when
// file logging is enabled and to the global logger otherwise.
func NewQueryLogger(cfg config.LoggingConfig) zerolog.Logger {
	if !cfg.FileEnabled {
		return log.Logger.With().Str("type", "query").Logger()
	}

	if err := os.MkdirAll(cfg.FilePath, 0o755); err != nil {
		log.Warn().Err(err).Msg("Failed to create query log directory, using default logger")
		return log.Logger
	}

	return zerolog.New(rotatingFile(cfg, "query.log", 5)).With().
		Timestamp().
		Str("type", "query").
		Logger()
}

func rotatingFile(cfg config.LoggingConfig, name string, backups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FilePath, name),
		MaxSize:    cfg.RotationSize,
		MaxAge:     cfg.RetentionDays,
		MaxBackups: backups,
		Compress:   true,
	}
}

// errorLevelWriter drops events below error level.
type errorLevelWriter struct {
	zerolog.LevelWriter
}

func (w *errorLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.ErrorLevel {
		return len(p), nil
	}
	return w.LevelWriter.WriteLevel(level, p)
}
