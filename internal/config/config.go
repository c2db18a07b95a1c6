package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
)

// Data source kinds selectable through DATA_SOURCE.
const (
	SourceDatabase = "database"
	SourceStatic   = "static"
)

// Database drivers selectable through DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Host           string
	Addr           string // Combined host:port for convenience
	RequestTimeout time.Duration
}

// SourceConfig selects where stock records are read from
type SourceConfig struct {
	Kind       string
	StaticPath string
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver string
	Path   string // sqlite only

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	StatsSchedule   string // cron schedule, empty disables pool stats logging
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level         string
	Format        string
	FileEnabled   bool
	FilePath      string
	RotationSize  int // MB
	RetentionDays int
	SQL           bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	password, err := databasePassword()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8000"),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			RequestTimeout: getEnvDuration("SERVER_REQUEST_TIMEOUT", 15*time.Second),
		},
		Source: SourceConfig{
			Kind:       strings.ToLower(getEnv("DATA_SOURCE", SourceDatabase)),
			StaticPath: getEnv("STATIC_DATA_PATH", "stock_market_data.json"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:            getEnv("DB_PATH", "./data/stock_market.db"),
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", ""),
			Password:        password,
			Name:            getEnv("DB_NAME", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
			StatsSchedule:   getEnv("DB_STATS_SCHEDULE", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Logging: LoggingConfig{
			Level:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
			FileEnabled:   getEnvBool("LOG_FILE_ENABLED", false),
			FilePath:      getEnv("LOG_FILE_PATH", "./logs"),
			RotationSize:  getEnvInt("LOG_ROTATION_SIZE_MB", 100),
			RetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
			SQL:           getEnvBool("LOG_SQL", false),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the selected source and driver are usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceStatic:
		if c.Source.StaticPath == "" {
			return fmt.Errorf("STATIC_DATA_PATH is required when DATA_SOURCE=%s", SourceStatic)
		}
		return nil
	case SourceDatabase:
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedSource, c.Source.Kind)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required when DB_DRIVER=%s", DriverSQLite)
		}
	case DriverPostgres:
		var missing []string
		if c.Database.Host == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.Database.User == "" {
			missing = append(missing, "DB_USER")
		}
		if c.Database.Name == "" {
			missing = append(missing, "DB_NAME")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required settings for DB_DRIVER=%s: %s", DriverPostgres, strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, c.Database.Driver)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("SERVER_REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// databasePassword returns DB_PASSWORD, or decrypts DB_PASSWORD_ENCRYPTED with
// the fernet key in ENCRYPTION_KEY when set.
func databasePassword() (string, error) {
	token := os.Getenv("DB_PASSWORD_ENCRYPTED")
	if token == "" {
		return os.Getenv("DB_PASSWORD"), nil
	}

	key := os.Getenv("ENCRYPTION_KEY")
	if key == "" {
		return "", fmt.Errorf("ENCRYPTION_KEY is required when DB_PASSWORD_ENCRYPTED is set")
	}

	keys, err := fernet.DecodeKeys(key)
	if err != nil {
		return "", fmt.Errorf("failed to decode ENCRYPTION_KEY: %w", err)
	}

	// A negative ttl disables the token age check.
	plain := fernet.VerifyAndDecrypt([]byte(token), -1, keys)
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt DB_PASSWORD_ENCRYPTED")
	}

	return string(plain), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
