package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported durable storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
	DriverRedis   = "redis"
	DriverMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Store   StoreConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Backup  BackupConfig
	Sheets  SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the durable key-value medium.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds settings for Redis.
type RedisConfig struct {
	Addr      string
	KeyPrefix string
}

// BackupConfig holds scheduled backup settings. An empty schedule disables the job.
type BackupConfig struct {
	CronSchedule string
	Dir          string
	Timezone     string
}

// SheetsConfig contains configuration required to mirror the CSV report to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
	CronSchedule    string
}

// Enabled reports whether the Sheets sync job should run.
func (c SheetsConfig) Enabled() bool {
	return c.CronSchedule != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getenvWithDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenvWithDefault("LOG_FORMAT", "json")),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getenvWithDefault("STORE_DRIVER", DriverSQLite)),
			SQLitePath: getenvWithDefault("SQLITE_PATH", "serialpro.db"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "serialpro"),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			KeyPrefix: getenvWithDefault("REDIS_KEY_PREFIX", "serialpro:"),
		},
		Backup: BackupConfig{
			CronSchedule: os.Getenv("BACKUP_CRON_SCHEDULE"),
			Dir:          getenvWithDefault("BACKUP_DIR", "./backups"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Seoul"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("SHEETS_RANGE", "Serials!A:H"),
			CronSchedule:    os.Getenv("SHEETS_SYNC_CRON_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH must be provided")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR must be provided")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Backup.CronSchedule != "" && c.Backup.Dir == "" {
		return errors.New("BACKUP_DIR must be provided when BACKUP_CRON_SCHEDULE is set")
	}

	if _, err := time.LoadLocation(c.Backup.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Backup.Timezone, err)
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if c.Sheets.Range == "" {
			return errors.New("SHEETS_RANGE must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
