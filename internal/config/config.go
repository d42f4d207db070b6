package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	AI      AIConfig
	Sheets  SheetsConfig
	Jobs    JobsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AIConfig holds settings for the external model providers. AnthropicKey may
// be empty; chat requests then fail with a configuration error rather than
// the server refusing to start.
type AIConfig struct {
	AnthropicKey string
	OpenAIKey    string
}

// SheetsConfig contains configuration for the optional snapshot export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// JobsConfig holds the cron expressions for the maintenance jobs.
type JobsConfig struct {
	ReconcileSchedule string
	ExportSchedule    string
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
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ranchhand"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
			OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Jobs: JobsConfig{
			ReconcileSchedule: getenvWithDefault("RECONCILE_CRON_SCHEDULE", "*/30 * * * *"),
			ExportSchedule:    getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 20 * * *"),
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

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Jobs.ReconcileSchedule == "" {
		return errors.New("RECONCILE_CRON_SCHEDULE must be provided")
	}
	if c.Jobs.ExportSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}

	// Sheets export is optional but must be fully configured when enabled.
	if c.SheetsEnabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_EXPORT_ID is set")
	}

	return nil
}

// SheetsEnabled reports whether the snapshot export should run.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
