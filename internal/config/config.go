package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage backends for player statistics
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// History backends for the round archive
const (
	HistoryNone          = "none"
	HistoryMemory        = "memory"
	HistorySQLite        = "sqlite"
	HistoryElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"` // "development" or "production"
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Resource paths
	DataDir   string `envconfig:"DATA_DIR" default:"data"`
	StatsFile string `envconfig:"STATS_FILE" default:"leaderboard.json"`
	DBPath    string `envconfig:"DB_PATH" default:"palace.db"`
	RulesFile string `envconfig:"RULES_FILE" default:"rules.hcl"`

	// Backends
	StorageType string `envconfig:"STORAGE_TYPE" default:"file"`
	HistoryType string `envconfig:"HISTORY_TYPE" default:"none"`

	// Seed fixes the shuffle for reproducible sessions; zero seeds from the clock
	Seed uint64 `envconfig:"SEED" default:"0"`

	Elasticsearch struct {
		URL      string `envconfig:"URL"`
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
		Index    string `envconfig:"INDEX" default:"palace_rounds"`
	} `envconfig:"ELASTICSEARCH"`
}

// Load reads the configuration from PALACE_* environment variables after
// loading envFiles (".env" when none are given)
func Load(envFiles ...string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(envFiles...); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("palace", cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	cfg.StorageType = strings.ToLower(cfg.StorageType)
	cfg.HistoryType = strings.ToLower(cfg.HistoryType)

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks the backend choices are known and usable
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("PALACE_STORAGE_TYPE must be one of file, sqlite, memory; got %q", c.StorageType)
	}

	switch c.HistoryType {
	case HistoryNone, HistoryMemory, HistorySQLite:
	case HistoryElasticsearch:
		if c.Elasticsearch.URL == "" {
			return fmt.Errorf("PALACE_ELASTICSEARCH_URL is required for elasticsearch history")
		}
	default:
		return fmt.Errorf("PALACE_HISTORY_TYPE must be one of none, memory, sqlite, elasticsearch; got %q", c.HistoryType)
	}

	if c.DataDir == "" {
		return fmt.Errorf("PALACE_DATA_DIR cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// StatsPath is where the file backend keeps the leaderboard
func (c *Config) StatsPath() string {
	return c.resolve(c.StatsFile)
}

// DatabasePath is the SQLite database used by the sqlite backends
func (c *Config) DatabasePath() string {
	return c.resolve(c.DBPath)
}

// RulesPath is the optional house rules file
func (c *Config) RulesPath() string {
	return c.resolve(c.RulesFile)
}

// resolve places relative names under the data directory
func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
