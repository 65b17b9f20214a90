package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageFile          = "file"
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StorageElasticsearch = "elasticsearch"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string `env:"DISCORD_TOKEN,required"`
	AppID   string `env:"APP_ID,required"`
	GuildID string `env:"GUILD_ID"` // Empty registers commands globally

	// Hat administration
	HatRoleID      string   `env:"HAT_ROLE_ID"`
	AdminIDs       []string `env:"HAT_ADMIN_IDS" envSeparator:","`
	AdminUsernames []string `env:"HAT_ADMIN_USERNAMES" envSeparator:","`

	// Storage
	StorageType   string              `env:"STORAGE_TYPE" envDefault:"file"`
	DataDir       string              `env:"DATA_DIR"`
	DataFile      string              `env:"DATA_FILE"`
	Elasticsearch ElasticsearchConfig `envPrefix:"ELASTICSEARCH_"`

	// Operations
	HealthAddr string `env:"HEALTH_ADDR"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development" or "production"
}

// ElasticsearchConfig holds connection settings for the elasticsearch backend
type ElasticsearchConfig struct {
	URL         string `env:"URL" envDefault:"http://localhost:9200"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"hatbot"`
}

// Load reads the configuration from envFile (if it exists) and the environment
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	// Only return error if file exists but couldn't be loaded
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in paths that depend on other settings
func (c *Config) applyDefaults() error {
	if c.DataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		c.DataDir = filepath.Join(wd, "data")
	}

	if c.DataFile == "" {
		switch c.StorageType {
		case StorageSQLite:
			c.DataFile = filepath.Join(c.DataDir, "hatbot.db")
		default:
			c.DataFile = filepath.Join(c.DataDir, "data.json")
		}
	}

	c.StorageType = strings.ToLower(strings.TrimSpace(c.StorageType))
	c.AdminIDs = compact(c.AdminIDs)
	c.AdminUsernames = compact(c.AdminUsernames)
	return nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	switch c.StorageType {
	case StorageFile, StorageMemory, StorageSQLite, StorageElasticsearch:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// compact trims entries and drops empty ones
func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
