package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ChamberConfig holds Chamber of Deputies API configuration
type ChamberConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TSEConfig holds TSE open-data catalog configuration
type TSEConfig struct {
	CatalogURL string        `mapstructure:"catalog_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds per-source rate limiting configuration
type RateLimitConfig struct {
	RequestsPerPeriod int           `mapstructure:"requests_per_period"`
	Period            time.Duration `mapstructure:"period"`
	Burst             int           `mapstructure:"burst"`
}

// PipelineConfig holds population pipeline configuration
type PipelineConfig struct {
	BatchSize          int `mapstructure:"batch_size"`
	WorkerPoolSize     int `mapstructure:"worker_pool_size"`
	CheckpointInterval int `mapstructure:"checkpoint_interval"`
	// FallbackWindowYears bounds the correlation search when no birth year
	// is known for a politician
	FallbackWindowYears int `mapstructure:"fallback_window_years"`
}

// ValidationConfig holds validation engine configuration
type ValidationConfig struct {
	WealthTolerance      float64 `mapstructure:"wealth_tolerance"`
	MinCorrelationRate   float64 `mapstructure:"min_correlation_rate"`
	IssueSamplesPerCheck int     `mapstructure:"issue_samples_per_check"`
}

// IndexerConfig holds configuration for the indexer binary
type IndexerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig             `mapstructure:"database"`
	Chamber    ChamberConfig              `mapstructure:"chamber"`
	TSE        TSEConfig                  `mapstructure:"tse"`
	RateLimits map[string]RateLimitConfig `mapstructure:"rate_limits"`
	Pipeline   PipelineConfig             `mapstructure:"pipeline"`
	Validation ValidationConfig           `mapstructure:"validation"`
}

// LoadIndexerConfig loads configuration for the indexer binary
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper(configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("chamber.base_url", "https://dadosabertos.camara.leg.br/api/v2")
	v.SetDefault("chamber.page_size", 100)
	v.SetDefault("chamber.timeout", "30s")
	v.SetDefault("tse.catalog_url", "https://dadosabertos.tse.jus.br/api/3")
	v.SetDefault("tse.timeout", "5m")
	v.SetDefault("rate_limits.chamber.requests_per_period", 100)
	v.SetDefault("rate_limits.chamber.period", "1m")
	v.SetDefault("rate_limits.chamber.burst", 10)
	v.SetDefault("rate_limits.tse.requests_per_period", 30)
	v.SetDefault("rate_limits.tse.period", "1m")
	v.SetDefault("rate_limits.tse.burst", 5)
	v.SetDefault("pipeline.batch_size", 50)
	v.SetDefault("pipeline.worker_pool_size", 3)
	v.SetDefault("pipeline.checkpoint_interval", 10)
	v.SetDefault("pipeline.fallback_window_years", 24)
	v.SetDefault("validation.wealth_tolerance", 0.05)
	v.SetDefault("validation.min_correlation_rate", 0.5)
	v.SetDefault("validation.issue_samples_per_check", 5)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg IndexerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("POLITICIAN_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Required for viper to map env vars to config struct fields when no config
// file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Chamber API
		"chamber.base_url",
		"chamber.page_size",
		"chamber.timeout",
		// TSE catalog
		"tse.catalog_url",
		"tse.timeout",
		// Rate limits
		"rate_limits.chamber.requests_per_period",
		"rate_limits.chamber.period",
		"rate_limits.chamber.burst",
		"rate_limits.tse.requests_per_period",
		"rate_limits.tse.period",
		"rate_limits.tse.burst",
		// Pipeline
		"pipeline.batch_size",
		"pipeline.worker_pool_size",
		"pipeline.checkpoint_interval",
		"pipeline.fallback_window_years",
		// Validation
		"validation.wealth_tolerance",
		"validation.min_correlation_rate",
		"validation.issue_samples_per_check",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string) {
	envFiles := []string{".env", ".env.local"}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
