package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpolitica/politician-indexer/internal/config"
)

func TestLoadIndexerConfig_Defaults(t *testing.T) {
	t.Setenv("POLITICIAN_INDEXER_DATABASE_HOST", "localhost")
	t.Setenv("POLITICIAN_INDEXER_DATABASE_DBNAME", "politicians")

	cfg, err := config.LoadIndexerConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://dadosabertos.camara.leg.br/api/v2", cfg.Chamber.BaseURL)
	assert.Equal(t, 100, cfg.Chamber.PageSize)
	assert.Equal(t, 50, cfg.Pipeline.BatchSize)
	assert.Equal(t, 3, cfg.Pipeline.WorkerPoolSize)
	assert.Equal(t, 10, cfg.Pipeline.CheckpointInterval)
	assert.Equal(t, 24, cfg.Pipeline.FallbackWindowYears)
	assert.InDelta(t, 0.05, cfg.Validation.WealthTolerance, 1e-9)
	assert.InDelta(t, 0.5, cfg.Validation.MinCorrelationRate, 1e-9)

	chamber, ok := cfg.RateLimits["chamber"]
	require.True(t, ok)
	assert.Equal(t, 100, chamber.RequestsPerPeriod)
	assert.Equal(t, time.Minute, chamber.Period)
	assert.Equal(t, 10, chamber.Burst)
}

func TestLoadIndexerConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POLITICIAN_INDEXER_DATABASE_HOST", "db.internal")
	t.Setenv("POLITICIAN_INDEXER_DATABASE_DBNAME", "politicians")
	t.Setenv("POLITICIAN_INDEXER_PIPELINE_BATCH_SIZE", "25")
	t.Setenv("POLITICIAN_INDEXER_CHAMBER_BASE_URL", "http://localhost:9090/api/v2")

	cfg, err := config.LoadIndexerConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 25, cfg.Pipeline.BatchSize)
	assert.Equal(t, "http://localhost:9090/api/v2", cfg.Chamber.BaseURL)
}

func TestLoadIndexerConfig_MissingDatabase(t *testing.T) {
	_, err := config.LoadIndexerConfig("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host is required")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "indexer",
		Password: "secret",
		DBName:   "politicians",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=indexer password=secret dbname=politicians sslmode=disable",
		cfg.DSN())
}
