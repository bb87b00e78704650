// internal/common/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "trustmarket-leadscore", cfg.App.Name)
	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "marketplace_db", cfg.Database.Postgres.Database)

	assert.Equal(t, "lead_scoring_model.json", cfg.Model.ArtifactPath)
	assert.Equal(t, "v1.0", cfg.Model.Version)
	assert.Equal(t, 100, cfg.Model.Estimators)
	assert.Equal(t, 0.1, cfg.Model.LearningRate)
	assert.Equal(t, 3, cfg.Model.MaxDepth)
	assert.Equal(t, 0.2, cfg.Model.TestFraction)
	assert.Equal(t, int64(42), cfg.Model.Seed)

	assert.Equal(t, 100, cfg.Scorer.MaxCandidates)
	assert.Equal(t, 600, cfg.Scorer.BuyerCacheTTL)
	assert.Equal(t, ":5555", cfg.API.Addr)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		applyDefaults(&cfg)
		return &cfg
	}

	require.NoError(t, validateConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"test fraction too high", func(c *Config) { c.Model.TestFraction = 1.0 }},
		{"test fraction negative", func(c *Config) { c.Model.TestFraction = -0.1 }},
		{"zero estimators", func(c *Config) { c.Model.Estimators = 0 }},
		{"zero depth", func(c *Config) { c.Model.MaxDepth = 0 }},
		{"zero candidates", func(c *Config) { c.Scorer.MaxCandidates = 0 }},
		{"alerts enabled without addresses", func(c *Config) { c.Alerts.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, User: "app", Password: "secret",
		Database: "marketplace_db", SSLMode: "disable",
	}
	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=marketplace_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
