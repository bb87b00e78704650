// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_HOST
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not present.
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from any of the usual locations so binaries work
// when started from cmd/ subdirectories or during tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "trustmarket-leadscore"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.Database == "" {
		cfg.Database.Postgres.Database = "marketplace_db"
	}
	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = "postgres"
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.Model.ArtifactPath == "" {
		cfg.Model.ArtifactPath = "lead_scoring_model.json"
	}
	if cfg.Model.Version == "" {
		cfg.Model.Version = "v1.0"
	}
	if cfg.Model.Estimators == 0 {
		cfg.Model.Estimators = 100
	}
	if cfg.Model.LearningRate == 0 {
		cfg.Model.LearningRate = 0.1
	}
	if cfg.Model.MaxDepth == 0 {
		cfg.Model.MaxDepth = 3
	}
	if cfg.Model.TestFraction == 0 {
		cfg.Model.TestFraction = 0.2
	}
	if cfg.Model.Seed == 0 {
		cfg.Model.Seed = 42
	}

	if cfg.Scorer.MaxCandidates == 0 {
		cfg.Scorer.MaxCandidates = 100
	}
	if cfg.Scorer.BuyerCacheTTL == 0 {
		cfg.Scorer.BuyerCacheTTL = 600
	}
	if cfg.Scorer.QueryTimeout == 0 {
		cfg.Scorer.QueryTimeout = 30
	}

	if cfg.API.Addr == "" {
		cfg.API.Addr = ":5555"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Model.TestFraction <= 0 || cfg.Model.TestFraction >= 1 {
		return fmt.Errorf("model.test_fraction must be in (0, 1), got %v", cfg.Model.TestFraction)
	}
	if cfg.Model.Estimators < 1 {
		return fmt.Errorf("model.estimators must be positive, got %d", cfg.Model.Estimators)
	}
	if cfg.Model.MaxDepth < 1 {
		return fmt.Errorf("model.max_depth must be positive, got %d", cfg.Model.MaxDepth)
	}
	if cfg.Scorer.MaxCandidates < 1 {
		return fmt.Errorf("scorer.max_candidates must be positive, got %d", cfg.Scorer.MaxCandidates)
	}
	if cfg.Alerts.Enabled {
		if cfg.Alerts.Region == "" || cfg.Alerts.FromEmail == "" || cfg.Alerts.ToEmail == "" {
			return fmt.Errorf("alerts enabled but region/from_email/to_email not fully set")
		}
	}
	return nil
}
