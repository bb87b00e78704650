// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Model    ModelConfig    `mapstructure:"model"`
	Scorer   ScorerConfig   `mapstructure:"scorer"`
	API      APIConfig      `mapstructure:"api"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ModelConfig holds training hyperparameters and the artifact location.
type ModelConfig struct {
	ArtifactPath string  `mapstructure:"artifact_path"`
	Version      string  `mapstructure:"version"`
	Estimators   int     `mapstructure:"estimators"`
	LearningRate float64 `mapstructure:"learning_rate"`
	MaxDepth     int     `mapstructure:"max_depth"`
	TestFraction float64 `mapstructure:"test_fraction"`
	Seed         int64   `mapstructure:"seed"`
}

// ScorerConfig holds batch scoring settings.
type ScorerConfig struct {
	MaxCandidates   int `mapstructure:"max_candidates"`
	BuyerCacheTTL   int `mapstructure:"buyer_cache_ttl"` // seconds
	QueryTimeout    int `mapstructure:"query_timeout"`   // seconds
	DisableRedis    bool `mapstructure:"disable_redis"`
}

type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

// AlertsConfig configures the optional SES operator alert channel.
type AlertsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
