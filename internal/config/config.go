package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const defaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

type Config struct {
	// Database
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	// Identity provider
	FirebaseProjectID string        `mapstructure:"firebase_project_id"`
	JWKSURL           string        `mapstructure:"jwks_url"`
	JWKSCacheTTL      time.Duration `mapstructure:"jwks_cache_ttl"`

	// Observability
	AppEnv           string `mapstructure:"app_env"`
	SentryDSN        string `mapstructure:"sentry_dsn"`
	LogRetentionDays int    `mapstructure:"log_retention_days"`

	// Server
	Port               string `mapstructure:"port"`
	CORSOrigins        string `mapstructure:"cors_origins"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "community_db")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("firebase_project_id", "")
	v.SetDefault("jwks_url", defaultJWKSURL)
	v.SetDefault("jwks_cache_ttl", "1h")

	v.SetDefault("app_env", "development")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("log_retention_days", 30)

	v.SetDefault("port", "5000")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("rate_limit_per_minute", 120)
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID environment variable is required")
	}
	if c.DBDriver == "postgres" && c.DBPassword == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	return nil
}

// Issuer is the expected "iss" claim of identity tokens.
func (c *Config) Issuer() string {
	return "https://securetoken.google.com/" + c.FirebaseProjectID
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
