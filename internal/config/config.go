// Package config layers environment variables (and an optional config
// file) into a typed Config struct, the way cmd/bd/config.go in the
// teacher layers viper over per-project settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of values the engine needs at startup. There is
// no per-request reconfiguration; a missing required value is a fatal
// startup error, not a runtime Configuration error.
type Config struct {
	DatabaseURL      string
	DatabaseSchema   string
	HTTPAddr         string
	JWTSigningKey    string
	JWTAccessTTL     time.Duration
	MaxOpenConns     int
	LogLevel         string
	LogFormat        string // "json" or "text"
}

// Load reads configuration from the environment (prefix WFE_), merging in
// an optional ./workflow-engine.yaml if present, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WFE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetConfigName("workflow-engine")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetDefault("database_schema", "public")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("jwt_access_ttl", "15m")
	v.SetDefault("max_open_conns", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	ttl, err := time.ParseDuration(v.GetString("jwt_access_ttl"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid jwt_access_ttl: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    v.GetString("database_url"),
		DatabaseSchema: v.GetString("database_schema"),
		HTTPAddr:       v.GetString("http_addr"),
		JWTSigningKey:  v.GetString("jwt_signing_key"),
		JWTAccessTTL:   ttl,
		MaxOpenConns:   v.GetInt("max_open_conns"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: WFE_DATABASE_URL is required")
	}
	if c.JWTSigningKey == "" {
		return fmt.Errorf("config: WFE_JWT_SIGNING_KEY is required")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("config: max_open_conns must be positive, got %d", c.MaxOpenConns)
	}
	return nil
}
