// Package config loads service settings from defaults, an optional YAML
// file, the environment and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ARMAZEM"

// Config is the complete service configuration.
type Config struct {
	Server struct {
		Addr        string   `mapstructure:"addr"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // sqlite | mysql | postgres
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret  string        `mapstructure:"jwt_secret"` // empty: generated and kept in the database
		TokenTTL   time.Duration `mapstructure:"token_ttl"`
		LoginRate  float64       `mapstructure:"login_rate"` // attempts per second per client
		LoginBurst int           `mapstructure:"login_burst"`
	} `mapstructure:"auth"`

	Uploads struct {
		Dir           string        `mapstructure:"dir"`
		MaxBytes      int64         `mapstructure:"max_bytes"`
		SweepSchedule string        `mapstructure:"sweep_schedule"` // cron spec, empty disables
		SweepGrace    time.Duration `mapstructure:"sweep_grace"`
	} `mapstructure:"uploads"`

	Log struct {
		File string `mapstructure:"file"`
	} `mapstructure:"log"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "armazem.sqlite3")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.login_rate", 1.0)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_bytes", 32<<20)
	v.SetDefault("uploads.sweep_schedule", "@hourly")
	v.SetDefault("uploads.sweep_grace", "1h")

	v.SetDefault("log.file", "")
	v.SetDefault("metrics.enabled", true)
}

// Load builds the configuration. file may be empty, in which case
// ARMAZEM_CONFIG is consulted and then ./armazem.yaml if it exists.
// overrides holds values from explicitly set command-line flags, keyed by
// configuration key, and wins over every other source.
func Load(file string, overrides map[string]any) (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("armazem")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite, mysql or postgres, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst <= 0 {
		return errors.New("auth.login_rate and auth.login_burst must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return errors.New("uploads.max_bytes must be positive")
	}
	if strings.TrimSpace(c.Uploads.Dir) == "" {
		return errors.New("uploads.dir must not be empty")
	}
	if c.Uploads.SweepGrace < 0 {
		return errors.New("uploads.sweep_grace must not be negative")
	}
	return nil
}
