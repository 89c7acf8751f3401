package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string        `mapstructure:"env"`           // current application environment (local, dev, production)
	TelegramAPIToken string        `mapstructure:"-"`             // Telegram API token loaded from environment
	DB               DB            `mapstructure:"database"`      // database configuration section
	Pacing           Pacing        `mapstructure:"pacing"`        // allowance policy selection
	Notifications    Notifications `mapstructure:"notifications"` // background dispatcher
	Countdown        Countdown     `mapstructure:"countdown"`     // live cooldown message
	Breathing        Breathing     `mapstructure:"breathing"`     // breathing exercise message
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`   // timeout of the startup ping
	Migrate         bool          `mapstructure:"migrate"`           // apply embedded migrations on startup
}

// Pacing selects how the daily allowance is computed.
type Pacing struct {
	AllowancePolicy string `mapstructure:"allowance_policy"` // "step" or "linear"
}

// Policy resolves the configured allowance policy.
func (p Pacing) Policy() (pacing.AllowancePolicy, error) {
	return pacing.PolicyByName(p.AllowancePolicy)
}

type Notifications struct {
	Enabled       bool   `mapstructure:"enabled"`
	Schedule      string `mapstructure:"schedule"` // cron spec
	BatchSize     int    `mapstructure:"batch_size"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

type Countdown struct {
	Tick    time.Duration `mapstructure:"tick"`
	LiveFor time.Duration `mapstructure:"live_for"` // how long a countdown message keeps updating
}

type Breathing struct {
	Tick time.Duration `mapstructure:"tick"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from a local .env file, config files and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Initialize base config options.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.migrate", true)
	v.SetDefault("pacing.allowance_policy", pacing.PolicyStep)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.schedule", "@every 1m")
	v.SetDefault("notifications.batch_size", 100)
	v.SetDefault("notifications.max_concurrent", 10)
	v.SetDefault("countdown.tick", "1s")
	v.SetDefault("countdown.live_for", "2m")
	v.SetDefault("breathing.tick", "1s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if _, err := cfg.Pacing.Policy(); err != nil {
		return nil, fmt.Errorf("invalid pacing config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
