package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/wordplan/internal/clock"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	Timezone         string  `mapstructure:"timezone"` // calendar day boundaries, IANA name or UTC offset
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	Catalog          Catalog `mapstructure:"catalog"`
	Storage          Storage `mapstructure:"storage"`
	DB               DB      `mapstructure:"database"`
	Ranking          Ranking `mapstructure:"ranking"`
	Jobs             Jobs    `mapstructure:"jobs"`
}

// Catalog points at the word books.
type Catalog struct {
	Path  string `mapstructure:"path"`  // .json document or .xlsx sheet
	Sheet string `mapstructure:"sheet"` // sheet name for .xlsx
}

// Storage selects the learner state backend.
type Storage struct {
	Driver string `mapstructure:"driver"` // memory, file, sqlite or postgres
	Path   string `mapstructure:"path"`   // data dir (file) or database file (sqlite)
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Ranking configures both the ranking client and the ranking server.
type Ranking struct {
	BaseURL   string        `mapstructure:"base_url"`   // empty disables syncing
	Timeout   time.Duration `mapstructure:"timeout"`    // client request timeout, 0 for none
	Addr      string        `mapstructure:"addr"`       // server listen address
	Store     string        `mapstructure:"store"`      // memory, postgres or redis
	RedisAddr string        `mapstructure:"redis_addr"` // used by the redis store
	RedisKey  string        `mapstructure:"redis_key"`  // sorted set name
}

// Jobs holds cron specs of the periodic jobs. An empty spec disables a job.
type Jobs struct {
	RolloverSpec string `mapstructure:"rollover_spec"`
	SyncSpec     string `mapstructure:"sync_spec"`
	ReminderSpec string `mapstructure:"reminder_spec"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Location parses the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := clock.ParseLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// RequireTelegram checks the settings needed by the bot.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}

// RequireDatabase checks that a DSN is set when a backend needs one.
func (c *Config) RequireDatabase() error {
	needsDB := c.Storage.Driver == "postgres" || c.Ranking.Store == "postgres"
	if needsDB && c.DB.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}
	return nil
}

// Load reads configuration from .env, an optional config file and
// environment variables. An empty path searches ./config/config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("catalog.path", "assets/books.json")
	v.SetDefault("catalog.sheet", "Sheet1")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "data")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("ranking.base_url", "")
	v.SetDefault("ranking.timeout", "10s")
	v.SetDefault("ranking.addr", ":8080")
	v.SetDefault("ranking.store", "memory")
	v.SetDefault("ranking.redis_addr", "localhost:6379")
	v.SetDefault("ranking.redis_key", "leaderboard")
	v.SetDefault("jobs.rollover_spec", "1 0 * * *")
	v.SetDefault("jobs.sync_spec", "@every 15m")
	v.SetDefault("jobs.reminder_spec", "0 * * * *")

	// Nested keys map to ENV style names, e.g. STORAGE_DRIVER.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
