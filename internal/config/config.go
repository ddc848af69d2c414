// Package config handles configuration loading and defaults.
//
// Values are layered, later sources winning:
//  1. Defaults
//  2. TOML file (tasklist.toml in the working directory, or an explicit path)
//  3. .env file in the working directory (never overrides real environment)
//  4. Environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"tasklist/internal/kv"
	"tasklist/internal/models"
)

// Default values.
const (
	DefaultConfigFile  = "tasklist.toml"
	DefaultEnvFile     = ".env"
	DefaultAddr        = ":8080"
	DefaultDBPath      = "./data/tasklist.db"
	DefaultFilePath    = "./data/tasklist.yaml"
	DefaultChatDelayMS = 1500
)

// UI modes.
const (
	UIWeb = "web"
	UITUI = "tui"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Server
	Addr string `toml:"addr"`
	UI   string `toml:"ui"`

	// Storage
	Backend  string `toml:"backend"`
	DBDriver string `toml:"db_driver"`
	DBPath   string `toml:"db_path"`
	FilePath string `toml:"file_path"`

	// Behaviour
	DefaultPriority string `toml:"default_priority"`
	ChatDelayMS     int    `toml:"chat_delay_ms"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Source file, if one was read (computed)
	File string `toml:"-"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		UI:              UIWeb,
		Backend:         kv.BackendSQLite,
		DBDriver:        kv.DriverCGO,
		DBPath:          DefaultDBPath,
		FilePath:        DefaultFilePath,
		DefaultPriority: string(models.PriorityMedium),
		ChatDelayMS:     DefaultChatDelayMS,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds the configuration. If path is empty, tasklist.toml in the
// working directory is used when present; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			file = DefaultConfigFile
		}
	}
	if file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
		cfg.File = file
	}

	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("TASKLIST_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TASKLIST_UI"); v != "" {
		cfg.UI = v
	}
	if v := os.Getenv("TASKLIST_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TASKLIST_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKLIST_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKLIST_FILE_PATH"); v != "" {
		cfg.FilePath = v
	}
	if v := os.Getenv("TASKLIST_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
	}
	if v := os.Getenv("TASKLIST_CHAT_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChatDelayMS = n
		}
	}
	if v := os.Getenv("TASKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// Validate checks that the config has valid field values.
func (c *Config) Validate() error {
	var errs []error

	c.UI = strings.ToLower(strings.TrimSpace(c.UI))
	if c.UI != UIWeb && c.UI != UITUI {
		errs = append(errs, fmt.Errorf("ui must be %q or %q, got %q", UIWeb, UITUI, c.UI))
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case kv.BackendSQLite:
		if c.DBDriver != kv.DriverCGO && c.DBDriver != kv.DriverPureGo {
			errs = append(errs, fmt.Errorf("db_driver must be %q or %q, got %q", kv.DriverCGO, kv.DriverPureGo, c.DBDriver))
		}
		if c.DBPath == "" {
			errs = append(errs, errors.New("db_path is required for the sqlite backend"))
		}
	case kv.BackendFile:
		if c.FilePath == "" {
			errs = append(errs, errors.New("file_path is required for the file backend"))
		}
	case kv.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("backend must be sqlite, file, or memory, got %q", c.Backend))
	}

	if _, ok := models.ParsePriority(c.DefaultPriority); !ok {
		errs = append(errs, fmt.Errorf("default_priority must be 'high', 'medium', or 'low', got %q", c.DefaultPriority))
	}

	if c.ChatDelayMS < 0 {
		errs = append(errs, errors.New("chat_delay_ms must not be negative"))
	}

	return errors.Join(errs...)
}

// Priority returns the configured default priority.
func (c *Config) Priority() models.Priority {
	p, _ := models.ParsePriority(c.DefaultPriority)
	return p
}

// ChatDelay returns the simulated chat reply delay.
func (c *Config) ChatDelay() time.Duration {
	return time.Duration(c.ChatDelayMS) * time.Millisecond
}

// KVOptions returns the options for opening the configured key-value backend.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:  c.Backend,
		Driver:   c.DBDriver,
		DBPath:   c.DBPath,
		FilePath: c.FilePath,
	}
}
