// Package config defines the configuration schema for mcp-telegram.
//
// Configuration lives in ~/.mcp-telegram/config.yaml. The bot token may also
// be supplied through the TELEGRAM_BOT_TOKEN environment variable, which
// takes precedence over the file.
package config

import (
	"os"
	"path/filepath"
)

// TelegramConfig holds Bot API credentials and transport tuning.
type TelegramConfig struct {
	Token string `yaml:"token"`
	// UpdateTimeout is the long-poll timeout in seconds for getUpdates.
	UpdateTimeout int `yaml:"update_timeout"`
}

func defaultTelegramConfig() TelegramConfig {
	return TelegramConfig{UpdateTimeout: 60}
}

// StoreConfig controls the local account-state store that backs dialog and
// message listings.
type StoreConfig struct {
	// Dir overrides the store directory. Empty means DataDir()/state.
	Dir string `yaml:"dir"`
	// RetentionDays bounds message age; 0 disables age-based pruning.
	RetentionDays int `yaml:"retention_days"`
	// MaxPerDialog bounds messages kept per dialog; 0 disables the cap.
	MaxPerDialog int `yaml:"max_per_dialog"`
	// PruneSchedule is a cron expression for the retention job. Empty
	// disables scheduled pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

func defaultStoreConfig() StoreConfig {
	return StoreConfig{
		RetentionDays: 30,
		MaxPerDialog:  1000,
		PruneSchedule: "@hourly",
	}
}

// LogConfig controls diagnostic logging. Logs always go to stderr so the
// protocol stream on stdout stays clean.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func defaultLogConfig() LogConfig {
	return LogConfig{Level: "info"}
}

// Config is the root configuration object, loaded from
// ~/.mcp-telegram/config.yaml.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Telegram: defaultTelegramConfig(),
		Store:    defaultStoreConfig(),
		Log:      defaultLogConfig(),
	}
}

// StateDir returns the resolved store directory.
func (c *Config) StateDir() string {
	if c.Store.Dir != "" {
		return expandHome(c.Store.Dir)
	}
	return filepath.Join(DataDir(), "state")
}

// MediaDir returns the directory downloaded media is written to.
func (c *Config) MediaDir() string {
	return filepath.Join(DataDir(), "media")
}

func expandHome(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
