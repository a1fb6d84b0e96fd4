package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvToken is the environment variable that overrides telegram.token.
const EnvToken = "TELEGRAM_BOT_TOKEN"

// ConfigPath returns the default configuration file path:
// ~/.mcp-telegram/config.yaml.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mcp-telegram/config.yaml"
	}
	return filepath.Join(home, ".mcp-telegram", "config.yaml")
}

// DataDir returns the mcp-telegram data directory: ~/.mcp-telegram.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mcp-telegram"
	}
	return filepath.Join(home, ".mcp-telegram")
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used.
// A missing file yields DefaultConfig(); a malformed file logs a warning and
// yields DefaultConfig(). The TELEGRAM_BOT_TOKEN environment variable, when
// set, overrides the token from the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to the env override with defaults
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			slog.Warn("config: parse failed, using defaults", "path", path, "error", err)
			cfg = DefaultConfig()
		}
	}

	if token := os.Getenv(EnvToken); token != "" {
		cfg.Telegram.Token = token
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML.
// If path is empty, ConfigPath() is used. The file is written 0600 since it
// holds the bot token.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
