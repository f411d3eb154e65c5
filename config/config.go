// Package config loads and saves RLVM's TOML runtime configuration, the
// same way the teacher's config.Config does: struct-of-structs with
// `toml:` tags, a DefaultConfig, Load/LoadFrom, Save/SaveTo, and
// OS-specific config/log path helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is RLVM's runtime configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxTicksPerSession uint64 `toml:"max_ticks_per_session"`
		MaxArchiveScenes   uint   `toml:"max_archive_scenes"`
		DefaultEntrypoint  string `toml:"default_entrypoint"`
		EnableTrace        bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Memory settings
	Memory struct {
		IntBankInitialSize  int `toml:"int_bank_initial_size"`
		StrBankInitialSize  int `toml:"str_bank_initial_size"`
		StackIntInitialSize int `toml:"stack_int_initial_size"`
		StackStrInitialSize int `toml:"stack_str_initial_size"`
		MaxBankSize         int `toml:"max_bank_size"`
	} `toml:"memory"`

	// Kidoku settings
	Kidoku struct {
		InitialWords int `toml:"initial_words"`
		MaxWords     int `toml:"max_words"`
	} `toml:"kidoku"`

	// Effect settings
	Effect struct {
		DefaultTickDurationMs int64 `toml:"default_tick_duration_ms"`
	} `toml:"effect"`

	// Inspector server settings
	Inspector struct {
		Enabled    bool   `toml:"enabled"`
		ListenAddr string `toml:"listen_addr"`
	} `toml:"inspector"`

	// Archive settings
	Archive struct {
		TitleKeyName string `toml:"title_key_name"`
	} `toml:"archive"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxTicksPerSession = 10_000_000
	cfg.Execution.MaxArchiveScenes = 10000
	cfg.Execution.DefaultEntrypoint = "0"
	cfg.Execution.EnableTrace = false

	cfg.Memory.IntBankInitialSize = 2000
	cfg.Memory.StrBankInitialSize = 200
	cfg.Memory.StackIntInitialSize = 40
	cfg.Memory.StackStrInitialSize = 40
	cfg.Memory.MaxBankSize = 1 << 20

	cfg.Kidoku.InitialWords = 16
	cfg.Kidoku.MaxWords = 1 << 16

	cfg.Effect.DefaultTickDurationMs = 16

	cfg.Inspector.Enabled = false
	cfg.Inspector.ListenAddr = "127.0.0.1:18881"

	cfg.Archive.TitleKeyName = ""

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rlvm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rlvm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rlvm", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rlvm", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
