// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads VaultPass settings from config files, environment
// variables and command-line flags with Viper, and persists them as YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/vaultpass/internal/security"
)

// Config is the full set of user settings.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	Log      struct {
		Level string `mapstructure:"level" yaml:"level"`
		File  string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"log" yaml:"log"`
	UI struct {
		BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	} `mapstructure:"ui" yaml:"ui"`
	Security struct {
		EncryptAtRest   bool   `mapstructure:"encrypt_at_rest" yaml:"encrypt_at_rest"`
		Argon2Time      uint32 `mapstructure:"argon2_time" yaml:"argon2_time"`
		Argon2MemoryKiB uint32 `mapstructure:"argon2_memory_kib" yaml:"argon2_memory_kib"`
		Argon2Threads   uint8  `mapstructure:"argon2_threads" yaml:"argon2_threads"`
	} `mapstructure:"security" yaml:"security"`
}

// KDF returns the key derivation parameters for new vaults.
func (c Config) KDF() security.KDFParams {
	return security.KDFParams{
		Time:      c.Security.Argon2Time,
		MemoryKiB: c.Security.Argon2MemoryKiB,
		Threads:   c.Security.Argon2Threads,
	}
}

// userDir resolves an XDG base directory, falling back to ~/<fallback>.
func userDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DataDir is where the default sqlite vault lives.
func DataDir() (string, error) {
	dir, err := userDir("XDG_DATA_HOME", ".local", "share")
	if err != nil {
		return "", fmt.Errorf("could not get user data directory: %w", err)
	}
	return filepath.Join(dir, "vaultpass"), nil
}

// StateDir is where the log file lives.
func StateDir() (string, error) {
	dir, err := userDir("XDG_STATE_HOME", ".local", "state")
	if err != nil {
		return "", fmt.Errorf("could not get user state directory: %w", err)
	}
	return filepath.Join(dir, "vaultpass"), nil
}

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	dsn := "./vault.db"
	if dir, err := DataDir(); err == nil {
		dsn = filepath.Join(dir, "vault.db")
	}
	logFile := "vaultpass.log"
	if dir, err := StateDir(); err == nil {
		logFile = filepath.Join(dir, "vaultpass.log")
	}
	kdf := security.DefaultKDFParams()
	return map[string]any{
		"database.type":              "sqlite",
		"database.dsn":               dsn,
		"language":                   "en",
		"log.level":                  "info",
		"log.file":                   logFile,
		"ui.batch_size":              4,
		"security.encrypt_at_rest":   false,
		"security.argon2_time":       kdf.Time,
		"security.argon2_memory_kib": kdf.MemoryKiB,
		"security.argon2_threads":    kdf.Threads,
	}
}

// GetConfigPath returns the full path of the user or system config file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "VaultPass")
		default:
			configDir = "/etc/vaultpass"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "vaultpass")
	}
	return filepath.Join(configDir, "vaultpass.yaml"), nil
}

// LoadConfig merges defaults, the first config file found, VAULTPASS_*
// environment variables and the flags of cmd, in increasing precedence.
// A missing config file is reported as viper.ConfigFileNotFoundError
// alongside the fully populated config.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("vaultpass")
	v.SetConfigType("yaml")
	if explicitPath != nil && *explicitPath != "" {
		v.SetConfigFile(*explicitPath)
	} else {
		if p, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
		if p, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.AddConfigPath(".")
	}

	var missing error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		missing = nf
	} else if used := v.ConfigFileUsed(); used != "" {
		// An empty file counts as missing so callers write the defaults.
		if st, err := os.Stat(used); err == nil && st.Size() == 0 {
			missing = viper.ConfigFileNotFoundError{}
		}
	}

	v.SetEnvPrefix("vaultpass")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, missing
}

// WriteConfigFile stores c at the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigTo(c, path)
}

// WriteConfigTo stores c at path with mode 0600.
func WriteConfigTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	return os.WriteFile(path, data, 0o600)
}
