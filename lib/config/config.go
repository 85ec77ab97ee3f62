// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "UNIFIER_INSTALL_CONFIG"

// Config is the installer configuration.
type Config struct {
	// Paths locates the bot's files.
	Paths PathsConfig `yaml:"paths"`

	// Environment lists the variables secrets are read from, in lookup
	// order.
	Environment EnvironmentConfig `yaml:"environment"`

	// Gateway configures the Discord connection used for verification.
	Gateway GatewayConfig `yaml:"gateway"`

	// Runtime configures the Python version check.
	Runtime RuntimeConfig `yaml:"runtime"`

	// Store configures the encrypted token store.
	Store StoreConfig `yaml:"store"`
}

// PathsConfig locates the bot's files. Relative paths are resolved
// against Root.
type PathsConfig struct {
	// Root is the bot's checkout directory.
	// Default: .
	Root string `yaml:"root"`

	// Internal is the product metadata and install option document.
	// Default: boot/internal.json
	Internal string `yaml:"internal"`

	// BootConfig holds operator boot flags.
	// Default: boot_config.json
	BootConfig string `yaml:"boot_config"`

	// RuntimeConfig is the bot's TOML configuration.
	// Default: config.toml
	RuntimeConfig string `yaml:"runtime_config"`

	// TokenStore is the encrypted secret store.
	// Default: .encryptedenv
	TokenStore string `yaml:"token_store"`

	// Marker is the install completion record.
	// Default: .install.json
	Marker string `yaml:"marker"`

	// EnvFile is loaded into the environment (without overriding
	// variables already set) when it exists.
	// Default: .env
	EnvFile string `yaml:"env_file"`
}

// EnvironmentConfig lists the environment variables secrets are read
// from. The first non-empty variable wins.
type EnvironmentConfig struct {
	OwnerID    []string `yaml:"owner_id"`
	Token      []string `yaml:"token"`
	Passphrase []string `yaml:"passphrase"`
}

// GatewayConfig configures the Discord connection.
type GatewayConfig struct {
	// ConnectTimeout bounds login plus the wait for the ready event.
	// Default: 30s
	ConnectTimeout string `yaml:"connect_timeout"`
}

// RuntimeConfig configures the Python version check.
type RuntimeConfig struct {
	// Interpreter is the Python executable to probe.
	// Default: python3
	Interpreter string `yaml:"interpreter"`
}

// StoreConfig configures the token store.
type StoreConfig struct {
	// WorkFactor is the scrypt log2(N). Zero selects the age default.
	WorkFactor int `yaml:"work_factor"`
}

// Default returns the configuration for a stock checkout in the
// current directory.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Root:          ".",
			Internal:      filepath.Join("boot", "internal.json"),
			BootConfig:    "boot_config.json",
			RuntimeConfig: "config.toml",
			TokenStore:    ".encryptedenv",
			Marker:        ".install.json",
			EnvFile:       ".env",
		},
		Environment: EnvironmentConfig{
			// The hyphenated names are what older hosting templates set.
			OwnerID:    []string{"UNIFIER_OWNER_ID", "user-id"},
			Token:      []string{"UNIFIER_TOKEN", "token"},
			Passphrase: []string{"UNIFIER_ENCRYPTION_KEY", "encryption-key"},
		},
		Gateway: GatewayConfig{
			ConnectTimeout: "30s",
		},
		Runtime: RuntimeConfig{
			Interpreter: "python3",
		},
	}
}

// Load reads the file named by UNIFIER_INSTALL_CONFIG, or returns the
// defaults when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// Path resolves a configured path against Paths.Root.
func (c *Config) Path(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.Root, path)
}

// ConnectTimeout parses Gateway.ConnectTimeout.
func (c *Config) ConnectTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Gateway.ConnectTimeout)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	required := []struct{ name, value string }{
		{"paths.root", c.Paths.Root},
		{"paths.internal", c.Paths.Internal},
		{"paths.boot_config", c.Paths.BootConfig},
		{"paths.runtime_config", c.Paths.RuntimeConfig},
		{"paths.token_store", c.Paths.TokenStore},
		{"paths.marker", c.Paths.Marker},
		{"runtime.interpreter", c.Runtime.Interpreter},
	}
	for _, field := range required {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}

	if len(c.Environment.OwnerID) == 0 {
		errs = append(errs, fmt.Errorf("environment.owner_id must list at least one variable"))
	}
	if len(c.Environment.Token) == 0 {
		errs = append(errs, fmt.Errorf("environment.token must list at least one variable"))
	}
	if len(c.Environment.Passphrase) == 0 {
		errs = append(errs, fmt.Errorf("environment.passphrase must list at least one variable"))
	}

	if timeout, err := c.ConnectTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("gateway.connect_timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("gateway.connect_timeout must be positive, got %s", timeout))
	}

	if c.Store.WorkFactor < 0 || c.Store.WorkFactor > 22 {
		errs = append(errs, fmt.Errorf("store.work_factor must be between 0 and 22, got %d", c.Store.WorkFactor))
	}

	return errors.Join(errs...)
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["INSTALL_ROOT"] = c.Paths.Root

	c.Paths.Internal = expandVars(c.Paths.Internal, vars)
	c.Paths.BootConfig = expandVars(c.Paths.BootConfig, vars)
	c.Paths.RuntimeConfig = expandVars(c.Paths.RuntimeConfig, vars)
	c.Paths.TokenStore = expandVars(c.Paths.TokenStore, vars)
	c.Paths.Marker = expandVars(c.Paths.Marker, vars)
	c.Paths.EnvFile = expandVars(c.Paths.EnvFile, vars)
	c.Runtime.Interpreter = expandVars(c.Runtime.Interpreter, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
