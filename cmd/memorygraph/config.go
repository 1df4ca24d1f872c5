// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// configVersion is written to every config file produced by this
// binary and filled in on load when a file omits it (§2.A).
const configVersion = 1

// Exit codes. 0-2 are spec.md §6.5's server exit codes; 3 and 4 are
// CLI-only additions for configuration and backend setup failures
// that the server codes don't distinguish (§2.B).
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitBackendRun = 2
	ExitConfig     = 3
	ExitBackend    = 4
)

// BackendConfig selects and configures the storage backend (§2.A,
// §6.4's MEMORY_BACKEND).
type BackendConfig struct {
	Kind     string `yaml:"kind"`
	Path     string `yaml:"path,omitempty"`
	URI      string `yaml:"uri,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// GraphConfig controls facade-wide toggles (§2.A, §6.4).
type GraphConfig struct {
	AllowCycles     bool `yaml:"allow_cycles"`
	MultiTenantMode bool `yaml:"multi_tenant_mode"`
}

// HealthConfig controls the health-check timeout (§2.A, §6.4's
// HEALTH_TIMEOUT_SECONDS).
type HealthConfig struct {
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// LogConfig holds the configured log level (§2.A). ValidateConfig
// checks it; the process logger built by newLogger takes its level
// from --verbose/--quiet and MEMORY_LOG_LEVEL, not from this field.
type LogConfig struct {
	Level string `yaml:"level"`
}

// CloudConfig configures the remote cloud adapter (§2.A, §6.4).
type CloudConfig struct {
	APIURL         string  `yaml:"api_url,omitempty"`
	APIKey         string  `yaml:"api_key,omitempty"`
	TimeoutSeconds float64 `yaml:"timeout_seconds,omitempty"`
}

// Config is the on-disk shape of .memorygraph/config.yaml (§2.A).
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Graph   GraphConfig   `yaml:"graph"`
	Health  HealthConfig  `yaml:"health"`
	Log     LogConfig     `yaml:"log"`
	Cloud   CloudConfig   `yaml:"cloud"`
}

// DefaultConfig returns the configuration written by `init` and used
// whenever no config file is found (§2.A).
func DefaultConfig() *Config {
	return &Config{
		Version: configVersion,
		Backend: BackendConfig{
			Kind: "sqlite",
			Path: filepath.Join(defaultDataDir(), "memory.db"),
		},
		Graph: GraphConfig{
			AllowCycles:     false,
			MultiTenantMode: false,
		},
		Health: HealthConfig{TimeoutSeconds: 5},
		Log:    LogConfig{Level: "INFO"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memorygraph/data"
	}
	return filepath.Join(home, ".memorygraph", "data")
}

// ConfigPath returns the default config file location under cwd
// (§2.A: "./.memorygraph/config.yaml").
func ConfigPath(cwd string) string {
	return filepath.Join(cwd, ".memorygraph", "config.yaml")
}

// resolveConfigPath implements §2.A's resolution order: explicit flag
// > MEMORYGRAPH_CONFIG_PATH env > ./.memorygraph/config.yaml > defaults.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("MEMORYGRAPH_CONFIG_PATH"); p != "" {
		return p
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return ConfigPath(cwd)
}

// LoadConfig reads and parses path. A missing file is returned as an
// error; loadEffectiveConfig then falls back to DefaultConfig plus env
// overrides, matching the teacher's runStatus/runExport idiom.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = configVersion
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating the parent directory
// (0750) and writing the file itself 0600 since it may carry cloud
// credentials (§2.A).
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ValidateConfig rejects a config whose backend or health values can
// never produce a working server, so failures surface at `init`/load
// time rather than on the first tool call.
func ValidateConfig(cfg *Config) error {
	switch cfg.Backend.Kind {
	case "sqlite", "neo4j", "memgraph", "falkor", "cloud":
	default:
		return fmt.Errorf("unknown backend.kind %q", cfg.Backend.Kind)
	}
	if cfg.Health.TimeoutSeconds <= 0 {
		return fmt.Errorf("health.timeout_seconds must be positive")
	}
	switch strings.ToUpper(cfg.Log.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("unknown log.level %q", cfg.Log.Level)
	}
	return nil
}

// applyEnvOverrides applies §6.4's enumerated environment variables on
// top of whatever was loaded from file, env taking precedence (§2.A).
func (cfg *Config) applyEnvOverrides() {
	if v := os.Getenv("MEMORY_BACKEND"); v != "" {
		cfg.Backend.Kind = v
	}
	if v := os.Getenv("MEMORY_SQLITE_PATH"); v != "" {
		cfg.Backend.Path = v
	}
	if v, ok := parseBool(os.Getenv("MEMORY_ALLOW_CYCLES")); ok {
		cfg.Graph.AllowCycles = v
	}
	if v, ok := parseBool(os.Getenv("MEMORY_MULTI_TENANT_MODE")); ok {
		cfg.Graph.MultiTenantMode = v
	}
	if v := os.Getenv("MEMORY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := parseFloat(os.Getenv("HEALTH_TIMEOUT_SECONDS")); ok {
		cfg.Health.TimeoutSeconds = v
	}
	if v := os.Getenv("MEMORYGRAPH_API_URL"); v != "" {
		cfg.Cloud.APIURL = v
	}
	if v := os.Getenv("MEMORYGRAPH_API_KEY"); v != "" {
		cfg.Cloud.APIKey = v
	}
	if v, ok := parseFloat(os.Getenv("MEMORYGRAPH_TIMEOUT")); ok {
		cfg.Cloud.TimeoutSeconds = v
	}
}

func parseBool(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
