// Package config loads the workspace's brewcalc.yml and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the workspace root.
const FileName = "brewcalc.yml"

// Environment overrides.
const (
	EnvLogMode = "BREWCALC_LOG_MODE"
	EnvAuditDB = "BREWCALC_AUDIT_DB"
)

// Config mirrors brewcalc.yml.
type Config struct {
	// DefaultEquipment is an equipment preset id applied to recipes that
	// name no equipment preset of their own.
	DefaultEquipment string `yaml:"default_equipment"`
	// DefaultStyle is the style id used by `style check` when neither the
	// recipe nor the command line names one.
	DefaultStyle string `yaml:"default_style"`
	LogMode      string `yaml:"log_mode"`
	CatalogDir   string `yaml:"catalog_dir"`
	AuditDB      string `yaml:"audit_db"`
	Storage      struct {
		DBPath     string `yaml:"db_path"`
		QuotaBytes int64  `yaml:"quota_bytes"`
	} `yaml:"storage"`
}

// Load reads the config file at path. A missing file yields an empty
// config; env overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must be >= 0")
	}
	c.DefaultEquipment = strings.TrimSpace(c.DefaultEquipment)
	c.DefaultStyle = strings.TrimSpace(c.DefaultStyle)
	c.LogMode = strings.TrimSpace(c.LogMode)
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogMode)); v != "" {
		c.LogMode = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAuditDB)); v != "" {
		c.AuditDB = v
	}
}
