package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvLogMode, "")
	t.Setenv(EnvAuditDB, "")
	path := writeConfig(t, `default_equipment: " kettle-20 "
default_style: 18B
log_mode: prod
storage:
  quota_bytes: 1048576
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultEquipment != "kettle-20" || cfg.DefaultStyle != "18B" || cfg.LogMode != "prod" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Storage.QuotaBytes != 1<<20 {
		t.Fatalf("quota = %d", cfg.Storage.QuotaBytes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvLogMode, "")
	t.Setenv(EnvAuditDB, "")
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultEquipment != "" || cfg.Storage.QuotaBytes != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogMode, "debug")
	t.Setenv(EnvAuditDB, "/tmp/brew-audit.db")
	cfg, err := Load(writeConfig(t, "log_mode: prod\naudit_db: data/audit.db\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogMode != "debug" || cfg.AuditDB != "/tmp/brew-audit.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage: [oops")); err == nil {
		t.Fatalf("expected parse error")
	}
	_, err := Load(writeConfig(t, "storage:\n  quota_bytes: -1\n"))
	if err == nil || !strings.Contains(err.Error(), "quota_bytes") {
		t.Fatalf("expected quota error, got %v", err)
	}
}
