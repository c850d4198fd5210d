package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "hearthshare.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ProjectionDays != 7 {
		t.Errorf("projection days = %d, want 7", cfg.ProjectionDays)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearthshare.yaml")
	content := "db_path: /tmp/h.db\nlog_level: debug\nprojection_days: 14\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/h.db" || cfg.LogLevel != "debug" || cfg.ProjectionDays != 14 {
		t.Errorf("cfg = %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Timezone != "Local" {
		t.Errorf("timezone = %q, want default", cfg.Timezone)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearthshare.yaml")
	if err := os.WriteFile(path, []byte("db_path: from-file.db\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HEARTHSHARE_DB_PATH", "from-env.db")
	t.Setenv("HEARTHSHARE_PROJECTION_DAYS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("db path = %q, want env override", cfg.DBPath)
	}
	if cfg.ProjectionDays != 2 {
		t.Errorf("projection days = %d, want 2", cfg.ProjectionDays)
	}
}

func TestBadEnvProjectionDays(t *testing.T) {
	t.Setenv("HEARTHSHARE_PROJECTION_DAYS", "zero")

	if _, err := Load(""); err == nil {
		t.Fatal("non-numeric projection days should fail")
	}
}

func TestMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearthshare.yaml")
	if err := os.WriteFile(path, []byte(":\n  - nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}
