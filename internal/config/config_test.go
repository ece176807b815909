package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("expected default listen :8080, got %s", cfg.Server.Listen)
	}
	if cfg.Catalog.RefreshCron != "0 0 6 * * *" {
		t.Errorf("expected default refresh cron, got %s", cfg.Catalog.RefreshCron)
	}
	if cfg.Analysis.DefaultLimit != 50 {
		t.Errorf("expected default limit 50, got %d", cfg.Analysis.DefaultLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  listen: ":9090"
catalog:
  sqlite_path: "/tmp/cat.db"
analysis:
  default_limit: 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LISTEN_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("expected env override :7070, got %s", cfg.Server.Listen)
	}
	if cfg.Catalog.SQLitePath != "/tmp/cat.db" {
		t.Errorf("expected sqlite path from file, got %s", cfg.Catalog.SQLitePath)
	}
	if cfg.Analysis.DefaultLimit != 10 {
		t.Errorf("expected limit 10 from file, got %d", cfg.Analysis.DefaultLimit)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Analysis.DefaultLimit = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative limit")
	}
}
