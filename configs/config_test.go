package configs

import (
	"os"
	"path/filepath"
	"testing"

	"taskman/internal/domain/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Backend = %q, expected file", cfg.Storage.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, expected 8080", cfg.Server.Port)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Server.Address())
	}
	if cfg.Default.DefaultPriority() != models.PriorityMedium {
		t.Errorf("DefaultPriority() = %v, expected MEDIUM", cfg.Default.DefaultPriority())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
storage:
  backend: sqlite
  sqlite_path: /tmp/test-tasks.db
defaults:
  priority: HIGH
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, expected 9090", cfg.Server.Port)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Backend = %q, expected sqlite", cfg.Storage.Backend)
	}
	if cfg.Default.DefaultPriority() != models.PriorityHigh {
		t.Errorf("DefaultPriority() = %v, expected HIGH", cfg.Default.DefaultPriority())
	}
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown backend must be rejected")
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("out-of-range port must be rejected")
	}
}
