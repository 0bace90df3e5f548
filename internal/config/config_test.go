package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Agent.Name = "valentina"
	cfg.Agent.Role = "ui developer"
	cfg.Engine.Timeout = 120
	cfg.GitHubRepo = "entity-dev/seize-hope"

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Agent.Name != "valentina" {
		t.Errorf("Agent.Name: got %q, want %q", loaded.Agent.Name, "valentina")
	}
	if loaded.Engine.Timeout != 120 {
		t.Errorf("Engine.Timeout: got %d, want 120", loaded.Engine.Timeout)
	}
	if loaded.GitHubRepo != "entity-dev/seize-hope" {
		t.Errorf("GitHubRepo: got %q, want %q", loaded.GitHubRepo, "entity-dev/seize-hope")
	}
}

func TestDefaultConfigEngine(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine.Binary != "claude" {
		t.Errorf("default Engine.Binary: got %q, want %q", cfg.Engine.Binary, "claude")
	}
	if cfg.Engine.Timeout != 600 {
		t.Errorf("default Engine.Timeout: got %d, want 600", cfg.Engine.Timeout)
	}
}

func TestTaskTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.TaskTimeout(); got != 10*time.Minute {
		t.Errorf("TaskTimeout: got %s, want 10m", got)
	}

	cfg.Engine.Timeout = 0
	if got := cfg.TaskTimeout(); got != 10*time.Minute {
		t.Errorf("TaskTimeout with zero config: got %s, want 10m fallback", got)
	}

	cfg.Engine.Timeout = 30
	if got := cfg.TaskTimeout(); got != 30*time.Second {
		t.Errorf("TaskTimeout: got %s, want 30s", got)
	}
}

func TestReadConfigToleratesUnknownFields(t *testing.T) {
	// A config written by a newer version must still load.
	tmpDir := t.TempDir()
	newerConfig := `version: 2
agent:
  name: harper
  role: backend developer
  supervisor: chief
  output_dir: .entity
engine:
  binary: claude
  model: sonnet
  timeout: 600
  future_field: true
notifications:
  file_enabled: true
  console_enabled: true
`
	configPath := filepath.Join(tmpDir, ".entity")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(newerConfig), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.Agent.Name != "harper" {
		t.Errorf("Agent.Name: got %q, want %q", cfg.Agent.Name, "harper")
	}
}
