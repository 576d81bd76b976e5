package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`server:
  url: https://api.test.example.com
  timeout: 5s
format:
  default: json
  colors: false
  timestamps: true
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	cfg := Get()
	if cfg.Server.URL != "https://api.test.example.com" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != "5s" {
		t.Errorf("server timeout = %q", cfg.Server.Timeout)
	}
	if cfg.Format.Default != "json" {
		t.Errorf("default format = %q", cfg.Format.Default)
	}
	if cfg.Format.Colors {
		t.Error("colors = true, want false")
	}
}

func TestGetOutputFormatPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("format:\n  default: yaml\n"), 0600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	SetOutputFormat("")
	if got := GetOutputFormat(); got != "yaml" {
		t.Errorf("GetOutputFormat = %q, want config default yaml", got)
	}

	// An explicit flag value wins over the config default.
	SetOutputFormat("table")
	defer SetOutputFormat("")
	if got := GetOutputFormat(); got != "table" {
		t.Errorf("GetOutputFormat = %q, want table", got)
	}
}
