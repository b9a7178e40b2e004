package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.ContentDir != filepath.Join(".", "content") {
		t.Errorf("unexpected content dir: %s", cfg.ContentDir)
	}
	if cfg.DatasetsDir != filepath.Join(".", "datasets") {
		t.Errorf("unexpected datasets dir: %s", cfg.DatasetsDir)
	}
	if cfg.Query.Timeout != 5*time.Second {
		t.Errorf("unexpected query timeout: %s", cfg.Query.Timeout)
	}
}

func TestResolve_RespectsExplicitPaths(t *testing.T) {
	cfg := &Config{
		BaseDir:     "/opt/sqlean",
		ContentDir:  "/srv/course",
		DatasetsDir: "",
	}
	cfg.Resolve()

	if cfg.ContentDir != "/srv/course" {
		t.Errorf("explicit content dir overwritten: %s", cfg.ContentDir)
	}
	if cfg.DatasetsDir != filepath.Join("/opt/sqlean", "datasets") {
		t.Errorf("datasets dir not derived from base dir: %s", cfg.DatasetsDir)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty content dir", func(c *Config) { c.ContentDir = "" }},
		{"empty datasets dir", func(c *Config) { c.DatasetsDir = "" }},
		{"zero timeout", func(c *Config) { c.Query.Timeout = 0 }},
		{"negative max rows", func(c *Config) { c.Display.MaxRows = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Resolve()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte("base_dir: /srv/sqlean\nquery:\n  timeout: 2s\ndisplay:\n  max_rows: 10\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.BaseDir != "/srv/sqlean" {
		t.Errorf("base_dir not loaded: %s", cfg.BaseDir)
	}
	if cfg.Query.Timeout != 2*time.Second {
		t.Errorf("timeout not loaded: %s", cfg.Query.Timeout)
	}
	if cfg.Display.MaxRows != 10 {
		t.Errorf("max_rows not loaded: %d", cfg.Display.MaxRows)
	}
}

func TestLoadFromFile_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SQLEAN_CONTENT_DIR", "/env/content")
	t.Setenv("SQLEAN_QUERY_TIMEOUT", "750ms")

	cfg := DefaultConfig()
	LoadFromEnv(cfg)

	if cfg.ContentDir != "/env/content" {
		t.Errorf("env content dir not applied: %s", cfg.ContentDir)
	}
	if cfg.Query.Timeout != 750*time.Millisecond {
		t.Errorf("env timeout not applied: %s", cfg.Query.Timeout)
	}
}
