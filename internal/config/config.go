// Package config provides unified configuration for the sqlean tutor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for a tutor session.
type Config struct {
	// BaseDir is the base directory for content and datasets
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// ContentDir is the directory holding the manifest and module files
	ContentDir string `json:"content_dir" yaml:"content_dir"`

	// DatasetsDir is the directory holding dataset schema/data pairs
	DatasetsDir string `json:"datasets_dir" yaml:"datasets_dir"`

	// ManifestFile is the manifest file name within ContentDir
	ManifestFile string `json:"manifest_file" yaml:"manifest_file"`

	// Query configuration
	Query QueryConfig `json:"query" yaml:"query"`

	// Display configuration
	Display DisplayConfig `json:"display" yaml:"display"`
}

// QueryConfig holds query execution configuration.
type QueryConfig struct {
	// Timeout bounds a single query execution; pathological learner
	// queries (runaway cross joins) are cancelled after this long
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DisplayConfig holds result rendering configuration.
type DisplayConfig struct {
	// MaxRows is the maximum number of result rows printed per query
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:      ".",
		ManifestFile: "manifest.yml",
		Query: QueryConfig{
			Timeout: 5 * time.Second,
		},
		Display: DisplayConfig{
			MaxRows: 50,
		},
	}
}

// Resolve resolves relative paths and sets defaults based on BaseDir.
func (c *Config) Resolve() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.ContentDir == "" {
		c.ContentDir = filepath.Join(c.BaseDir, "content")
	}
	if c.DatasetsDir == "" {
		c.DatasetsDir = filepath.Join(c.BaseDir, "datasets")
	}
	if c.ManifestFile == "" {
		c.ManifestFile = "manifest.yml"
	}
}

// ManifestPath returns the full path to the course manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.ContentDir, c.ManifestFile)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.DatasetsDir == "" {
		return fmt.Errorf("datasets_dir is required")
	}
	if c.Query.Timeout <= 0 {
		return fmt.Errorf("query.timeout must be positive, got %s", c.Query.Timeout)
	}
	if c.Display.MaxRows < 0 {
		return fmt.Errorf("display.max_rows must not be negative, got %d", c.Display.MaxRows)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration overrides from environment variables.
// A .env file in the working directory is read first if present.
// Environment variables use the SQLEAN_ prefix.
func LoadFromEnv(cfg *Config) {
	// Ignore a missing .env; it is optional
	_ = godotenv.Load()

	if v := os.Getenv("SQLEAN_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("SQLEAN_CONTENT_DIR"); v != "" {
		cfg.ContentDir = v
	}
	if v := os.Getenv("SQLEAN_DATASETS_DIR"); v != "" {
		cfg.DatasetsDir = v
	}
	if v := os.Getenv("SQLEAN_MANIFEST_FILE"); v != "" {
		cfg.ManifestFile = v
	}
	if v := os.Getenv("SQLEAN_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Query.Timeout = d
		}
	}
	if v := os.Getenv("SQLEAN_DISPLAY_MAX_ROWS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Display.MaxRows)
	}
}

// Load builds the effective configuration: file (optional), then environment
// overrides, then path resolution and validation.
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		loaded, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	LoadFromEnv(cfg)
	cfg.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
