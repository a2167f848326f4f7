// Package config handles configuration loading and validation for preview.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/preview/internal/core/display"
)

// StateBackend selects where panel states are persisted.
type StateBackend string

// Supported state backends.
const (
	BackendJSON   StateBackend = "json"
	BackendSQLite StateBackend = "sqlite"
)

// IsValid checks if the backend is a supported backend.
func (b StateBackend) IsValid() bool {
	switch b {
	case BackendJSON, BackendSQLite:
		return true
	default:
		return false
	}
}

// Config holds the application configuration.
type Config struct {
	Preview   display.Settings   `yaml:"preview"`
	Overrides []display.Override `yaml:"overrides"`
	State     StateConfig        `yaml:"state"`
	Watch     WatchConfig        `yaml:"watch"`
	DataDir   string             `yaml:"-"` // set by caller, not from config file
}

// StateConfig holds panel state persistence settings.
type StateConfig struct {
	Backend StateBackend `yaml:"backend"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	Config    bool          `yaml:"config"`    // reload this file when it changes
	Documents bool          `yaml:"documents"` // re-render previews when their document changes
	Debounce  time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preview: display.Settings{
			Theme:         "auto",
			WordWrap:      80,
			ScrollSync:    true,
			RenderTimeout: 5 * time.Second,
		},
		State: StateConfig{
			Backend: BackendJSON,
		},
		Watch: WatchConfig{
			Config:    true,
			Documents: true,
			Debounce:  100 * time.Millisecond,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Preview.Theme == "" {
		c.Preview.Theme = defaults.Preview.Theme
	}
	if c.Preview.WordWrap == 0 {
		c.Preview.WordWrap = defaults.Preview.WordWrap
	}
	if c.Preview.RenderTimeout == 0 {
		c.Preview.RenderTimeout = defaults.Preview.RenderTimeout
	}
	if c.State.Backend == "" {
		c.State.Backend = defaults.State.Backend
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !c.State.Backend.IsValid() {
		return fmt.Errorf("state.backend %q must be one of %q or %q", c.State.Backend, BackendJSON, BackendSQLite)
	}

	if c.Preview.WordWrap < 0 {
		return fmt.Errorf("preview.word_wrap cannot be negative")
	}

	if c.Preview.RenderTimeout < 0 {
		return fmt.Errorf("preview.render_timeout cannot be negative")
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce cannot be negative")
	}

	for i, o := range c.Overrides {
		if o.Pattern == "" {
			return fmt.Errorf("overrides[%d]: pattern is required", i)
		}
		if o.WordWrap != nil && *o.WordWrap < 0 {
			return fmt.Errorf("overrides[%d]: word_wrap cannot be negative", i)
		}
		if o.RenderTimeout != nil && *o.RenderTimeout < 0 {
			return fmt.Errorf("overrides[%d]: render_timeout cannot be negative", i)
		}
	}

	return nil
}

// DisplayStore builds a display store from the preview settings and overrides.
func (c *Config) DisplayStore() *display.Store {
	return display.NewStore(c.Preview, c.Overrides)
}

// State file names inside the data directory.
const (
	JSONStateFile   = "panels.json"
	SQLiteStateFile = "preview.db"
)

// StatePath returns the path of the panel state store for the configured backend.
func (c *Config) StatePath() string {
	if c.State.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, SQLiteStateFile)
	}
	return filepath.Join(c.DataDir, JSONStateFile)
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "preview.log")
}
