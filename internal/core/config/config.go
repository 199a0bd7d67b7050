// Package config handles configuration loading and validation for jobcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Template edit scopes.
const (
	// EditsSession keeps text edits, added and removed points in the job
	// type's saved record only.
	EditsSession = "session"
	// EditsGlobal also stores the edited point list as the template used by
	// every later session of the job type.
	EditsGlobal = "global"
)

// Config holds the application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Store     StoreConfig     `yaml:"store"`
	Checklist ChecklistConfig `yaml:"checklist"`
	Report    ReportConfig    `yaml:"report"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	TUI       TUIConfig       `yaml:"tui"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
	// ConfigDir resolves relative catalog sources. Set by Load.
	ConfigDir string `yaml:"-"`
}

// CatalogConfig lists where job types are loaded from.
type CatalogConfig struct {
	// Sources are file paths, glob patterns or http(s) URLs, merged in order.
	// Empty means the built-in catalog.
	Sources []string      `yaml:"sources"`
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects where session records are kept.
type StoreConfig struct {
	Backend string `yaml:"backend"`
}

// ChecklistConfig controls session behaviour.
type ChecklistConfig struct {
	TemplateEdits string `yaml:"template_edits"`
	// RequireConfirmation blocks completion until the technician has
	// confirmed the vehicle is safe. A nil value means true.
	RequireConfirmation *bool  `yaml:"require_confirmation"`
	DateLayout          string `yaml:"date_layout"`
}

// ReportConfig controls report formatting.
type ReportConfig struct {
	// ShowStatus appends "(Done)" or "(Not Required)" to each line. A nil
	// value means true.
	ShowStatus *bool `yaml:"show_status"`
}

// DispatchConfig describes the completion mail.
type DispatchConfig struct {
	Recipients  []string `yaml:"recipients"`
	Subject     string   `yaml:"subject"`
	OpenCommand []string `yaml:"open_command"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// ServerConfig configures `jobcheck serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TUIConfig configures the interactive interface.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Sources: []string{},
			Timeout: 10 * time.Second,
		},
		Store: StoreConfig{Backend: BackendSQLite},
		Checklist: ChecklistConfig{
			TemplateEdits:       EditsSession,
			RequireConfirmation: ptr(true),
			DateLayout:          "02/01/2006, 15:04:05",
		},
		Report: ReportConfig{ShowStatus: ptr(true)},
		Dispatch: DispatchConfig{
			Recipients: []string{
				"workshop@example.com",
				"service-manager@example.com",
				"quality@example.com",
			},
			Subject:     "Completed Safety Checklist",
			OpenCommand: []string{"xdg-open"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8420"},
		TUI:    TUIConfig{Theme: "tokyo-night"},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file: %w", err)
		}
		cfg.ConfigDir = filepath.Dir(configPath)
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = defaults.Catalog.Timeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Checklist.TemplateEdits == "" {
		c.Checklist.TemplateEdits = defaults.Checklist.TemplateEdits
	}
	if c.Checklist.RequireConfirmation == nil {
		c.Checklist.RequireConfirmation = defaults.Checklist.RequireConfirmation
	}
	if c.Checklist.DateLayout == "" {
		c.Checklist.DateLayout = defaults.Checklist.DateLayout
	}
	if c.Report.ShowStatus == nil {
		c.Report.ShowStatus = defaults.Report.ShowStatus
	}
	if len(c.Dispatch.Recipients) == 0 {
		c.Dispatch.Recipients = defaults.Dispatch.Recipients
	}
	if c.Dispatch.Subject == "" {
		c.Dispatch.Subject = defaults.Dispatch.Subject
	}
	if len(c.Dispatch.OpenCommand) == 0 {
		c.Dispatch.OpenCommand = defaults.Dispatch.OpenCommand
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// ConfirmationRequired reports whether completion needs Confirmed.
func (c *Config) ConfirmationRequired() bool {
	return c.Checklist.RequireConfirmation == nil || *c.Checklist.RequireConfirmation
}

// ShowStatus reports whether report lines carry a status suffix.
func (c *Config) ShowStatus() bool {
	return c.Report.ShowStatus == nil || *c.Report.ShowStatus
}

// StoreFile returns the JSON store path used by the json backend.
func (c *Config) StoreFile() string {
	return filepath.Join(c.DataDir, "checklists.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "jobcheck.log")
}

func ptr[T any](v T) *T {
	return &v
}
