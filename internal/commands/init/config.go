package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/config"
)

// CatalogFile is the starter catalog written next to the config.
const CatalogFile = "catalog.yaml"

// ConfigOptions holds the answers that go into the generated config.
type ConfigOptions struct {
	Recipients []string
	Backend    string
	Theme      string
	// Catalog writes the built-in catalog next to the config and points
	// catalog.sources at it.
	Catalog bool
}

// GenerateConfig builds the config written by init.
func GenerateConfig(opts ConfigOptions) config.Config {
	cfg := config.DefaultConfig()
	if len(opts.Recipients) > 0 {
		cfg.Dispatch.Recipients = opts.Recipients
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.Theme != "" {
		cfg.TUI.Theme = opts.Theme
	}
	if opts.Catalog {
		cfg.Catalog.Sources = []string{CatalogFile}
	}
	return cfg
}

// WriteConfig writes cfg as YAML to path, creating parent directories.
func WriteConfig(cfg config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteCatalog writes the built-in catalog next to configPath unless a
// catalog file is already there. It returns the catalog path and whether it
// was written.
func WriteCatalog(configPath string) (string, bool, error) {
	path := filepath.Join(filepath.Dir(configPath), CatalogFile)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.WriteFile(path, catalog.DefaultDocument(), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}
