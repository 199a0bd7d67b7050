package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Dispatch.OpenCommand = []string{"sh"}
	return &cfg
}

func hasField(errs criterio.FieldErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"unknown template edits", func(c *Config) { c.Checklist.TemplateEdits = "forever" }, "checklist.template_edits"},
		{"negative timeout", func(c *Config) { c.Catalog.Timeout = -1 }, "catalog.timeout"},
		{"blank source", func(c *Config) { c.Catalog.Sources = []string{" "} }, "catalog.sources[0]"},
		{"bad recipient", func(c *Config) { c.Dispatch.Recipients = []string{"ok@example.com", "nobody"} }, "dispatch.recipients[1]"},
		{"no connections", func(c *Config) { c.Database.MaxOpenConns = 0 }, "database.max_open_conns"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.True(t, hasField(fieldErrs, tt.field), "expected error on %s, got %v", tt.field, fieldErrs)
		})
	}
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.yaml"), []byte("jobTypes:\n  A: [a]\n"), 0o644))

	cfg := validConfig(t)
	cfg.ConfigDir = dir
	cfg.Catalog.Sources = []string{"*.yaml", "https://example.com/catalog.json"}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_MissingCatalogSource(t *testing.T) {
	cfg := validConfig(t)
	cfg.ConfigDir = t.TempDir()
	cfg.Catalog.Sources = []string{"catalogs/*.yaml"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "catalog.sources[0]"))
}

func TestValidateDeep_OpenCommandNotFound(t *testing.T) {
	cfg := validConfig(t)
	cfg.Dispatch.OpenCommand = []string{"/nonexistent/path/to/opener"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "dispatch.open_command"))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	cfg := validConfig(t)
	cfg.DataDir = tmpFile

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "data_dir"))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "config_file"))
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	off := false
	cfg.Checklist.RequireConfirmation = &off
	cfg.Catalog.Sources = []string{"http://example.com/catalog.json"}
	cfg.Store.Backend = BackendJSON
	cfg.Checklist.TemplateEdits = EditsGlobal

	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, "Checklist", warnings[0].Category)
	assert.Equal(t, "Catalog", warnings[1].Category)
	assert.Equal(t, "Store", warnings[2].Category)
}
