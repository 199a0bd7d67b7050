package config

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks the structural constraints of the configuration. It does
// no I/O; see ValidateDeep.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if !slices.Contains([]string{BackendSQLite, BackendJSON}, c.Store.Backend) {
		errs = errs.Append("store.backend", fmt.Errorf("must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Store.Backend))
	}

	if !slices.Contains([]string{EditsSession, EditsGlobal}, c.Checklist.TemplateEdits) {
		errs = errs.Append("checklist.template_edits", fmt.Errorf("must be %q or %q, got %q", EditsSession, EditsGlobal, c.Checklist.TemplateEdits))
	}

	if c.Catalog.Timeout < 0 {
		errs = errs.Append("catalog.timeout", fmt.Errorf("cannot be negative"))
	}
	for i, src := range c.Catalog.Sources {
		if strings.TrimSpace(src) == "" {
			errs = errs.Append(fmt.Sprintf("catalog.sources[%d]", i), fmt.Errorf("cannot be empty"))
		}
	}

	for i, r := range c.Dispatch.Recipients {
		if !strings.Contains(r, "@") {
			errs = errs.Append(fmt.Sprintf("dispatch.recipients[%d]", i), fmt.Errorf("%q is not an email address", r))
		}
	}

	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative"))
	}

	if c.Server.Addr == "" {
		errs = errs.Append("server.addr", fmt.Errorf("cannot be empty"))
	}

	return errs.ToError()
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility and catalog sources. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateCatalogSources(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.ConfirmationRequired() {
		warnings = append(warnings, ValidationWarning{
			Category: "Checklist",
			Item:     "require_confirmation",
			Message:  "checklists can be completed without the safety confirmation",
		})
	}

	for i, src := range c.Catalog.Sources {
		if strings.HasPrefix(src, "http://") {
			warnings = append(warnings, ValidationWarning{
				Category: "Catalog",
				Item:     fmt.Sprintf("sources[%d]", i),
				Message:  "catalog is fetched over plain http",
			})
		}
	}

	if c.Store.Backend == BackendJSON && c.Checklist.TemplateEdits == EditsGlobal {
		warnings = append(warnings, ValidationWarning{
			Category: "Store",
			Item:     "backend",
			Message:  "global template edits in the json store are not shared between machines",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and open command.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("dispatch.open_command", c.openExecutable(), commandExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) openExecutable() string {
	if len(c.Dispatch.OpenCommand) == 0 {
		return ""
	}
	return c.Dispatch.OpenCommand[0]
}

// commandExists validates that the path is executable.
func commandExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateCatalogSources checks that every local source matches at least one
// file. URLs are only checked when the catalog is loaded.
func (c *Config) validateCatalogSources() error {
	var errs criterio.FieldErrorsBuilder

	for i, src := range c.Catalog.Sources {
		l := catalog.Loader{Sources: []string{src}, BaseDir: c.ConfigDir}
		if _, err := l.Files(); err != nil {
			errs = errs.Append(fmt.Sprintf("catalog.sources[%d]", i), err)
		}
	}

	return errs.ToError()
}
