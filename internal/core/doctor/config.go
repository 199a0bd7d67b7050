package doctor

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/styles"
)

// ConfigCheck reports on the loaded configuration.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch _, err := os.Stat(c.path); {
	case c.path == "":
		result.warn("config file", "none given, using defaults")
	case os.IsNotExist(err):
		result.warn("config file", c.path+" not found, using defaults")
	case err != nil:
		result.fail("config file", err.Error())
	default:
		result.pass("config file", c.path)
	}

	if slices.Contains(styles.ThemeNames(), c.cfg.TUI.Theme) {
		result.pass("theme", c.cfg.TUI.Theme)
	} else {
		result.fail("theme", fmt.Sprintf("unknown theme %q", c.cfg.TUI.Theme))
	}

	v := validator.New()
	for _, r := range c.cfg.Dispatch.Recipients {
		if err := v.Var(r, "required,email"); err != nil {
			result.fail("recipient", fmt.Sprintf("%q is not a mail address", r))
			continue
		}
		result.pass("recipient", r)
	}

	if c.cfg.ConfirmationRequired() {
		result.pass("safety confirmation", "required before completion")
	} else {
		result.warn("safety confirmation", "checklist.require_confirmation is off")
	}

	return result
}
