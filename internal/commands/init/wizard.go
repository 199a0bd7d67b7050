// Package initcmd implements the first-run setup wizard.
package initcmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/styles"
	"github.com/colonyops/jobcheck/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
	// Recipients are pre-specified mail recipients (nil = prompt).
	Recipients []string
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if Exists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	opts := ConfigOptions{
		Recipients: w.opts.Recipients,
		Backend:    config.BackendSQLite,
		Theme:      config.DefaultConfig().TUI.Theme,
		Catalog:    true,
	}

	if !w.opts.Yes {
		var err error
		opts, err = w.promptUser(opts)
		if err != nil {
			return err
		}
	}

	if Exists(w.opts.ConfigPath) {
		backupPath, err := Backup(w.opts.ConfigPath, time.Now())
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(GenerateConfig(opts), w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if opts.Catalog {
		path, written, err := WriteCatalog(w.opts.ConfigPath)
		switch {
		case err != nil:
			p.Warnf("Failed to write catalog: %v", err)
		case written:
			p.Successf("Created catalog: %s", path)
		default:
			p.Infof("Kept existing catalog: %s", path)
		}
	}

	// Load the result back so a bad answer shows up now.
	p.Printf("")
	if _, err := config.Load(w.opts.ConfigPath, w.opts.DataDir); err != nil {
		p.Errorf("Config does not load: %v", err)
		return err
	}
	p.Successf("Config loads")

	w.printNextSteps(p, opts.Catalog)
	return nil
}

func (w *Wizard) promptUser(opts ConfigOptions) (ConfigOptions, error) {
	recipients := strings.Join(opts.Recipients, ", ")
	if recipients == "" {
		recipients = strings.Join(config.DefaultConfig().Dispatch.Recipients, ", ")
	}

	themeOptions := make([]huh.Option[string], 0)
	for _, name := range styles.ThemeNames() {
		themeOptions = append(themeOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Completion mail recipients").
			Description("Comma-separated addresses the completed checklist is sent to").
			Value(&recipients),
		huh.NewSelect[string]().
			Title("Where should checklists be saved?").
			Options(
				huh.NewOption("SQLite database", config.BackendSQLite),
				huh.NewOption("JSON file", config.BackendJSON),
			).
			Value(&opts.Backend),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&opts.Theme),
		huh.NewConfirm().
			Title("Write an editable job type catalog?").
			Description("Copies the built-in job types to " + CatalogFile + " next to the config").
			Value(&opts.Catalog),
	))
	if err := form.Run(); err != nil {
		return opts, err
	}

	opts.Recipients = SplitList(recipients)
	return opts, nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, wroteCatalog bool) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if wroteCatalog {
		p.Printf("  %d. Edit %s to match your workshop's job types", step, CatalogFile)
		step++
	}
	p.Printf("  %d. Run 'jobcheck doctor' to check the setup", step)
	step++
	p.Printf("  %d. Run 'jobcheck' to open the checklist", step)
}

// SplitList splits a comma-separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
