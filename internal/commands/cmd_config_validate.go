package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/jobcheck/internal/core/config"
	"github.com/colonyops/jobcheck/internal/core/styles"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/colonyops/jobcheck/pkg/iojson"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "jobcheck config validate [options]",
				Description: "Validates the configuration file, checking file paths, the mail opener command and every catalog source.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationResult is the JSON output format for config validate.
type validationResult struct {
	Valid    bool                       `json:"valid"`
	Fields   []string                   `json:"fields,omitempty"`
	Error    string                     `json:"error,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	err := cfg.ValidateDeep(cmd.flags.ConfigPath)

	result := validationResult{
		Valid:    err == nil,
		Warnings: cfg.Warnings(),
	}
	if err != nil {
		result.Error = err.Error()
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Fields = append(result.Fields, fe.Field)
			}
		}
	}

	if cmd.format == "json" {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
		if !result.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	return cmd.outputText(printer.Ctx(ctx), result)
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, result validationResult) error {
	p.Printf("Config:    %s", cmd.flags.ConfigPath)
	p.Printf("Data dir:  %s", cmd.flags.Config.DataDir)
	p.Printf("Store:     %s", cmd.flags.Config.Store.Backend)
	p.Printf("Theme:     %s (available: %s)", cmd.flags.Config.TUI.Theme, fmt.Sprint(styles.ThemeNames()))
	p.Printf("")

	for _, warn := range result.Warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	if result.Valid {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%s", result.Error)
	p.Errorf("%d field(s) invalid", max(len(result.Fields), 1))
	return cli.Exit("", 1)
}
