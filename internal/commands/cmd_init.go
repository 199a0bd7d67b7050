package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/jobcheck/internal/commands/init"
)

type InitCmd struct {
	flags      *Flags
	yes        bool
	force      bool
	recipients string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize jobcheck configuration with an interactive wizard",
		UsageText: "jobcheck init [options]",
		Description: `Sets up jobcheck for first-time use with an interactive wizard.

The wizard will:
  - Generate ~/.config/jobcheck/config.yaml
  - Ask for the completion mail recipients, store backend and theme
  - Optionally copy the built-in job types to an editable catalog.yaml

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "recipients",
				Usage:       "comma-separated completion mail recipients",
				Destination: &cmd.recipients,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Recipients: initcmd.SplitList(cmd.recipients),
	})
	return wizard.Run(ctx)
}
