package commands

import (
	"context"

	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
)

type ResetTemplateCmd struct {
	flags *Flags
	app   *jobcheck.App
}

// NewResetTemplateCmd creates a new reset-template command
func NewResetTemplateCmd(flags *Flags, app *jobcheck.App) *ResetTemplateCmd {
	return &ResetTemplateCmd{flags: flags, app: app}
}

// Register adds the reset-template command to the application
func (cmd *ResetTemplateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reset-template",
		Usage:     "Restore the catalog template of a job type",
		UsageText: "jobcheck reset-template <job-type>",
		Description: `With checklist.template_edits set to "global", saving a checklist also stores its
check-points as the template for later sessions. This removes that stored template
so new sessions start from the catalog again. Saved checklists are not changed.`,
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ResetTemplateCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}

	if err := cmd.app.Checklists.ResetTemplate(ctx, jobType); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("template of %s reset", jobType)
	return nil
}
