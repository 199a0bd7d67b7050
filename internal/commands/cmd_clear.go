package commands

import (
	"context"

	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
)

type ClearCmd struct {
	flags *Flags
	app   *jobcheck.App
}

// NewClearCmd creates a new clear command
func NewClearCmd(flags *Flags, app *jobcheck.App) *ClearCmd {
	return &ClearCmd{flags: flags, app: app}
}

// Register adds the clear command to the application
func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "clear",
		Usage:         "Discard the saved checklist of a job type",
		UsageText:     "jobcheck clear <job-type>",
		Description:   "Deletes the saved record. The next open starts again from the template.",
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ClearCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}

	sess, err := cmd.app.Checklists.Open(ctx, jobType)
	if err != nil {
		return err
	}
	if _, err := cmd.app.Checklists.Clear(ctx, sess); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("cleared %s", jobType)
	return nil
}
