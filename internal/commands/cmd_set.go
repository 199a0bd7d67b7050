package commands

import (
	"context"
	"errors"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
)

type SetCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	jobNumber string
	confirm   bool
	delegate  string
}

// NewSetCmd creates a new set command
func NewSetCmd(flags *Flags, app *jobcheck.App) *SetCmd {
	return &SetCmd{flags: flags, app: app}
}

// Register adds the set command to the application
func (cmd *SetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "set",
		Usage:     "Set the job number, confirmation or delegate of a checklist",
		UsageText: "jobcheck set <job-type> [--job-number N] [--confirm[=false]] [--delegate NAME]",
		Description: `Updates the session fields of a checklist and saves it. Only the flags given
are applied.

--delegate is only valid for "Other Job" and replaces its check-points with the
template of the chosen job type.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "job-number",
				Aliases:     []string{"n"},
				Usage:       "job number printed on the report",
				Destination: &cmd.jobNumber,
			},
			&cli.BoolFlag{
				Name:        "confirm",
				Usage:       "confirm the vehicle is safe and ready for release",
				Destination: &cmd.confirm,
			},
			&cli.StringFlag{
				Name:        "delegate",
				Usage:       "job type whose template an Other Job session uses",
				Destination: &cmd.delegate,
			},
		},
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *SetCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}

	if !c.IsSet("job-number") && !c.IsSet("confirm") && !c.IsSet("delegate") {
		return errors.New("nothing to set; use --job-number, --confirm or --delegate")
	}

	// The delegate goes first; it replaces the points but keeps the
	// session fields.
	sess, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		if c.IsSet("delegate") {
			if err := cmd.app.Checklists.SetDelegate(ctx, s, cmd.delegate); err != nil {
				return err
			}
		}
		if c.IsSet("job-number") {
			s.SetJobNumber(cmd.jobNumber)
		}
		if c.IsSet("confirm") {
			s.SetConfirmed(cmd.confirm)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	if c.IsSet("delegate") {
		p.Successf("delegate %s (%d check-points)", sess.Delegate, len(sess.Points))
	}
	if c.IsSet("job-number") {
		p.Successf("job number %q", sess.JobNumber)
	}
	if c.IsSet("confirm") {
		p.Successf("confirmed: %s", yesNo(sess.Confirmed))
	}
	return nil
}
