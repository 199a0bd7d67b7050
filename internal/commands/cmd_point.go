package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
)

type PointCmd struct {
	flags *Flags
	app   *jobcheck.App
}

// NewPointCmd creates a new point command
func NewPointCmd(flags *Flags, app *jobcheck.App) *PointCmd {
	return &PointCmd{flags: flags, app: app}
}

// Register adds the point command and its subcommands to the application
func (cmd *PointCmd) Register(app *cli.Command) *cli.Command {
	complete := JobTypeCompleter(cmd.app)

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "point",
		Usage: "Edit the check-points of a checklist",
		Description: `Each subcommand opens the job type's checklist, applies one change and saves it.

Check-points are numbered from 1 as printed by 'jobcheck show'.`,
		Commands: []*cli.Command{
			{
				Name:          "add",
				Usage:         "Append a check-point",
				UsageText:     "jobcheck point add <job-type> [text...]",
				ShellComplete: complete,
				Action:        cmd.runAdd,
			},
			{
				Name:          "edit",
				Usage:         "Replace the text of a check-point",
				UsageText:     "jobcheck point edit <job-type> <n> <text...>",
				ShellComplete: complete,
				Action:        cmd.runEdit,
			},
			{
				Name:          "rm",
				Usage:         "Remove a check-point",
				UsageText:     "jobcheck point rm <job-type> <n>",
				ShellComplete: complete,
				Action:        cmd.runRemove,
			},
			{
				Name:      "mark",
				Usage:     "Set the status of a check-point",
				UsageText: "jobcheck point mark <job-type> <n> <done|pending|n/a>",
				Description: `Sets the status explicitly. Accepted values: done, pending, not_required
(also "n/a", "na", "ok", "x", "todo").`,
				ShellComplete: complete,
				Action:        cmd.runMark,
			},
			{
				Name:          "toggle",
				Usage:         "Toggle a check-point between done and pending",
				UsageText:     "jobcheck point toggle <job-type> <n>",
				ShellComplete: complete,
				Action:        cmd.runToggle,
			},
		},
	})

	return app
}

func (cmd *PointCmd) runAdd(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	text := strings.Join(c.Args().Tail(), " ")

	var added int
	sess, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		added = s.Add(text)
		return nil
	})
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("added #%d %q", added+1, sess.Points[added].Text)
	return nil
}

func (cmd *PointCmd) runEdit(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	index, err := pointArg(c, 1)
	if err != nil {
		return err
	}
	text := strings.Join(c.Args().Slice()[min(2, c.Args().Len()):], " ")

	if _, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		return s.EditText(index, text)
	}); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("updated #%d", index+1)
	return nil
}

func (cmd *PointCmd) runRemove(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	index, err := pointArg(c, 1)
	if err != nil {
		return err
	}

	var removed string
	if _, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		if index >= 0 && index < len(s.Points) {
			removed = s.Points[index].Text
		}
		return s.Remove(index)
	}); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("removed %q", removed)
	return nil
}

func (cmd *PointCmd) runMark(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	index, err := pointArg(c, 1)
	if err != nil {
		return err
	}
	raw := strings.Join(c.Args().Slice()[min(2, c.Args().Len()):], " ")
	if raw == "" {
		return errors.New("status is required")
	}
	status, err := checklist.ParseStatus(raw)
	if err != nil {
		return err
	}

	if _, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		return s.SetStatus(index, status)
	}); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("#%d %s", index+1, status.Label())
	return nil
}

func (cmd *PointCmd) runToggle(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	index, err := pointArg(c, 1)
	if err != nil {
		return err
	}

	sess, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		return s.Toggle(index)
	})
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("#%d %s", index+1, sess.Points[index].Status.Label())
	return nil
}
