package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/colonyops/jobcheck/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	jsonOutput bool
	noReport   bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *jobcheck.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a job type's checklist",
		UsageText: "jobcheck show <job-type> [--json] [--no-report]",
		Description: `Opens the checklist of a job type, restoring the saved state when there is
one, and prints its check-points followed by a preview of the completion report.

Check-points are numbered from 1; other commands take the same numbers.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the session as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "no-report",
				Usage:       "skip the report preview",
				Destination: &cmd.noReport,
			},
		},
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

// sessionView is the JSON output format for jobcheck show --json.
type sessionView struct {
	Session     *checklist.Session `json:"session"`
	Pending     int                `json:"pending"`
	Complete    bool               `json:"complete"`
	CanFinalize bool               `json:"canFinalize"`
	Report      string             `json:"report"`
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}

	sess, err := cmd.app.Checklists.Open(ctx, jobType)
	if err != nil {
		return err
	}

	report := cmd.app.Checklists.Report(sess)
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, sessionView{
			Session:     sess,
			Pending:     sess.Pending(),
			Complete:    sess.IsComplete(),
			CanFinalize: sess.CanFinalize(),
			Report:      report,
		})
	}

	printSession(out, sess)
	if cmd.noReport {
		return nil
	}

	_, _ = fmt.Fprintln(out)
	p := printer.New(out, c.Root().ErrWriter)
	p.Section("Report preview")
	_, _ = fmt.Fprintln(out, report)

	if _, err := cmd.app.Checklists.Finalize(ctx, sess); err != nil {
		printer.Ctx(ctx).Warnf("not ready to complete: %v", err)
	}
	return nil
}
