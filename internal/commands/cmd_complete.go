package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type CompleteCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	print bool
	copy  bool
	yes   bool
	clear bool

	// isTerminal reports whether prompts can be shown.
	isTerminal func() bool
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *jobcheck.App) *CompleteCmd {
	return &CompleteCmd{
		flags: flags,
		app:   app,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "complete",
		Usage:     "Finish a checklist and send the completion mail",
		UsageText: "jobcheck complete <job-type> [--print] [--copy] [--yes] [--clear]",
		Description: `Checks that every check-point is done or not required, the safety confirmation
is given and "Other Job" has a delegate. When it passes, the report is opened as a
mail draft with dispatch.open_command.

--print writes the draft to stdout instead. --copy also copies the report to the
clipboard. --clear discards the saved checklist after a successful dispatch.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "print",
				Usage:       "print the draft instead of opening the mail client",
				Destination: &cmd.print,
			},
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "copy the report to the clipboard",
				Destination: &cmd.copy,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "discard the saved checklist after dispatch",
				Destination: &cmd.clear,
			},
		},
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	p := printer.Ctx(ctx)

	svc := cmd.app.Checklists
	if sink := cmd.sink(c); sink != nil {
		svc = svc.WithSink(sink)
	}

	sess, err := svc.Open(ctx, jobType)
	if err != nil {
		return err
	}

	// Fail before prompting when the checklist is not ready.
	if _, err := svc.Finalize(ctx, sess); err != nil {
		return err
	}

	if !cmd.yes && !cmd.print && cmd.isTerminal() {
		send := true
		err := huh.NewConfirm().
			Title("Send completion mail?").
			Description(fmt.Sprintf("%s, job %s", sess.ResolvedJobType(), sess.JobNumber)).
			Value(&send).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !send {
			p.Infof("Completion cancelled")
			return nil
		}
	}

	draft, err := svc.Complete(ctx, sess)
	if err != nil {
		return err
	}

	if !cmd.print {
		p.Successf("mail draft opened for %d recipient(s)", len(draft.Recipients))
	}
	if cmd.copy {
		p.Successf("report copied to clipboard")
	}

	if cmd.clear {
		if _, err := svc.Clear(ctx, sess); err != nil {
			return err
		}
		p.Successf("cleared %s", jobType)
	}
	return nil
}

// sink returns the sink selected by flags, nil for the configured default.
func (cmd *CompleteCmd) sink(c *cli.Command) dispatch.Sink {
	var sinks dispatch.MultiSink
	if cmd.print {
		sinks = append(sinks, &dispatch.WriterSink{W: c.Root().Writer})
	}
	if cmd.copy {
		sinks = append(sinks, &dispatch.ClipboardSink{})
	}
	if len(sinks) == 0 {
		return nil
	}
	if !cmd.print {
		// --copy alone still opens the mail client.
		sinks = append(dispatch.MultiSink{cmd.app.Checklists.Sink()}, sinks...)
	}
	return sinks
}
