package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/printer"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type ReviewCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	name  string
	allOK bool
	clear bool

	// isTerminal reports whether prompts can be shown.
	isTerminal func() bool
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags, app *jobcheck.App) *ReviewCmd {
	return &ReviewCmd{
		flags: flags,
		app:   app,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Record a secondary reviewer sign-off",
		UsageText: "jobcheck review <job-type> [--name NAME] [--all-ok] [--clear]",
		Description: `Records who reviewed the checklist and whether they found everything OK.

Without --name an interactive form is shown. The sign-off is kept with the saved
checklist; it is not part of the completion report.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "reviewer name",
				Destination: &cmd.name,
			},
			&cli.BoolFlag{
				Name:        "all-ok",
				Usage:       "the reviewer found everything OK",
				Destination: &cmd.allOK,
			},
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "remove the sign-off",
				Destination: &cmd.clear,
			},
		},
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}
	p := printer.Ctx(ctx)

	if cmd.clear {
		if _, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
			s.ClearReviewer()
			return nil
		}); err != nil {
			return err
		}
		p.Successf("reviewer cleared")
		return nil
	}

	if strings.TrimSpace(cmd.name) == "" {
		if !cmd.isTerminal() {
			return errors.New("--name is required when stdin is not a terminal")
		}
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("review form: %w", err)
		}
	}

	sess, err := mutate(ctx, cmd.app, jobType, func(s *checklist.Session) error {
		return s.SetReviewer(cmd.name, cmd.allOK)
	})
	if err != nil {
		return err
	}

	p.Successf("reviewed by %s (all OK: %s)", sess.Reviewer.Name, yesNo(sess.Reviewer.AllOK))
	return nil
}

func (cmd *ReviewCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reviewer name").
				Validate(validateName).
				Value(&cmd.name),
			huh.NewConfirm().
				Title("All checks OK?").
				Value(&cmd.allOK),
		),
	).Run()
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
