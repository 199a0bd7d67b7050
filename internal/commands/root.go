package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/jobcheck/internal/jobcheck"
)

// NewRoot builds the jobcheck command tree. app is populated by the caller's
// Before hook; commands only hold the pointer.
func NewRoot(flags *Flags, app *jobcheck.App) *cli.Command {
	root := &cli.Command{
		Name:      "jobcheck",
		Usage:     "Work through vehicle service checklists",
		UsageText: "jobcheck [global options] command [command options]",
		Description: `jobcheck keeps one checklist per job type. Technicians mark each check-point
done or not required, confirm the vehicle is safe, and complete the job to
open a mail draft with the finished report.

Run 'jobcheck' with no arguments to open the interactive checklist.
Run 'jobcheck jobs' to list job types and 'jobcheck show <job-type>' to print one.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("JOBCHECK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/jobcheck.log)",
				Sources:     cli.EnvVars("JOBCHECK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("JOBCHECK_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("JOBCHECK_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags, app)

	root = NewJobsCmd(flags, app).Register(root)
	root = NewShowCmd(flags, app).Register(root)
	root = NewPointCmd(flags, app).Register(root)
	root = NewSetCmd(flags, app).Register(root)
	root = NewReviewCmd(flags, app).Register(root)
	root = NewCompleteCmd(flags, app).Register(root)
	root = NewClearCmd(flags, app).Register(root)
	root = NewImportCmd(flags, app).Register(root)
	root = NewResetTemplateCmd(flags, app).Register(root)
	root = NewServeCmd(flags, app).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)
	root = NewDoctorCmd(flags, app).Register(root)
	root = NewInitCmd(flags).Register(root)
	root = NewDocCmd(flags).Register(root)

	// Register TUI flags on root command
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'jobcheck --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}
