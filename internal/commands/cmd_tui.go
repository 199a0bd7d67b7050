package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *jobcheck.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *jobcheck.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command.
// They are inherited by serve.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("JOBCHECK_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Usage:       "reload the catalog when its source files change",
			Sources:     cli.EnvVars("JOBCHECK_WATCH"),
			Destination: &cmd.flags.Watch,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	opts := tui.Options{LoadTimeout: cmd.app.Config.Catalog.Timeout}

	if cmd.flags.Watch {
		w, err := catalog.NewWatcher(cmd.app.Catalog, log.Logger)
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer func() { _ = w.Close() }()
		opts.Reloads = w.Subscribe()
	}

	p := tea.NewProgram(tui.New(cmd.app, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Dirty() {
		log.Warn().Str("job_type", m.Session().JobType).Msg("exited with unsaved changes")
	}
	return nil
}
