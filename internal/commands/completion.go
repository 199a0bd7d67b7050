package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/urfave/cli/v3"
)

// JobTypeCompleter returns a ShellCompleteFunc that suggests job type names
// for the first positional argument. Set this as the ShellComplete field on
// any cli.Command that takes a job type.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func JobTypeCompleter(app *jobcheck.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
			// Only the job type is completed.
			if args.Len() > 1 {
				return
			}
		}

		names, err := app.Checklists.JobTypes()
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, name := range names {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}
