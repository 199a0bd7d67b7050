package commands

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/colonyops/jobcheck/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type JobsCmd struct {
	flags *Flags
	app   *jobcheck.App

	// flags
	jsonOutput bool
}

// NewJobsCmd creates a new jobs command
func NewJobsCmd(flags *Flags, app *jobcheck.App) *JobsCmd {
	return &JobsCmd{flags: flags, app: app}
}

// Register adds the jobs command to the application
func (cmd *JobsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "jobs",
		Usage:     "List job types",
		UsageText: "jobcheck jobs [--json]",
		Description: `Lists the job types of the loaded catalog in catalog order.

Job types with a saved checklist are marked. Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// jobInfo is the JSON output format for jobcheck jobs --json.
type jobInfo struct {
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Delegating bool   `json:"delegating"`
	Saved      bool   `json:"saved"`
}

func (cmd *JobsCmd) run(ctx context.Context, c *cli.Command) error {
	cat, err := cmd.app.Checklists.Catalog()
	if err != nil {
		return err
	}

	saved, err := cmd.app.Checklists.Saved(ctx)
	if err != nil {
		return fmt.Errorf("list saved checklists: %w", err)
	}

	var infos []jobInfo
	for _, name := range cat.Names() {
		tmpl, _ := cat.Template(name)
		infos = append(infos, jobInfo{
			Name:       name,
			Points:     len(tmpl),
			Delegating: cat.IsDelegating(name),
			Saved:      slices.Contains(saved, name),
		})
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode job type: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "JOB TYPE\tPOINTS\tSAVED")
	for _, info := range infos {
		points := fmt.Sprintf("%d", info.Points)
		if info.Delegating {
			points = "delegate"
		}
		mark := ""
		if info.Saved {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, points, mark)
	}
	return w.Flush()
}
