package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/config"
)

type DocCmd struct {
	flags *Flags
	raw   bool

	// isTerminal reports whether guides are rendered for a terminal.
	isTerminal func() bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{
		flags: flags,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Reference documentation for file formats",
		Description: `Prints reference documentation for the files jobcheck reads.

Use 'jobcheck doc config' to print the default configuration.
Use 'jobcheck doc catalog' to see the job type catalog format.
Use 'jobcheck doc records' to see the saved checklist format accepted by import.

Guides are rendered as styled markdown on a terminal. Use --raw for plain markdown.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print guides as plain markdown",
				Destination: &cmd.raw,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Print the default configuration as YAML",
				Action: cmd.runConfig,
			},
			{
				Name:   "catalog",
				Usage:  "Show the catalog file format",
				Action: cmd.runCatalog,
			},
			{
				Name:   "records",
				Usage:  "Show the saved checklist format",
				Action: cmd.runRecords,
			},
		},
	})
	return app
}

func (cmd *DocCmd) runConfig(_ context.Context, c *cli.Command) error {
	out, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "# %s\n%s", DefaultConfigPath(), out)
	return nil
}

func (cmd *DocCmd) runCatalog(_ context.Context, c *cli.Command) error {
	return cmd.writeGuide(c.Root().Writer, catalogGuide)
}

func (cmd *DocCmd) runRecords(_ context.Context, c *cli.Command) error {
	return cmd.writeGuide(c.Root().Writer, recordsGuide)
}

func (cmd *DocCmd) writeGuide(w io.Writer, guide string) error {
	if cmd.raw || !cmd.isTerminal() {
		_, err := fmt.Fprintln(w, guide)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(guide)
	if err != nil {
		return fmt.Errorf("render guide: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

const catalogGuide = `# Job Type Catalog

Job types are loaded from catalog.sources in the config. Each source is a
file path, a glob pattern (doublestar syntax, e.g. catalogs/**/*.yaml) or an
http(s) URL. Sources are merged in order: a later job type with the same
name replaces the earlier one in place, and a non-empty safetyChecks list
replaces the earlier list. With no sources the built-in catalog is used.

## Format

YAML or JSON. Job types keep the order they are written in.

` + "```yaml" + `
safetyChecks:
  - Torque wheels to specification
  - Final road test vehicle
jobTypes:
  Tyres:
    - Inspect tyre tread depth and condition
    - Check and set tyre pressures
  Exhaust:
    - Check exhaust mountings
` + "```" + `

The safety checks are appended to every job type's check-points.
"` + catalog.OtherJob + `" is always present. It has no check-points of its own and
borrows those of the job type chosen for it.

Run 'jobcheck config validate' to check the sources load, or
'jobcheck --watch' to reload them while editing.`

const recordsGuide = `# Saved Checklists

One record is kept per job type. 'jobcheck import <job-type> -f FILE' reads
the same shape.

` + "```json" + `
{
  "jobNum": "J-1042",
  "date": "2026-03-14T09:30:00Z",
  "confirm": true,
  "doubleChecker": "Sam",
  "allOk": true,
  "jobType": "",
  "points": [
    {"id": "…", "text": "Check and set tyre pressures", "status": "done"}
  ]
}
` + "```" + `

status is one of pending, done or not_required. jobType holds the chosen
job type of an "` + catalog.OtherJob + `" checklist.

## Legacy records

Records exported from the browser version carry one pair of fields per
check-point instead of points. They are mapped onto the job type's
check-points by position and written back in the form above on the next
save.

` + "```json" + `
{"jobNum": "J-7", "date": "14/03/2026, 09:30:00", "confirm": false,
 "check0": true, "status0": "Done",
 "check1": false, "status1": "Not Required"}
` + "```"
