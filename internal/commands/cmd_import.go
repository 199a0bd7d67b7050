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

type ImportCmd struct {
	flags  *Flags
	app    *jobcheck.App
	reader iojson.FileReader[checklist.Record]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *jobcheck.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import a saved checklist record",
		UsageText: "jobcheck import <job-type> [-f record.json]",
		Description: `Reads a checklist record as JSON from --file or stdin and stores it as the saved
checklist of the job type, replacing any existing one.

Both the current record shape ({"points": [{"id","text","status"}], ...}) and the
older flat shape keyed by check-point index ({"check0": true, "status1": "na",
"jobNum": ...}) are accepted. Older records are converted on import.`,
		Flags:         []cli.Flag{cmd.reader.Flag()},
		ShellComplete: JobTypeCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	jobType, err := jobTypeArg(c)
	if err != nil {
		return err
	}

	rec, err := cmd.reader.Read()
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}

	sess, err := cmd.app.Checklists.Import(ctx, jobType, rec)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("imported %s: %d check-points, %d pending", jobType, len(sess.Points), sess.Pending())
	return nil
}
