package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/styles"
	"github.com/colonyops/jobcheck/internal/jobcheck"
	"github.com/urfave/cli/v3"
)

var errJobTypeRequired = errors.New("job type is required")

// jobTypeArg returns the job type given as the first positional argument.
func jobTypeArg(c *cli.Command) (string, error) {
	jobType := strings.TrimSpace(c.Args().First())
	if jobType == "" {
		return "", errJobTypeRequired
	}
	return jobType, nil
}

// pointArg parses the 1-based check-point number at position pos into a
// session index.
func pointArg(c *cli.Command, pos int) (int, error) {
	raw := c.Args().Get(pos)
	if raw == "" {
		return 0, errors.New("check-point number is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid check-point number %q", raw)
	}
	return n - 1, nil
}

// mutate opens jobType, applies fn and saves the result. Nothing is saved
// when fn fails.
func mutate(ctx context.Context, app *jobcheck.App, jobType string, fn func(*checklist.Session) error) (*checklist.Session, error) {
	sess, err := app.Checklists.Open(ctx, jobType)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := app.Checklists.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// printSession writes the session as a numbered table followed by its
// completion state.
func printSession(w io.Writer, sess *checklist.Session) {
	title := sess.JobType
	if sess.Delegating {
		delegate := sess.Delegate
		if delegate == "" {
			delegate = "no delegate"
		}
		title += " (" + delegate + ")"
	}
	_, _ = fmt.Fprintln(w, styles.TitleStyle.Render(title))

	jobNumber := sess.JobNumber
	if jobNumber == "" {
		jobNumber = "-"
	}
	_, _ = fmt.Fprintf(w, "Job number: %s\n\n", jobNumber)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tSTATUS\tCHECK")
	for i, p := range sess.Points {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, styles.StatusIcon(p.Status), p.Text)
	}
	_ = tw.Flush()

	reviewer := "-"
	if sess.Reviewer != nil {
		reviewer = sess.Reviewer.Name
		if sess.Reviewer.AllOK {
			reviewer += " (all OK)"
		}
	}

	_, _ = fmt.Fprintf(w, "\nPending: %d  Confirmed: %s  Reviewer: %s\n",
		sess.Pending(), yesNo(sess.Confirmed), reviewer)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
