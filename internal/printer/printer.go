// Package printer writes human readable command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colonyops/jobcheck/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled lines to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a printer. Errors and warnings go to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout and
// stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.CommandStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.WarningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Section prints a header followed by a divider.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
	_, _ = fmt.Fprintln(p.out, styles.DividerStyle.Render(strings.Repeat("─", max(len([]rune(title)), 3))))
}
