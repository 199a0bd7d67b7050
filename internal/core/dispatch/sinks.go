package dispatch

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/colonyops/jobcheck/pkg/executil"
	"github.com/colonyops/jobcheck/pkg/tmpl"
)

// DefaultOpenCommand opens URLs with the desktop's default handler.
var DefaultOpenCommand = []string{"xdg-open"}

// OpenerSink passes the mailto: URL to an external command, which opens a
// pre-filled draft in the user's mail client.
//
// When any element of Command contains a template action, every element is
// rendered with an OpenData and the URL is not appended.
type OpenerSink struct {
	Exec    executil.Executor
	Command []string
}

// OpenData is the template data for templated open commands.
type OpenData struct {
	URL        string
	Recipients []string
	Subject    string
	Body       string
}

func (s *OpenerSink) Dispatch(ctx context.Context, d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}

	command := s.Command
	if len(command) == 0 {
		command = DefaultOpenCommand
	}

	args, err := openArgs(command, d)
	if err != nil {
		return fmt.Errorf("open mail draft: %w", err)
	}
	if out, err := s.Exec.Run(ctx, args[0], args[1:]...); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("open mail draft: %s: %w", msg, err)
		}
		return fmt.Errorf("open mail draft: %w", err)
	}
	return nil
}

func openArgs(command []string, d Draft) ([]string, error) {
	if !slices.ContainsFunc(command, tmpl.IsTemplate) {
		return append(slices.Clone(command), d.MailtoURL()), nil
	}
	return tmpl.RenderAll(command, OpenData{
		URL:        d.MailtoURL(),
		Recipients: d.Recipients,
		Subject:    d.Subject,
		Body:       d.Body,
	})
}

// WriterSink prints the draft instead of opening a mail client.
type WriterSink struct {
	W io.Writer
}

func (s *WriterSink) Dispatch(ctx context.Context, d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(s.W, "To: %s\nSubject: %s\n\n%s\n\n%s\n",
		strings.Join(d.Recipients, ", "), d.Subject, d.Body, d.MailtoURL())
	return err
}

// ClipboardSink copies the report body to the system clipboard.
type ClipboardSink struct {
	// Write replaces clipboard.WriteAll when set.
	Write func(string) error
}

func (s *ClipboardSink) Dispatch(ctx context.Context, d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}

	write := s.Write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(d.Body); err != nil {
		return fmt.Errorf("copy report: %w", err)
	}
	return nil
}

// MultiSink dispatches to every sink in order and stops at the first error.
type MultiSink []Sink

func (m MultiSink) Dispatch(ctx context.Context, d Draft) error {
	for _, s := range m {
		if err := s.Dispatch(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
