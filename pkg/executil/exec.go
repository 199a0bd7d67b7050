// Package executil runs external commands behind an interface so callers can
// swap in a recorder under test.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const maxOutputLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	origLen := len(p)
	if remaining := w.max - w.n; int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output, capped at 500
	// bytes so that chatty helpers cannot flood logs or the terminal.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

var _ Executor = (*RealExecutor)(nil)

func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	w := &limitedWriter{buf: &buf, max: maxOutputLen}

	c := exec.CommandContext(ctx, cmd, args...)
	c.Stdout = w
	c.Stderr = w
	if err := c.Run(); err != nil {
		return buf.Bytes(), fmt.Errorf("exec %s: %w", cmd, err)
	}
	return buf.Bytes(), nil
}
