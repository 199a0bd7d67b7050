package executil

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("successful command", func(t *testing.T) {
		out, err := e.Run(ctx, "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := e.Run(ctx, "nonexistent-command-12345")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exec nonexistent-command-12345")
	})

	t.Run("exit error is preserved", func(t *testing.T) {
		_, err := e.Run(ctx, "sh", "-c", "echo nope >&2; exit 2")
		require.Error(t, err)

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.ExitCode())
	})

	t.Run("output is capped", func(t *testing.T) {
		out, err := e.Run(ctx, "sh", "-c", "printf '%s' "+strings.Repeat("A", maxOutputLen*2))
		require.NoError(t, err)
		assert.Len(t, out, maxOutputLen)
	})
}

func TestRecordingExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("records commands", func(t *testing.T) {
		e := &RecordingExecutor{}
		_, _ = e.Run(ctx, "xdg-open", "mailto:a@example.com")
		_, _ = e.Run(ctx, "open", "-a", "Mail")

		require.Len(t, e.Commands, 2)
		assert.Equal(t, "xdg-open", e.Commands[0].Cmd)
		assert.Equal(t, []string{"mailto:a@example.com"}, e.Commands[0].Args)
		assert.Equal(t, []string{"-a", "Mail"}, e.Commands[1].Args)

		e.Reset()
		assert.Empty(t, e.Commands)
	})

	t.Run("returns configured output and error", func(t *testing.T) {
		boom := errors.New("boom")
		e := &RecordingExecutor{
			Outputs: map[string][]byte{"xdg-open": []byte("opened")},
			Errors:  map[string]error{"open": boom},
		}

		out, err := e.Run(ctx, "xdg-open")
		require.NoError(t, err)
		assert.Equal(t, "opened", string(out))

		_, err = e.Run(ctx, "open")
		assert.ErrorIs(t, err, boom)
	})
}
