package doctor

import (
	"context"
	"os/exec"

	"github.com/atotto/clipboard"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// clipboardUnsupported reports whether no clipboard utility is installed.
var clipboardUnsupported = func() bool { return clipboard.Unsupported }

// ToolsCheck verifies the mail opener and clipboard are usable.
type ToolsCheck struct {
	openCommand []string
}

// NewToolsCheck creates a new tools check for the configured open command.
func NewToolsCheck(openCommand []string) *ToolsCheck {
	return &ToolsCheck{openCommand: openCommand}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// Completion cannot open a mail draft without the opener.
	switch {
	case len(c.openCommand) == 0:
		result.fail("mail opener", "dispatch.open_command is empty")
	default:
		name := c.openCommand[0]
		if path, err := lookPathFunc(name); err != nil {
			result.fail(name, "not found on PATH (required to open the completion mail)")
		} else {
			result.pass(name, path)
		}
	}

	if clipboardUnsupported() {
		result.warn("clipboard", "no clipboard utility found (report copy unavailable)")
	} else {
		result.pass("clipboard", "")
	}

	return result
}
