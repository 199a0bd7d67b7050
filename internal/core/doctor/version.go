package doctor

import (
	"context"
	"errors"

	"github.com/colonyops/jobcheck/internal/core/updatecheck"
)

// VersionCheck compares the running version with the latest release.
type VersionCheck struct {
	checker *updatecheck.Checker
	version string
}

// NewVersionCheck creates a version check for the running version.
func NewVersionCheck(checker *updatecheck.Checker, version string) *VersionCheck {
	return &VersionCheck{checker: checker, version: version}
}

func (c *VersionCheck) Name() string {
	return "Version"
}

func (c *VersionCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	res, err := c.checker.Check(ctx, c.version)
	switch {
	case errors.Is(err, updatecheck.ErrUnknownVersion):
		result.pass("jobcheck", "development build")
	case err != nil:
		result.warn("latest release", err.Error())
	case res.Available:
		result.warn("jobcheck "+res.Current, "update available: "+res.Latest)
	default:
		result.pass("jobcheck "+res.Current, "up to date")
	}

	return result
}
