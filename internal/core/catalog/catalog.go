// Package catalog holds the job types a technician can open and the
// check-point templates for each of them.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// OtherJob is the generic job type. It has no template of its own and
// borrows the template of a delegate chosen when the session is opened.
const OtherJob = "Other Job"

var (
	// ErrNotFound is returned when a job type is not in the catalog.
	ErrNotFound = errors.New("job type not found")

	errNotLoaded = errors.New("not loaded yet")
)

// JobType is a named list of job-specific check-points, without the shared
// safety checks.
type JobType struct {
	Name   string   `json:"name"`
	Points []string `json:"points"`
}

// Catalog is an immutable, ordered set of job types. Methods return copies,
// so callers may modify the slices they receive.
type Catalog struct {
	jobTypes []JobType
	index    map[string]int
	safety   []string
}

// New builds a catalog. Later job types replace earlier ones with the same
// name in place. OtherJob is appended when missing.
func New(safetyChecks []string, jobTypes []JobType) *Catalog {
	c := &Catalog{
		index:  make(map[string]int, len(jobTypes)+1),
		safety: slices.Clone(safetyChecks),
	}

	for _, jt := range jobTypes {
		jt.Points = slices.Clone(jt.Points)
		if i, ok := c.index[jt.Name]; ok {
			c.jobTypes[i] = jt
			continue
		}
		c.index[jt.Name] = len(c.jobTypes)
		c.jobTypes = append(c.jobTypes, jt)
	}

	if _, ok := c.index[OtherJob]; !ok {
		c.index[OtherJob] = len(c.jobTypes)
		c.jobTypes = append(c.jobTypes, JobType{Name: OtherJob})
	}

	return c
}

// Names returns every job type name in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.jobTypes))
	for i, jt := range c.jobTypes {
		names[i] = jt.Name
	}
	return names
}

// Has reports whether name is a known job type.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Template returns the check-point texts a fresh session of name starts
// with: the job's own points followed by the safety checks. OtherJob has an
// empty template.
func (c *Catalog) Template(name string) ([]string, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if c.IsDelegating(name) {
		return []string{}, nil
	}

	jt := c.jobTypes[i]
	out := make([]string, 0, len(jt.Points)+len(c.safety))
	out = append(out, jt.Points...)
	out = append(out, c.safety...)
	return out, nil
}

// IsDelegating reports whether name needs a delegate before it can be
// completed.
func (c *Catalog) IsDelegating(name string) bool {
	return name == OtherJob
}

// DelegateCandidates lists the job types an OtherJob session may borrow a
// template from.
func (c *Catalog) DelegateCandidates() []string {
	var names []string
	for _, jt := range c.jobTypes {
		if !c.IsDelegating(jt.Name) {
			names = append(names, jt.Name)
		}
	}
	return names
}

// SafetyChecks returns the shared tail appended to every template.
func (c *Catalog) SafetyChecks() []string {
	return slices.Clone(c.safety)
}

// JobTypes returns the job types without safety checks, in order.
func (c *Catalog) JobTypes() []JobType {
	out := make([]JobType, len(c.jobTypes))
	for i, jt := range c.jobTypes {
		out[i] = JobType{Name: jt.Name, Points: slices.Clone(jt.Points)}
	}
	return out
}

// Len returns the number of job types.
func (c *Catalog) Len() int {
	return len(c.jobTypes)
}
