package checklist

import "fmt"

// Status represents the completion state of a single check-point.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDone        Status = "done"
	StatusNotRequired Status = "not_required"
)

// ParseStatus converts user input into a Status. It accepts the stored
// values as well as the display labels and a few short forms.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending", "Pending", "todo", "":
		return StatusPending, nil
	case "done", "Done", "ok", "x":
		return StatusDone, nil
	case "not_required", "not-required", "Not Required", "n/a", "na":
		return StatusNotRequired, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone, StatusNotRequired:
		return true
	default:
		return false
	}
}

// Resolved reports whether the status counts towards completion.
func (s Status) Resolved() bool {
	return s == StatusDone || s == StatusNotRequired
}

// Label returns the human readable form used in reports.
func (s Status) Label() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusNotRequired:
		return "Not Required"
	case StatusPending:
		return "Pending"
	default:
		return string(s)
	}
}
