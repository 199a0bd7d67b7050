package styles

import "github.com/colonyops/jobcheck/internal/core/checklist"

// Status icons used in the checklist views.
var (
	IconDone        = "[x]"
	IconPending     = "[ ]"
	IconNotRequired = "[-]"
)

// StatusIcon returns the box drawn in front of a check-point.
func StatusIcon(st checklist.Status) string {
	switch st {
	case checklist.StatusDone:
		return IconDone
	case checklist.StatusNotRequired:
		return IconNotRequired
	default:
		return IconPending
	}
}
