package checklist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfRange is matched by every OutOfRangeError.
	ErrOutOfRange = errors.New("check-point index out of range")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("checklist cannot be completed")
	// ErrInvalidStatus is returned for unknown status values.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNoRecord is returned by Store.Load when nothing is saved for a job type.
	ErrNoRecord = errors.New("no saved checklist")
)

// OutOfRangeError reports an index mutation outside the current bounds.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("check-point %d out of range (checklist has %d)", e.Index, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ValidationError lists every reason a session cannot be finalized.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
