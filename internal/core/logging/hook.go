package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts job_type and job_number from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if jobType := GetJobType(ctx); jobType != "" {
		e.Str("job_type", jobType)
	}

	if jobNumber := GetJobNumber(ctx); jobNumber != "" {
		e.Str("job_number", jobNumber)
	}
}
