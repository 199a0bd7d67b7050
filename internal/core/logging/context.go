package logging

import "context"

type contextKey string

const (
	jobTypeKey   contextKey = "job_type"
	jobNumberKey contextKey = "job_number"
)

// WithJobType adds the job type of the current checklist to the context.
func WithJobType(ctx context.Context, jobType string) context.Context {
	return context.WithValue(ctx, jobTypeKey, jobType)
}

// WithJobNumber adds the job number of the current checklist to the context.
func WithJobNumber(ctx context.Context, jobNumber string) context.Context {
	return context.WithValue(ctx, jobNumberKey, jobNumber)
}

// GetJobType retrieves the job type from the context.
// Returns empty string if not present.
func GetJobType(ctx context.Context) string {
	if v, ok := ctx.Value(jobTypeKey).(string); ok {
		return v
	}
	return ""
}

// GetJobNumber retrieves the job number from the context.
// Returns empty string if not present.
func GetJobNumber(ctx context.Context) string {
	if v, ok := ctx.Value(jobNumberKey).(string); ok {
		return v
	}
	return ""
}
