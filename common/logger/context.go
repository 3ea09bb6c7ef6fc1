package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, so a sync run id set once at the top of a
// run shows up on every log line emitted below it.
type LogFields struct {
	SyncRunID  *int64  // sync_run row ID
	TaskType   *string // Queue task type (e.g., "issue_sync", "project_sync")
	MessageID  *string // Redis stream message ID
	ProjectKey *string // Jira project key
	IssueKey   *string // Jira issue key (e.g., "ABC-123")
	Page       *int    // 1-based page number within a fetch session
	Component  string  // Component name (OTel semantic convention style, e.g., "issuesync.service.issue_sync")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.SyncRunID != nil {
		result.SyncRunID = new.SyncRunID
	}
	if new.TaskType != nil {
		result.TaskType = new.TaskType
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.ProjectKey != nil {
		result.ProjectKey = new.ProjectKey
	}
	if new.IssueKey != nil {
		result.IssueKey = new.IssueKey
	}
	if new.Page != nil {
		result.Page = new.Page
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{SyncRunID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like JQL or response bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
