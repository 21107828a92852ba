package domain

// DocType classifies the Bill of Lading variant.
type DocType string

const (
	DocTypeHBL     DocType = "hbl"
	DocTypeMBL     DocType = "mbl"
	DocTypeUnknown DocType = "unknown"
)

// EmailStatus classifies the originating email body.
type EmailStatus string

const (
	EmailStatusPreAlert EmailStatus = "pre_alert"
	EmailStatusDraft    EmailStatus = "draft"
	EmailStatusUnknown  EmailStatus = "unknown"
)

// JobStatus represents the lifecycle of a processing job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// LogLevel is the severity of a job log entry.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)
