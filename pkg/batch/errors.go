package batch

import (
	"errors"
	"fmt"
)

// ConfigError indicates a job definition or launcher configuration failed
// local validation. It is always raised before any network call is made.
type ConfigError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Message describes the validation failure.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("batch config: %s: %s", e.Field, e.Message)
}

// SubmissionError indicates the remote service rejected a definition
// registration or a job submission. It is fatal and not retried by this
// package; an outer caller may retry the whole launch.
type SubmissionError struct {
	// Op is the API operation that failed ("RegisterJobDefinition" or "SubmitJob").
	Op string

	// JobName is the compiled job definition name.
	JobName string

	// Err is the underlying service error.
	Err error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("batch %s: %s: %v", e.Op, e.JobName, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// StatusQueryError indicates the status-polling call itself failed at the
// transport or service level. Polling does not retry a failed query.
type StatusQueryError struct {
	// JobID is the submitted job's identifier.
	JobID string

	// Err is the underlying query error.
	Err error
}

// Error implements the error interface.
func (e *StatusQueryError) Error() string {
	return fmt.Sprintf("batch describe job %s: %v", e.JobID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StatusQueryError) Unwrap() error {
	return e.Err
}

// JobExecutionError indicates the remote job reached the failed terminal
// status. It carries the remote-supplied status reason, or "Unknown" if the
// service provided none.
type JobExecutionError struct {
	// JobID is the submitted job's identifier.
	JobID string

	// Reason is the remote diagnostic text for the failure.
	Reason string
}

// Error implements the error interface.
func (e *JobExecutionError) Error() string {
	return fmt.Sprintf("batch job %s failed: %s", e.JobID, e.Reason)
}

// IsConfigError returns true if the error is a local validation failure.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsSubmissionError returns true if the error is a remote submission rejection.
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

// IsStatusQueryError returns true if the error is a failed status query.
func IsStatusQueryError(err error) bool {
	var qe *StatusQueryError
	return errors.As(err, &qe)
}

// IsJobExecutionError returns true if the error is a failed remote job.
func IsJobExecutionError(err error) bool {
	var je *JobExecutionError
	return errors.As(err, &je)
}
