package errors

import (
	"fmt"
	"strings"
)

// AmbiguousMatchError reports that a finding's fingerprint matched more than
// one tracker issue. The engine never guesses which issue to update; the
// finding is skipped and the error recorded against the run.
type AmbiguousMatchError struct {
	Labels    []string
	IssueKeys []string
}

// Error implements the error interface for AmbiguousMatchError.
func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("more than one issue matched labels [%s]: %s",
		strings.Join(e.Labels, ", "), strings.Join(e.IssueKeys, ", "))
}

// NewAmbiguousMatchError creates a new AmbiguousMatchError instance.
func NewAmbiguousMatchError(labels, issueKeys []string) error {
	return &AmbiguousMatchError{
		Labels:    labels,
		IssueKeys: issueKeys,
	}
}

// CommandError represents an error that occurred during command execution,
// carrying the exit code the process should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance encapsulating the
// underlying error message and exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}
