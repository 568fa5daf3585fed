package argparse

import (
	"fmt"
)

// ErrorHandling defines how Parser.ParseArgs behaves if the parse fails or
// help is requested.
type ErrorHandling int

const (
	// ContinueOnError returns the *ExitError to the caller.
	ContinueOnError ErrorHandling = iota
	// ExitOnError prints usage and message and terminates the process.
	ExitOnError
)

// ExitError carries the status the parser would exit with. Status 0 means
// help or version output was written.
type ExitError struct {
	Status  int
	Message string
	Usage   string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Status)
	}
	return e.Message
}

func (e *ExitError) ExitCode() int {
	return e.Status
}

// usageError is the internal error type of a failed parse; ParseArgs turns
// it into an *ExitError with status 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func errorf(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
