package main

import "fmt"

// Exit codes for the windatlas CLI.
const (
	ExitOK          = 0 // Command succeeded.
	ExitInvalidArgs = 1 // Invalid arguments, flags or configuration.
	ExitDataError   = 2 // The dataset could not be loaded or failed validation.
)

// exitCodeError carries a process exit code up to main.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. An empty message falls back to a
// generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitDataError:
			msg = "windatlas: dataset is not usable"
		default:
			msg = "windatlas: invalid arguments"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
