package cliapp

import (
	"fmt"
	"strings"
)

/*
AppError is a domain failure that should end the program. When it wraps the
result of a subprocess, the subprocess's exit code is propagated.

    process, err := executor.Execute(ctx, args)
    if err != nil {
        return err
    }
    if process.ReturnCode != 0 {
        return cliapp.NewAppError("Failed to set code signing settings", process)
    }
*/
type AppError struct {
	Message string
	Process *Process
}

func NewAppError(message string, process *Process) *AppError {
	return &AppError{Message: message, Process: process}
}

func (e *AppError) Error() string {
	if e.Process == nil {
		return e.Message
	}
	return fmt.Sprintf("Running %s failed with exit code %d: %s",
		e.Process.SafeForm, e.Process.ReturnCode, e.Message)
}

// ExitCode is the subprocess's exit code if there is one, 1 otherwise.
func (e *AppError) ExitCode() int {
	if e.Process != nil && e.Process.ReturnCode > 0 {
		return e.Process.ReturnCode
	}
	return 1
}

// ArgumentError is returned when user input fails validation. It is always
// reported before any handler runs.
type ArgumentError struct {
	Flag    string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Flag == "" {
		return e.Message
	}
	return fmt.Sprintf("argument %s: %s", e.Flag, e.Message)
}

// ConfigurationError means actions or tools were declared incorrectly.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "invalid action configuration: " + e.Message
}

func configurationErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// usageError is returned when no action was selected; help has already been
// printed.
type usageError struct {
	command string
}

func (e *usageError) Error() string {
	if e.command == "" {
		return "no command given"
	}
	return fmt.Sprintf("no action given for %s", e.command)
}

// actionFailure marks errors that escaped a handler, as opposed to errors from
// parsing the command line.
type actionFailure struct {
	err error
}

func (e *actionFailure) Error() string { return e.err.Error() }

func (e *actionFailure) Unwrap() error { return e.err }

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}
