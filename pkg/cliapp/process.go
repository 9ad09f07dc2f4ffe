package cliapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/pterm/pterm"
)

// Process is the outcome of a command run through an Executor.
type Process struct {
	// Args are the arguments after variable expansion.
	Args []string
	// SafeForm is what gets logged: quoted, unexpanded and obfuscated.
	SafeForm   string
	ReturnCode int
	Stdout     string
	Stderr     string
	Duration   time.Duration
	DryRun     bool
}

// Command is a single invocation with its per-call settings.
type Command struct {
	Args      []string
	Obfuscate []ObfuscationPattern
	// ShowOutput streams the command's output to the executor's writers
	// while it is being captured.
	ShowOutput bool
	Timeout    time.Duration
	Stdin      io.Reader
}

/*
Executor runs external commands on behalf of actions. Every command is
logged in its safe form only; arguments matched by an obfuscation pattern are
replaced by the mask.

	process, err := ctx.Executor.Execute(
		ctx, []string{"security", "unlock-keychain", "-p", password, path},
		cliapp.Exact(password),
	)

A non-zero exit status is not an error; callers inspect Process.ReturnCode.
*/
type Executor struct {
	DryRun          bool
	Obfuscation     string
	DefaultPatterns []ObfuscationPattern
	// Timeout applies to commands that do not set their own.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *pterm.Logger
}

// Execute runs args and shows their output.
func (e *Executor) Execute(
	ctx context.Context, args []string, patterns ...ObfuscationPattern,
) (*Process, error) {
	return e.Run(ctx, Command{Args: args, Obfuscate: patterns, ShowOutput: true})
}

// Capture runs args without showing their output.
func (e *Executor) Capture(
	ctx context.Context, args []string, patterns ...ObfuscationPattern,
) (*Process, error) {
	return e.Run(ctx, Command{Args: args, Obfuscate: patterns})
}

func (e *Executor) Run(ctx context.Context, command Command) (*Process, error) {
	if len(command.Args) == 0 {
		return nil, errors.New("no command given")
	}
	patterns := append(append([]ObfuscationPattern{}, e.DefaultPatterns...),
		command.Obfuscate...)
	process := &Process{
		Args:     expandArguments(command.Args),
		SafeForm: SafeForm(command.Args, e.mask(), patterns...),
		DryRun:   e.DryRun,
	}

	if e.DryRun {
		e.logger().Info(fmt.Sprintf("Dry run %q", process.SafeForm))
		return process, nil
	}
	e.logger().Info(fmt.Sprintf("Execute %q", process.SafeForm))

	timeout := command.Timeout
	if timeout == 0 {
		timeout = e.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, process.Args[0], process.Args[1:]...)
	cmd.Stdin = command.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if command.ShowOutput {
		if e.Stdout != nil {
			cmd.Stdout = io.MultiWriter(&stdout, e.Stdout)
		}
		if e.Stderr != nil {
			cmd.Stderr = io.MultiWriter(&stderr, e.Stderr)
		}
	}

	start := time.Now()
	err := cmd.Run()
	process.Duration = time.Since(start)
	process.Stdout = stdout.String()
	process.Stderr = stderr.String()

	var exitError *exec.ExitError
	switch {
	case ctx.Err() != nil:
		process.ReturnCode = -1
		return process, fmt.Errorf("%s was interrupted: %w", process.SafeForm, ctx.Err())
	case errors.As(err, &exitError):
		process.ReturnCode = exitError.ExitCode()
	case err != nil:
		process.ReturnCode = -1
		return process, fmt.Errorf("cannot run %s: %w", process.SafeForm, err)
	}

	e.logger().Debug(fmt.Sprintf(
		"Completed %q with exit code %d in %s",
		process.SafeForm, process.ReturnCode, process.Duration.Round(time.Millisecond),
	))
	return process, nil
}

func (e *Executor) mask() string {
	if e.Obfuscation == "" {
		return DefaultObfuscation
	}
	return e.Obfuscation
}

func (e *Executor) logger() *pterm.Logger {
	if e.Logger == nil {
		return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return e.Logger
}
