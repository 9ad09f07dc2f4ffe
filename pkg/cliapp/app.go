package cliapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// App is the entry point of a program built from tools.
type App struct {
	Name    string
	Usage   string
	Version string
	// Flags are accepted before the tool name and can be read by handlers
	// through Context.GlobalString.
	Flags  []cli.Flag
	Stdout io.Writer
	Stderr io.Writer
	// DryRun makes every handler's executor log commands instead of running
	// them.
	DryRun bool
	// ObfuscatePatterns apply to every command run by every handler.
	ObfuscatePatterns []ObfuscationPattern

	tools map[string]*Tool
}

func NewApp(name, usage, version string) *App {
	return &App{
		Name:    name,
		Usage:   usage,
		Version: version,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		tools:   make(map[string]*Tool),
	}
}

// AddTool registers a tool. Tool names must be unique and every tool needs a
// description and at least one action.
func (a *App) AddTool(tool *Tool) error {
	err := tool.validate()
	if err != nil {
		return err
	}
	if _, exists := a.tools[tool.Name]; exists {
		return configurationErrorf("tool %s is registered twice", tool.Name)
	}
	a.tools[tool.Name] = tool
	return nil
}

func (a *App) MustAddTool(tools ...*Tool) {
	for _, tool := range tools {
		err := a.AddTool(tool)
		if err != nil {
			panic(err)
		}
	}
}

// Lookup finds the action invoked as `<tool> <action>`.
func (a *App) Lookup(toolName, actionName string) (*Action, bool) {
	tool, ok := a.tools[toolName]
	if !ok {
		return nil, false
	}
	return tool.Lookup(actionName)
}

/*
Run parses args (args[0] is the program name), dispatches to the selected
action and returns the exit status:

	0    the action succeeded
	1    the action failed
	2    the command line was invalid
	130  the invocation was interrupted
	n    an *AppError carried a subprocess that exited with status n
*/
func (a *App) Run(ctx context.Context, args []string) int {
	err := a.cliApp().RunContext(ctx, args)
	return a.exitCode(err)
}

func (a *App) cliApp() *cli.App {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	var commands []*cli.Command
	for _, name := range names {
		commands = append(commands, a.tools[name].command(a))
	}

	return &cli.App{
		Name:                   a.Name,
		Usage:                  a.Usage,
		Version:                a.Version,
		Flags:                  a.Flags,
		Commands:               commands,
		Writer:                 a.Stdout,
		ErrWriter:              a.Stderr,
		UseShortOptionHandling: true,
		// Exit codes are decided by Run, never by urfave/cli.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				fmt.Fprintf(a.Stderr, "Unknown tool %q\n\n", c.Args().First())
			}
			_ = cli.ShowAppHelp(c)
			return &usageError{}
		},
	}
}

func (a *App) exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	errorColor := color.New(color.FgRed).SprintfFunc()

	var appError *AppError
	var argumentError *ArgumentError
	var usage *usageError
	var configurationError *ConfigurationError
	var failure *actionFailure
	switch {
	case errors.As(err, &appError):
		fmt.Fprintln(a.Stderr, errorColor(appError.Message))
		return appError.ExitCode()
	case errors.As(err, &argumentError):
		fmt.Fprintln(a.Stderr, errorColor(argumentError.Error()))
		return exitUsage
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.Stderr, errorColor("Terminated"))
		return exitInterrupted
	case errors.As(err, &configurationError):
		fmt.Fprintln(a.Stderr, errorColor(err.Error()))
		return exitFailure
	case errors.As(err, &failure):
		fmt.Fprintln(a.Stderr, errorColor(err.Error()))
		return exitFailure
	}
	// Everything else comes from parsing the command line
	fmt.Fprintln(a.Stderr, errorColor(err.Error()))
	return exitUsage
}

func (a *App) newContext(c *cli.Context) (*Context, error) {
	logger, err := newLogger(c, a.Stdout, a.Stderr)
	if err != nil {
		return nil, err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context: ctx,
		Logger:  logger,
		Executor: &Executor{
			DryRun:          a.DryRun,
			DefaultPatterns: a.ObfuscatePatterns,
			Stdout:          a.Stdout,
			Stderr:          a.Stderr,
			Logger:          logger,
		},
		Stdout: a.Stdout,
		Stderr: a.Stderr,
		cli:    c,
	}, nil
}

const (
	disableLoggingFlag = "disable-logging"
	verboseFlag        = "verbose"
	logStreamFlag      = "log-stream"
)

func commonFlags() []cli.Flag {
	category := "common options"
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     disableLoggingFlag,
			Usage:    "Disable log output for commands",
			Category: category,
		},
		&cli.BoolFlag{
			Name:     verboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Enable verbose logging for commands",
			Category: category,
		},
		&cli.StringFlag{
			Name:     logStreamFlag,
			Usage:    "Log output stream [stderr, stdout]",
			Value:    "stderr",
			Category: category,
		},
	}
}

// newLogger configures the invocation's logger from the common flags.
func newLogger(c *cli.Context, stdout, stderr io.Writer) (*pterm.Logger, error) {
	var writer io.Writer
	switch c.String(logStreamFlag) {
	case "stderr", "":
		writer = stderr
	case "stdout":
		writer = stdout
	default:
		return nil, &ArgumentError{
			Flag: "--" + logStreamFlag,
			Message: fmt.Sprintf(
				"invalid choice: %q (choose from stderr, stdout)",
				c.String(logStreamFlag),
			),
		}
	}

	level := pterm.LogLevelInfo
	if c.Bool(verboseFlag) {
		level = pterm.LogLevelDebug
	}
	if c.Bool(disableLoggingFlag) {
		level = pterm.LogLevelDisabled
	}
	return pterm.DefaultLogger.
		WithWriter(writer).
		WithLevel(level).
		WithTime(true).
		WithTimeFormat("01-02 15:04:05"), nil
}
