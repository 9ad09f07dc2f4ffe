package cliapp

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

// Context is handed to every handler. It carries the cancellation context of
// the invocation together with its logger, executor and output streams.
type Context struct {
	context.Context
	Logger   *pterm.Logger
	Executor *Executor
	Stdout   io.Writer
	Stderr   io.Writer
	cli      *cli.Context
}

// GlobalString reads a flag declared on the App rather than on the action.
func (c *Context) GlobalString(name string) string {
	if c.cli == nil {
		return ""
	}
	return c.cli.String(name)
}

func (c *Context) GlobalDuration(name string) time.Duration {
	if c.cli == nil {
		return 0
	}
	return c.cli.Duration(name)
}

func (c *Context) GlobalIsSet(name string) bool {
	if c.cli == nil {
		return false
	}
	return c.cli.IsSet(name)
}

// Action is a built, validated action ready to be registered on a Tool.
type Action struct {
	Name        string
	Description string
	Required    []Argument
	Optional    []Argument
	invoke      func(ctx *Context, values Values) error
}

// Arguments returns required arguments followed by optional ones.
func (a *Action) Arguments() []Argument {
	result := make([]Argument, 0, len(a.Required)+len(a.Optional))
	result = append(result, a.Required...)
	return append(result, a.Optional...)
}

// Resolve reads, validates and converts every declared argument. Input that
// was not declared never reaches Values.
func (a *Action) Resolve(source FlagSource) (Values, error) {
	values := make(Values)
	for _, argument := range a.Required {
		value, found, err := argument.resolve(source, true)
		if err != nil {
			return nil, err
		}
		if found {
			values[argument.Key] = value
		}
	}
	for _, argument := range a.Optional {
		value, found, err := argument.resolve(source, false)
		if err != nil {
			return nil, err
		}
		if found {
			values[argument.Key] = value
		}
	}
	return values, nil
}

// Invoke binds values into the action's request type and calls its handler.
// Binding failures are reported as *ArgumentError.
func (a *Action) Invoke(ctx *Context, values Values) error {
	return a.invoke(ctx, values)
}

func (a *Action) flags() []cli.Flag {
	var result []cli.Flag
	for _, argument := range a.Required {
		result = append(result, argument.flag(
			"required arguments for \""+a.Name+"\"",
		))
	}
	for _, argument := range a.Optional {
		result = append(result, argument.flag(
			"optional arguments for \""+a.Name+"\"",
		))
	}
	return result
}

func (a *Action) command(app *App, tool *Tool) *cli.Command {
	flags := a.flags()
	for _, argument := range tool.arguments {
		flags = append(flags, argument.flag(
			"common arguments for \""+tool.Name+"\"",
		))
	}
	flags = append(flags, commonFlags()...)
	return &cli.Command{
		Name:        a.Name,
		Usage:       firstLine(a.Description),
		Description: a.Description,
		Flags:       flags,
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return &ArgumentError{Message: "unrecognized arguments: " +
					strings.Join(c.Args().Slice(), " ")}
			}
			values, err := a.Resolve(c)
			if err != nil {
				return err
			}
			for _, argument := range tool.arguments {
				value, found, err := argument.resolve(c, false)
				if err != nil {
					return err
				}
				if found {
					values[argument.Key] = value
				}
			}
			ctx, err := app.newContext(c)
			if err != nil {
				return err
			}
			err = a.Invoke(ctx, values)
			if err == nil {
				return nil
			}
			var argumentError *ArgumentError
			if errors.As(err, &argumentError) {
				return err
			}
			return &actionFailure{err: err}
		},
	}
}

/*
ActionBuilder declares an action whose input is bound into a request of type T.

	cliapp.NewAction[DeleteRequest]("delete-profile").
		Describe("Delete specified Profile from Apple Developer portal").
		Required(ProfileResourceId).
		Bind(bindDeleteRequest).
		Run(deleteProfile).
		MustBuild()
*/
type ActionBuilder[T any] struct {
	name        string
	description string
	required    []Argument
	optional    []Argument
	bind        func(Values) (T, error)
	run         func(*Context, T) error
}

func NewAction[T any](name string) *ActionBuilder[T] {
	return &ActionBuilder[T]{name: name}
}

func (b *ActionBuilder[T]) Describe(description string) *ActionBuilder[T] {
	b.description = description
	return b
}

func (b *ActionBuilder[T]) Required(arguments ...Argument) *ActionBuilder[T] {
	b.required = append(b.required, arguments...)
	return b
}

func (b *ActionBuilder[T]) Optional(arguments ...Argument) *ActionBuilder[T] {
	b.optional = append(b.optional, arguments...)
	return b
}

func (b *ActionBuilder[T]) Bind(bind func(Values) (T, error)) *ActionBuilder[T] {
	b.bind = bind
	return b
}

func (b *ActionBuilder[T]) Run(run func(*Context, T) error) *ActionBuilder[T] {
	b.run = run
	return b
}

func (b *ActionBuilder[T]) Build() (*Action, error) {
	if b.name == "" || strings.ContainsAny(b.name, " \t\n") {
		return nil, configurationErrorf("invalid action name %q", b.name)
	}
	if strings.TrimSpace(b.description) == "" {
		return nil, configurationErrorf("action %s has no description", b.name)
	}
	if b.bind == nil {
		return nil, configurationErrorf("action %s has no binder", b.name)
	}
	if b.run == nil {
		return nil, configurationErrorf("action %s has no handler", b.name)
	}

	keys := make(map[string]bool)
	flagNames := make(map[string]bool)
	for _, flag := range commonFlags() {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}
	all := append(append([]Argument{}, b.required...), b.optional...)
	for _, argument := range all {
		err := argument.validate()
		if err != nil {
			return nil, err
		}
		if keys[argument.Key] {
			return nil, configurationErrorf(
				"action %s declares argument %s twice", b.name, argument.Key,
			)
		}
		keys[argument.Key] = true
		for _, flag := range argument.Flags {
			name := strings.TrimLeft(flag, "-")
			if flagNames[name] {
				return nil, configurationErrorf(
					"action %s declares flag %s twice", b.name, flag,
				)
			}
			flagNames[name] = true
		}
	}

	bind, run := b.bind, b.run
	return &Action{
		Name:        b.name,
		Description: b.description,
		Required:    append([]Argument{}, b.required...),
		Optional:    append([]Argument{}, b.optional...),
		invoke: func(ctx *Context, values Values) error {
			request, err := bind(values)
			if err != nil {
				var argumentError *ArgumentError
				if !errors.As(err, &argumentError) {
					err = &ArgumentError{Message: err.Error()}
				}
				return err
			}
			return run(ctx, request)
		},
	}, nil
}

func (b *ActionBuilder[T]) MustBuild() *Action {
	action, err := b.Build()
	if err != nil {
		panic(err)
	}
	return action
}
