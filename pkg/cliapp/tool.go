package cliapp

import (
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

// Tool is a named group of actions, invoked as `<program> <tool> <action>`.
type Tool struct {
	Name        string
	Description string
	arguments   []Argument
	actions     map[string]*Action
	order       []string
}

func NewTool(name, description string) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		actions:     make(map[string]*Action),
	}
}

// WithArguments declares optional arguments shared by every action of the
// tool. They must be added before any action is registered.
func (t *Tool) WithArguments(arguments ...Argument) *Tool {
	t.arguments = append(t.arguments, arguments...)
	return t
}

// Register adds actions to the tool. Action names must be unique within it.
func (t *Tool) Register(actions ...*Action) error {
	for _, action := range actions {
		if action == nil {
			return configurationErrorf("nil action registered on %s", t.Name)
		}
		if _, exists := t.actions[action.Name]; exists {
			return configurationErrorf(
				"action %s is registered twice on %s", action.Name, t.Name,
			)
		}
		err := t.checkShared(action)
		if err != nil {
			return err
		}
		t.actions[action.Name] = action
		t.order = append(t.order, action.Name)
	}
	return nil
}

func (t *Tool) MustRegister(actions ...*Action) {
	err := t.Register(actions...)
	if err != nil {
		panic(err)
	}
}

// Lookup finds a registered action by name.
func (t *Tool) Lookup(name string) (*Action, bool) {
	action, ok := t.actions[name]
	return action, ok
}

// Actions returns the registered actions sorted by name.
func (t *Tool) Actions() []*Action {
	names := append([]string{}, t.order...)
	sort.Strings(names)
	result := make([]*Action, 0, len(names))
	for _, name := range names {
		result = append(result, t.actions[name])
	}
	return result
}

// checkShared rejects tool arguments whose key or flag name is already
// taken. Flag names are compared without their leading dashes, the way
// they are registered on the command line.
func (t *Tool) checkShared(action *Action) error {
	flagNames := make(map[string]bool)
	for _, flag := range commonFlags() {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}
	keys := make(map[string]bool)
	for _, argument := range action.Arguments() {
		keys[argument.Key] = true
		for _, flag := range argument.Flags {
			flagNames[strings.TrimLeft(flag, "-")] = true
		}
	}
	for _, argument := range t.arguments {
		err := argument.validate()
		if err != nil {
			return err
		}
		if keys[argument.Key] {
			return configurationErrorf(
				"argument %s of %s is already declared by %s",
				argument.Key, action.Name, t.Name,
			)
		}
		keys[argument.Key] = true
		for _, flag := range argument.Flags {
			name := strings.TrimLeft(flag, "-")
			if flagNames[name] {
				return configurationErrorf(
					"flag %s of %s clashes with %s of %s",
					flag, t.Name, name, action.Name,
				)
			}
			flagNames[name] = true
		}
	}
	return nil
}

func (t *Tool) validate() error {
	if t.Name == "" || strings.ContainsAny(t.Name, " \t\n") {
		return configurationErrorf("invalid tool name %q", t.Name)
	}
	if strings.TrimSpace(t.Description) == "" {
		return configurationErrorf("tool %s has no description", t.Name)
	}
	if len(t.actions) == 0 {
		return configurationErrorf("tool %s has no actions", t.Name)
	}
	return nil
}

func (t *Tool) command(app *App) *cli.Command {
	var subcommands []*cli.Command
	for _, action := range t.Actions() {
		subcommands = append(subcommands, action.command(app, t))
	}
	return &cli.Command{
		Name:        t.Name,
		Usage:       firstLine(t.Description),
		Description: t.Description,
		Subcommands: subcommands,
		Action: func(c *cli.Context) error {
			_ = cli.ShowSubcommandHelp(c)
			return &usageError{command: t.Name}
		},
	}
}
