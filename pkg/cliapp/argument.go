package cliapp

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

/*
Argument describes a single input of an action. Arguments are declared once,
usually as package-level variables, and shared between the actions that need
them.

	var KeyIdentifier = cliapp.Argument{
		Key:         "key_identifier",
		Flags:       []string{"--key-id"},
		Description: "Identifier of your App Store Connect API Key",
		EnvVar:      "APP_STORE_CONNECT_KEY_IDENTIFIER",
	}

The first flag is the canonical name of the argument; a second, single
character flag becomes an alias.
*/
type Argument struct {
	Key         string
	Flags       []string
	Description string
	Type        Converter
	// Switch arguments take no value. They are false unless given.
	Switch bool
	// Multiple arguments may be repeated and collect a list of values.
	Multiple bool
	Default  []string
	EnvVar   string
	Choices  []string
	Hidden   bool
}

// FlagSource is the subset of *cli.Context the dispatcher reads input from.
type FlagSource interface {
	IsSet(name string) bool
	String(name string) string
	StringSlice(name string) []string
	Bool(name string) bool
}

func (a Argument) name() string {
	if len(a.Flags) == 0 {
		return ""
	}
	return strings.TrimLeft(a.Flags[0], "-")
}

func (a Argument) aliases() []string {
	var result []string
	for _, flag := range a.Flags[1:] {
		result = append(result, strings.TrimLeft(flag, "-"))
	}
	return result
}

func (a Argument) validate() error {
	if a.Key == "" {
		return configurationErrorf("argument %v has no key", a.Flags)
	}
	if len(a.Flags) == 0 {
		return configurationErrorf("argument %s has no flags", a.Key)
	}
	for _, flag := range a.Flags {
		if !strings.HasPrefix(flag, "-") {
			return configurationErrorf(
				"flag %q of argument %s must start with a dash", flag, a.Key,
			)
		}
	}
	if strings.TrimSpace(a.Description) == "" {
		return configurationErrorf("argument %s has no description", a.Key)
	}
	if a.Switch && (a.Multiple || a.Type != nil || len(a.Choices) > 0) {
		return configurationErrorf(
			"switch argument %s cannot take values", a.Key,
		)
	}
	return nil
}

func (a Argument) usage() string {
	usage := a.Description
	if len(a.Choices) > 0 {
		usage += fmt.Sprintf(" [%s]", strings.Join(a.Choices, ", "))
	}
	if a.EnvVar != "" {
		usage += fmt.Sprintf(
			" If not given, the value will be checked from the environment variable %s.",
			a.EnvVar,
		)
	}
	return usage
}

func (a Argument) flag(category string) cli.Flag {
	if a.Switch {
		return &cli.BoolFlag{
			Name:     a.name(),
			Aliases:  a.aliases(),
			Usage:    a.usage(),
			Category: category,
			Hidden:   a.Hidden,
		}
	}
	if a.Multiple {
		return &cli.StringSliceFlag{
			Name:     a.name(),
			Aliases:  a.aliases(),
			Usage:    a.usage(),
			Category: category,
			Hidden:   a.Hidden,
		}
	}
	var defaultText string
	if len(a.Default) > 0 {
		defaultText = a.Default[0]
	}
	return &cli.StringFlag{
		Name:        a.name(),
		Aliases:     a.aliases(),
		Usage:       a.usage(),
		Category:    category,
		Hidden:      a.Hidden,
		DefaultText: defaultText,
	}
}

// resolve reads the argument from flags, then the environment, then its
// default. The boolean result is false if no value was found anywhere.
func (a Argument) resolve(source FlagSource, required bool) (interface{}, bool, error) {
	name := a.name()
	if a.Switch {
		return source.Bool(name), true, nil
	}

	var raw []string
	switch {
	case source.IsSet(name):
		if a.Multiple {
			raw = source.StringSlice(name)
		} else {
			raw = []string{source.String(name)}
		}
	case a.EnvVar != "" && os.Getenv(a.EnvVar) != "":
		raw = []string{os.Getenv(a.EnvVar)}
	case len(a.Default) > 0:
		raw = a.Default
	}

	if len(raw) == 0 {
		if required {
			return nil, false, a.missing()
		}
		return nil, false, nil
	}

	converted := make([]interface{}, 0, len(raw))
	for _, value := range raw {
		if len(a.Choices) > 0 && !contains(a.Choices, value) {
			return nil, false, &ArgumentError{
				Flag: a.Flags[0],
				Message: fmt.Sprintf(
					"invalid choice: %q (choose from %s)",
					value, strings.Join(a.Choices, ", "),
				),
			}
		}
		convert := a.Type
		if convert == nil {
			convert = String
		}
		result, err := convert(value)
		if err != nil {
			return nil, false, &ArgumentError{Flag: a.Flags[0], Message: err.Error()}
		}
		converted = append(converted, result)
	}

	if a.Multiple {
		return converted, true, nil
	}
	return converted[0], true, nil
}

func (a Argument) missing() error {
	message := fmt.Sprintf(
		"Missing value %s. Provide it with argument %s",
		strings.ToUpper(a.Key), a.Flags[0],
	)
	if a.EnvVar != "" {
		message += fmt.Sprintf(" or set environment variable %s", a.EnvVar)
	}
	return &ArgumentError{Flag: a.Flags[0], Message: message}
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
