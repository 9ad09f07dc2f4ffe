package cliapp

import (
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
)

// DefaultObfuscation replaces sensitive arguments in logged commands.
const DefaultObfuscation = "********"

// ObfuscationPattern selects the command arguments that must never be
// displayed.
type ObfuscationPattern interface {
	Matches(argument string) bool
}

// Exact matches an argument equal to the string.
type Exact string

func (e Exact) Matches(argument string) bool {
	return string(e) == argument
}

// Predicate matches whenever the function returns true.
type Predicate func(argument string) bool

func (p Predicate) Matches(argument string) bool {
	return p(argument)
}

type regexpPattern struct {
	re *regexp.Regexp
}

// Regexp matches an argument if the expression matches at its beginning.
func Regexp(re *regexp.Regexp) ObfuscationPattern {
	return regexpPattern{re: re}
}

func (r regexpPattern) Matches(argument string) bool {
	location := r.re.FindStringIndex(argument)
	return location != nil && location[0] == 0
}

// Obfuscate returns a copy of args where every argument matched by any
// pattern is replaced with mask.
func Obfuscate(args []string, mask string, patterns ...ObfuscationPattern) []string {
	result := make([]string, len(args))
	for i, argument := range args {
		result[i] = argument
		if isSensitive(argument, patterns) {
			result[i] = mask
		}
	}
	return result
}

// SafeForm is the shell-quoted, obfuscated rendering of a command line.
// Only masked arguments are left unquoted.
func SafeForm(args []string, mask string, patterns ...ObfuscationPattern) string {
	quoted := make([]string, len(args))
	for i, argument := range args {
		if isSensitive(argument, patterns) {
			quoted[i] = mask
			continue
		}
		quoted[i] = shellescape.Quote(argument)
	}
	return strings.Join(quoted, " ")
}

func isSensitive(argument string, patterns []ObfuscationPattern) bool {
	for _, pattern := range patterns {
		if pattern.Matches(argument) {
			return true
		}
	}
	return false
}
