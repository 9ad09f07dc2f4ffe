package cliapp

import (
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var variableReference = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// ExpandArgument substitutes $VAR and ${VAR} from the environment and a
// leading ~ with the home directory. References to unset variables and
// malformed references are copied verbatim.
func ExpandArgument(argument string) string {
	expanded := variableReference.ReplaceAllStringFunc(argument, func(reference string) string {
		name := strings.TrimPrefix(reference, "$")
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}
		value, ok := os.LookupEnv(name)
		if !ok || name == "" {
			return reference
		}
		return value
	})
	home, err := homedir.Expand(expanded)
	if err != nil {
		return expanded
	}
	return home
}

func expandArguments(args []string) []string {
	result := make([]string, len(args))
	for i, argument := range args {
		result[i] = ExpandArgument(argument)
	}
	return result
}
