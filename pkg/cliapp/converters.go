package cliapp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Converter turns the raw string given by the user into the value stored in
// Values. Returning an error rejects the input with exit status 2.
type Converter func(value string) (interface{}, error)

func String(value string) (interface{}, error) {
	return value, nil
}

func Int(value string) (interface{}, error) {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid int value: %q", value)
	}
	return result, nil
}

func Bool(value string) (interface{}, error) {
	result, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid boolean value: %q", value)
	}
	return result, nil
}

func Duration(value string) (interface{}, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %q", value)
	}
	return result, nil
}

// Path expands a leading ~ to the user's home directory.
func Path(value string) (interface{}, error) {
	if value == "" {
		return nil, fmt.Errorf("empty path")
	}
	expanded, err := homedir.Expand(value)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", value, err)
	}
	return expanded, nil
}

func ExistingFile(value string) (interface{}, error) {
	path, err := Path(value)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path.(string))
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", value)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path %q is not a file", value)
	}
	return path, nil
}

func ExistingDirectory(value string) (interface{}, error) {
	path, err := Path(value)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path.(string))
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", value)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", value)
	}
	return path, nil
}

/*
Secret accepts a value in one of three forms:

	literal value
	@env:VARIABLE_NAME   read from the environment
	@file:/path/to/file  read from a file, surrounding whitespace removed
*/
func Secret(value string) (interface{}, error) {
	switch {
	case strings.HasPrefix(value, "@env:"):
		name := strings.TrimPrefix(value, "@env:")
		result, ok := os.LookupEnv(name)
		if !ok {
			return nil, fmt.Errorf("environment variable %q is not set", name)
		}
		return result, nil
	case strings.HasPrefix(value, "@file:"):
		path, err := Path(strings.TrimPrefix(value, "@file:"))
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path.(string))
		if err != nil {
			return nil, fmt.Errorf("cannot read secret file: %w", err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	return value, nil
}
