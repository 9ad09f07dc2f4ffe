package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Credentials identify an App Store Connect API key.
type Credentials struct {
	IssuerId   string
	KeyId      string
	PrivateKey string
	ApiUrl     string
}

func (c Credentials) Missing() []string {
	var missing []string
	if c.IssuerId == "" {
		missing = append(missing, "issuer ID")
	}
	if c.KeyId == "" {
		missing = append(missing, "key identifier")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "private key")
	}
	return missing
}

/*
Complete fills the fields of 'given' that are empty from the configuration.
'given' holds what came from flags and the environment and always wins. Then
the [teamName] section is consulted, then [default]. Naming a team that has no
section is an error.
*/
func (cfg *Config) Complete(given Credentials, teamName string) (Credentials, error) {
	var teams []*Team
	if teamName != "" {
		team := cfg.FindTeam(teamName)
		if team == nil {
			return given, fmt.Errorf(
				"team %q is not configured in %s", teamName, cfg.Path,
			)
		}
		teams = append(teams, team)
	}
	if team := cfg.FindTeam(DefaultTeam); team != nil && teamName != DefaultTeam {
		teams = append(teams, team)
	}

	result := given
	for _, team := range teams {
		if result.IssuerId == "" {
			result.IssuerId = team.IssuerId
		}
		if result.KeyId == "" {
			result.KeyId = team.KeyId
		}
		if result.ApiUrl == "" {
			result.ApiUrl = team.ApiUrl
		}
		if result.PrivateKey == "" && team.PrivateKeyPath != "" {
			key, err := readPrivateKey(team.PrivateKeyPath)
			if err != nil {
				return given, fmt.Errorf("team %q: %w", team.Name, err)
			}
			result.PrivateKey = key
		}
	}
	return result, nil
}

// SigningScript returns the first signing script configured for teamName or
// the default team.
func (cfg *Config) SigningScript(teamName string) string {
	for _, name := range []string{teamName, DefaultTeam} {
		if team := cfg.FindTeam(name); name != "" && team != nil && team.SigningScript != "" {
			return team.SigningScript
		}
	}
	return ""
}

func readPrivateKey(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot read private key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
