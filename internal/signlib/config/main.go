/*
Package config
Reads and writes the signkit configuration file.

Usage:

    import "github.com/signkit/cli/internal/signlib/config"

    cfg, err := config.Load("")  // ~/.signkitrc or $SIGNKIT_CONFIG
    if err != nil { ... }

    team := cfg.FindTeam("acme")  // nil if there is no [acme] section

    cfg.SetTeam(config.Team{
        Name:           "acme",
        IssuerId:       "69a6de70-...",
        KeyId:          "D383SF739",
        PrivateKeyPath: "~/keys/AuthKey_D383SF739.p8",
    })
    cfg.Save()  // Saves changes to disk

The file holds one section per App Store Connect team:

    [default]
    issuer_id = 69a6de70-...
    key_id = D383SF739
    private_key_path = ~/keys/AuthKey_D383SF739.p8

    [acme]
    issuer_id = ...
    signing_script = /usr/local/bin/code_signing_manager.rb
*/
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/ini.v1"
)

const (
	DefaultTeam     = "default"
	EnvironmentPath = "SIGNKIT_CONFIG"
	fileName        = ".signkitrc"
)

type Config struct {
	Teams []Team
	Path  string
}

type Team struct {
	Name           string `json:"name"`
	IssuerId       string `json:"issuer_id,omitempty"`
	KeyId          string `json:"key_id,omitempty"`
	PrivateKeyPath string `json:"private_key_path,omitempty"`
	ApiUrl         string `json:"api_url,omitempty"`
	SigningScript  string `json:"signing_script,omitempty"`
}

// Load reads the configuration at path. An empty path means $SIGNKIT_CONFIG
// or ~/.signkitrc. A missing file gives an empty configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetPath()
		if err != nil {
			return nil, err
		}
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	return loadFromPath(expanded)
}

func loadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{Path: path}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := loadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func loadFromBytes(data []byte) (*Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var result Config
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		result.Teams = append(result.Teams, Team{
			Name:           section.Name(),
			IssuerId:       section.Key("issuer_id").String(),
			KeyId:          section.Key("key_id").String(),
			PrivateKeyPath: section.Key("private_key_path").String(),
			ApiUrl:         section.Key("api_url").String(),
			SigningScript:  section.Key("signing_script").String(),
		})
	}
	result.sortTeams()
	return &result, nil
}

func (cfg *Config) sortTeams() {
	sort.Slice(cfg.Teams, func(i, j int) bool {
		return strings.Compare(cfg.Teams[i].Name, cfg.Teams[j].Name) == -1
	})
}

// FindTeam returns the section called name, or nil.
func (cfg *Config) FindTeam(name string) *Team {
	for i := range cfg.Teams {
		if cfg.Teams[i].Name == name {
			return &cfg.Teams[i]
		}
	}
	return nil
}

// SetTeam replaces the section with the same name or adds a new one.
func (cfg *Config) SetTeam(team Team) {
	if existing := cfg.FindTeam(team.Name); existing != nil {
		*existing = team
		return
	}
	cfg.Teams = append(cfg.Teams, team)
	cfg.sortTeams()
}

/*
Save
Save changes to disk. The file may contain credentials so it is only readable
by its owner. */
func (cfg *Config) Save() error {
	err := os.MkdirAll(filepath.Dir(cfg.Path), 0700)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()
	return cfg.saveToWriter(file)
}

func (cfg *Config) saveToWriter(file io.Writer) error {
	out := ini.Empty(ini.LoadOptions{})

	for _, team := range cfg.Teams {
		section, err := out.NewSection(team.Name)
		if err != nil {
			return err
		}
		for _, entry := range []struct{ key, value string }{
			{"issuer_id", team.IssuerId},
			{"key_id", team.KeyId},
			{"private_key_path", team.PrivateKeyPath},
			{"api_url", team.ApiUrl},
			{"signing_script", team.SigningScript},
		} {
			if entry.value == "" {
				continue
			}
			_, err := section.NewKey(entry.key, entry.value)
			if err != nil {
				return err
			}
		}
	}

	_, err := out.WriteTo(file)
	return err
}

func GetPath() (string, error) {
	if path := os.Getenv(EnvironmentPath); path != "" {
		return path, nil
	}
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, fileName), nil
}
