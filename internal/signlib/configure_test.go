package signlib

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/signkit/cli/internal/signlib/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveConfigCommandMergesTeam(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signkitrc")
	t.Setenv(config.EnvironmentPath, path)
	cfg := &config.Config{Path: path}
	cfg.SetTeam(config.Team{
		Name:           "acme",
		IssuerId:       "issuer",
		KeyId:          "OLDKEY",
		PrivateKeyPath: "~/keys/AuthKey_OLDKEY.p8",
	})
	require.NoError(t, cfg.Save())
	ctx, _, _ := getTestContext()

	err := SaveConfigCommand(ctx, SaveConfigRequest{Team: config.Team{
		Name:          "acme",
		KeyId:         "NEWKEY",
		SigningScript: "ruby sign.rb",
	}})

	require.NoError(t, err)
	saved, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, &config.Team{
		Name:           "acme",
		IssuerId:       "issuer",
		KeyId:          "NEWKEY",
		PrivateKeyPath: "~/keys/AuthKey_OLDKEY.p8",
		SigningScript:  "ruby sign.rb",
	}, saved.FindTeam("acme"))
}

func TestSaveConfigCommandNewTeam(t *testing.T) {
	t.Setenv(config.EnvironmentPath, filepath.Join(t.TempDir(), "nested", "signkitrc"))
	ctx, _, _ := getTestContext()

	err := SaveConfigCommand(ctx, SaveConfigRequest{Team: config.Team{
		Name:     config.DefaultTeam,
		IssuerId: "issuer",
	}})

	require.NoError(t, err)
	saved, err := config.Load("")
	require.NoError(t, err)
	require.Len(t, saved.Teams, 1)
	assert.Equal(t, "issuer", saved.Teams[0].IssuerId)
}

func TestShowConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signkitrc")
	t.Setenv(config.EnvironmentPath, path)
	cfg := &config.Config{Path: path}
	cfg.SetTeam(config.Team{Name: "zeta", KeyId: "Z"})
	cfg.SetTeam(config.Team{Name: "alpha", KeyId: "A"})
	require.NoError(t, cfg.Save())
	ctx, stdout, _ := getTestContext()

	err := ShowConfigCommand(ctx, ShowConfigRequest{Output: Output{Json: true}})

	require.NoError(t, err)
	var teams []config.Team
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &teams))
	assert.Equal(t, []config.Team{
		{Name: "alpha", KeyId: "A"},
		{Name: "zeta", KeyId: "Z"},
	}, teams)
}
