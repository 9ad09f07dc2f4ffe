package signlib

import (
	"fmt"

	"github.com/signkit/cli/internal/signlib/config"
	"github.com/signkit/cli/pkg/cliapp"
)

var PrivateKeyPath = cliapp.Argument{
	Key:         "private_key_path",
	Flags:       []string{"--private-key-path"},
	Description: "Path to the App Store Connect API private key (AuthKey_<key id>.p8)",
	Type:        cliapp.ExistingFile,
}

// ConfigTool reads and writes the teams of the configuration file.
func ConfigTool() *cliapp.Tool {
	tool := cliapp.NewTool("config",
		"Manage the App Store Connect teams stored in the configuration file")
	tool.MustRegister(
		saveConfigAction(),
		showConfigAction(),
	)
	return tool
}

type SaveConfigRequest struct {
	Team config.Team
}

func saveConfigAction() *cliapp.Action {
	team := Team
	team.Default = []string{config.DefaultTeam}
	return cliapp.NewAction[SaveConfigRequest]("save").
		Describe("Save App Store Connect credentials and settings of a team. " +
			"Settings that are not given keep their current value").
		Optional(team, IssuerId, KeyIdentifier, PrivateKeyPath, ApiUrl, SigningScript).
		Bind(func(values cliapp.Values) (SaveConfigRequest, error) {
			return SaveConfigRequest{Team: config.Team{
				Name:           values.String(Team.Key),
				IssuerId:       values.String(IssuerId.Key),
				KeyId:          values.String(KeyIdentifier.Key),
				PrivateKeyPath: values.String(PrivateKeyPath.Key),
				ApiUrl:         values.String(ApiUrl.Key),
				SigningScript:  values.String(SigningScript.Key),
			}}, nil
		}).
		Run(SaveConfigCommand).
		MustBuild()
}

func SaveConfigCommand(ctx *cliapp.Context, request SaveConfigRequest) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	team := request.Team
	if existing := cfg.FindTeam(team.Name); existing != nil {
		for _, field := range []struct{ given, current *string }{
			{&team.IssuerId, &existing.IssuerId},
			{&team.KeyId, &existing.KeyId},
			{&team.PrivateKeyPath, &existing.PrivateKeyPath},
			{&team.ApiUrl, &existing.ApiUrl},
			{&team.SigningScript, &existing.SigningScript},
		} {
			if *field.given == "" {
				*field.given = *field.current
			}
		}
	}
	cfg.SetTeam(team)
	err = cfg.Save()
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", cfg.Path, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Saved team %q to %s", team.Name, cfg.Path))
	return nil
}

var teamHeaders = []string{
	"Team", "Issuer ID", "Key ID", "Private key path", "API URL", "Signing script",
}

func teamRow(team config.Team) []string {
	return []string{
		team.Name,
		team.IssuerId,
		team.KeyId,
		team.PrivateKeyPath,
		team.ApiUrl,
		team.SigningScript,
	}
}

type ShowConfigRequest struct {
	Output
}

func showConfigAction() *cliapp.Action {
	return cliapp.NewAction[ShowConfigRequest]("show").
		Describe("Show the teams of the configuration file").
		Optional(JsonOutput).
		Bind(func(values cliapp.Values) (ShowConfigRequest, error) {
			return ShowConfigRequest{Output: bindOutput(values)}, nil
		}).
		Run(ShowConfigCommand).
		MustBuild()
}

func ShowConfigCommand(ctx *cliapp.Context, request ShowConfigRequest) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("Read configuration", ctx.Logger.Args("path", cfg.Path))
	return showResources(ctx.Stdout, request.Output, cfg.Teams, teamHeaders, teamRow)
}
