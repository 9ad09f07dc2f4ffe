package signlib

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/shlex"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/keychain"
	"github.com/signkit/cli/pkg/provisioning"
	"github.com/signkit/cli/pkg/xcode"
)

// DefaultSigningScript is looked up from PATH when no script is configured.
const DefaultSigningScript = "code_signing_manager.rb"

// CodeSigningTool prepares Xcode projects for code signing.
func CodeSigningTool() *cliapp.Tool {
	tool := cliapp.NewTool("code-signing",
		"Utility to prepare iOS application code signing properties for build")
	tool.MustRegister(useProfilesAction())
	return tool
}

type UseProfilesRequest struct {
	ProjectPattern string
	ProfilePaths   []string
	SigningScript  string
	Team           string
	ScriptTimeout  time.Duration
	ExcludeIgnored bool
	KeychainPath   string
}

func useProfilesAction() *cliapp.Action {
	return cliapp.NewAction[UseProfilesRequest]("use-profiles").
		Describe("Set up code signing settings on specified Xcode project " +
			"to use given provisioning profiles").
		Optional(XcodeProjectPattern, ProfilePaths, SigningScript, Team, ScriptTimeout,
			ExcludeIgnored, KeychainPath).
		Bind(func(values cliapp.Values) (UseProfilesRequest, error) {
			return UseProfilesRequest{
				ProjectPattern: values.String(XcodeProjectPattern.Key),
				ProfilePaths:   values.Strings(ProfilePaths.Key),
				SigningScript:  values.String(SigningScript.Key),
				Team:           values.String(Team.Key),
				ScriptTimeout:  values.Duration(ScriptTimeout.Key),
				ExcludeIgnored: values.Bool(ExcludeIgnored.Key),
				KeychainPath:   values.String(KeychainPath.Key),
			}, nil
		}).
		Run(UseProfilesCommand).
		MustBuild()
}

/*
UseProfilesCommand hands the profiles to the signing script once for every
Xcode project matching the pattern. The script is called as

	<script> --xcode-project <path> --used-profiles <report.json> \
	    --profiles <profiles JSON> --verbose

and may write the profiles it applied to the report file.
*/
func UseProfilesCommand(ctx *cliapp.Context, request UseProfilesRequest) error {
	script, err := signingScript(ctx, request)
	if err != nil {
		return err
	}

	paths := request.ProfilePaths
	if len(paths) == 0 {
		paths, err = provisioning.DefaultPaths()
		if err != nil {
			return fmt.Errorf("cannot list installed profiles: %w", err)
		}
	}
	certificates, err := keychain.New(request.KeychainPath, ctx.Executor).
		ListCodeSigningCertificates(ctx)
	if err != nil {
		return err
	}
	profiles, err := serializeProfiles(paths, certificates)
	if err != nil {
		return cliapp.NewAppError(err.Error(), nil)
	}
	ctx.Logger.Debug("Serialized profiles",
		ctx.Logger.Args("profiles", len(paths), "certificates", len(certificates)))

	projects, err := xcode.FindPaths(request.ProjectPattern)
	if err != nil {
		return fmt.Errorf("cannot find Xcode projects: %w", err)
	}
	if request.ExcludeIgnored {
		filter, err := xcode.NewIgnoreFilter(".")
		if err != nil {
			return fmt.Errorf("cannot read .gitignore: %w", err)
		}
		projects = filter.Filter(projects)
	}
	if len(projects) == 0 {
		ctx.Logger.Warn(fmt.Sprintf("No Xcode projects match %q", request.ProjectPattern))
		return nil
	}

	for _, project := range projects {
		report, err := useProfiles(ctx, script, project, profiles, request.ScriptTimeout)
		if err != nil {
			return err
		}
		ctx.Logger.Info(fmt.Sprintf("Use profiles result for %s: %v", project, report))
	}
	return nil
}

// signingScript splits the configured command line. The flag and its
// environment variable win over the team's signing_script setting.
func signingScript(ctx *cliapp.Context, request UseProfilesRequest) ([]string, error) {
	command := request.SigningScript
	if command == "" {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return nil, err
		}
		command = cfg.SigningScript(request.Team)
	}
	if command == "" {
		command = DefaultSigningScript
	}
	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		return nil, &cliapp.ArgumentError{
			Flag:    SigningScript.Flags[0],
			Message: fmt.Sprintf("invalid signing script %q", command),
		}
	}
	return args, nil
}

func serializeProfiles(paths []string, available []*x509.Certificate) (string, error) {
	serialized := make([]map[string]interface{}, 0, len(paths))
	for _, path := range paths {
		profile, err := provisioning.ParseFile(path)
		if err != nil {
			return "", fmt.Errorf("cannot read provisioning profile %s: %w", path, err)
		}
		commonName := provisioning.MostCommonName(profile.UsableCertificates(available))
		serialized = append(serialized, profile.Serialize(commonName))
	}
	data, err := json.Marshal(serialized)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func useProfiles(
	ctx *cliapp.Context,
	script []string,
	project string,
	profiles string,
	timeout time.Duration,
) (map[string]interface{}, error) {
	reportFile, err := os.CreateTemp("", "used_profiles_*.json")
	if err != nil {
		return nil, err
	}
	reportPath := reportFile.Name()
	reportFile.Close()
	defer os.Remove(reportPath)

	args := append(append([]string{}, script...),
		"--xcode-project", project,
		"--used-profiles", reportPath,
		"--profiles", profiles,
		"--verbose",
	)
	process, err := ctx.Executor.Run(ctx, cliapp.Command{
		Args:       args,
		Obfuscate:  []cliapp.ObfuscationPattern{cliapp.Exact(profiles)},
		ShowOutput: true,
		Timeout:    timeout,
	})
	if err != nil {
		return nil, err
	}

	report := make(map[string]interface{})
	data, readErr := os.ReadFile(reportPath)
	if readErr == nil {
		readErr = json.Unmarshal(data, &report)
	}
	if readErr != nil {
		ctx.Logger.Debug(fmt.Sprintf("Failed to read used profiles info from %s", reportPath))
		report = make(map[string]interface{})
	}

	if process.ReturnCode != 0 {
		return nil, cliapp.NewAppError(
			fmt.Sprintf("Failed to set code signing settings for %s", project), process,
		)
	}
	return report, nil
}
