package signlib

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/signkit/cli/pkg/cliapp"
)

// ReleasesRepository publishes the signkit binaries as GitHub releases.
const ReleasesRepository = "signkit/cli"

// Replaced in tests so that no request reaches GitHub.
var (
	detectLatest = selfupdate.DetectLatest
	updateTo     = selfupdate.UpdateTo
)

var (
	CheckOnly = cliapp.Argument{
		Key:         "check",
		Flags:       []string{"--check"},
		Description: "Only check whether a newer release exists",
		Switch:      true,
	}
	NoInteractive = cliapp.Argument{
		Key:         "no_interactive",
		Flags:       []string{"--no-interactive"},
		Description: "Update without asking for confirmation",
		Switch:      true,
	}
)

func UpdateTool() *cliapp.Tool {
	tool := cliapp.NewTool("update", "Update signkit to the latest release")
	tool.MustRegister(installUpdateAction())
	return tool
}

type UpdateRequest struct {
	Version       string
	NoInteractive bool
	Check         bool
}

func installUpdateAction() *cliapp.Action {
	return cliapp.NewAction[UpdateRequest]("install").
		Describe("Replace the running executable with the latest release").
		Optional(CheckOnly, NoInteractive).
		Bind(func(values cliapp.Values) (UpdateRequest, error) {
			return UpdateRequest{
				Version:       Version,
				NoInteractive: values.Bool(NoInteractive.Key),
				Check:         values.Bool(CheckOnly.Key),
			}, nil
		}).
		Run(UpdateCommand).
		MustBuild()
}

func UpdateCommand(ctx *cliapp.Context, request UpdateRequest) error {
	current, err := semver.ParseTolerant(request.Version)
	if err != nil {
		return err
	}

	latest, found, err := detectLatest(ReleasesRepository)
	if err != nil {
		return fmt.Errorf("cannot detect the latest release: %w", err)
	}
	if !found || current.GE(latest.Version) {
		fmt.Fprintf(ctx.Stdout, "Congratulations, you are up to date with v%s\n", current)
		return nil
	}

	fmt.Fprintf(ctx.Stdout, "There is a new latest release for you v%s -> v%s\n",
		current, latest.Version)
	if request.Check {
		fmt.Fprintln(ctx.Stdout,
			"Use `signkit update install` to update to the latest version.")
		fmt.Fprintln(ctx.Stdout,
			"If you want to download and install it manually, you can get the asset from")
		fmt.Fprintln(ctx.Stdout, latest.AssetURL)
		return nil
	}

	if !request.NoInteractive && !confirm("Do you want to update") {
		fmt.Fprintln(ctx.Stdout, "Update Cancelled")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	progress := startProgress(ctx, fmt.Sprintf("Updating to v%s", latest.Version))
	err = updateTo(latest.AssetURL, exe)
	if err != nil {
		progress.Fail("Error occurred while updating binary: " + err.Error())
		return err
	}
	progress.Success(fmt.Sprintf("Successfully updated to version v%s", latest.Version))
	return nil
}
