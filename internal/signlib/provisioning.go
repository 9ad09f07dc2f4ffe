package signlib

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/provisioning"
)

var ProfileFiles = cliapp.Argument{
	Key:         "profile_files",
	Flags:       []string{"--profile"},
	Description: "Path to provisioning profile, may be repeated",
	Type:        cliapp.ExistingFile,
	Multiple:    true,
}

// ProvisioningProfileTool reads provisioning profiles installed on disk.
func ProvisioningProfileTool() *cliapp.Tool {
	tool := cliapp.NewTool("provisioning-profile",
		"Utility to inspect provisioning profiles on disk").
		WithArguments(JsonOutput)
	tool.MustRegister(
		showProfilesAction(),
		listInstalledProfilesAction(),
	)
	return tool
}

// ProfileSummary is the listed form of a profile file.
type ProfileSummary struct {
	Path           string    `json:"path"`
	Name           string    `json:"name"`
	UUID           string    `json:"uuid"`
	TeamId         string    `json:"team_id"`
	TeamName       string    `json:"team_name"`
	BundleId       string    `json:"bundle_id"`
	ExpirationDate time.Time `json:"expiration_date"`
	Expired        bool      `json:"expired"`
	XcodeManaged   bool      `json:"xcode_managed"`
	Devices        int       `json:"provisioned_devices"`
	Certificates   []string  `json:"certificates"`
}

func summarizeProfile(profile *provisioning.Profile) (ProfileSummary, error) {
	certificates, err := profile.Certificates()
	if err != nil {
		return ProfileSummary{}, fmt.Errorf("%s: %w", profile.Path, err)
	}
	summary := ProfileSummary{
		Path:           profile.Path,
		Name:           profile.Name,
		UUID:           profile.UUID,
		TeamId:         profile.TeamId(),
		TeamName:       profile.TeamName,
		BundleId:       profile.BundleId(),
		ExpirationDate: profile.ExpirationDate,
		Expired:        profile.IsExpired(now()),
		XcodeManaged:   profile.IsXcodeManaged,
		Devices:        len(profile.ProvisionedDevices),
		Certificates:   make([]string, 0, len(certificates)),
	}
	for _, certificate := range certificates {
		summary.Certificates = append(summary.Certificates, certificate.Subject.CommonName)
	}
	return summary, nil
}

var profileSummaryHeaders = []string{
	"Name", "UUID", "Team", "Bundle ID", "Expires", "Devices", "Certificates",
}

func profileSummaryRow(summary ProfileSummary) []string {
	expires := summary.ExpirationDate.Format(time.RFC3339)
	if summary.Expired {
		expires += " (expired)"
	}
	return []string{
		summary.Name,
		summary.UUID,
		summary.TeamId,
		summary.BundleId,
		expires,
		strconv.Itoa(summary.Devices),
		strings.Join(summary.Certificates, "\n"),
	}
}

type ShowProfilesRequest struct {
	Output
	Paths []string
}

func showProfilesAction() *cliapp.Action {
	return cliapp.NewAction[ShowProfilesRequest]("show").
		Describe("Show the contents of provisioning profiles").
		Required(ProfileFiles).
		Bind(func(values cliapp.Values) (ShowProfilesRequest, error) {
			return ShowProfilesRequest{
				Output: bindOutput(values),
				Paths:  values.Strings(ProfileFiles.Key),
			}, nil
		}).
		Run(ShowProfilesCommand).
		MustBuild()
}

func ShowProfilesCommand(ctx *cliapp.Context, request ShowProfilesRequest) error {
	summaries := make([]ProfileSummary, 0, len(request.Paths))
	for _, path := range request.Paths {
		profile, err := provisioning.ParseFile(path)
		if err != nil {
			return cliapp.NewAppError(err.Error(), nil)
		}
		summary, err := summarizeProfile(profile)
		if err != nil {
			return cliapp.NewAppError(err.Error(), nil)
		}
		summaries = append(summaries, summary)
	}
	return showResources(ctx.Stdout, request.Output, summaries,
		profileSummaryHeaders, profileSummaryRow)
}

type ListInstalledProfilesRequest struct {
	Output
	Directory string
}

func listInstalledProfilesAction() *cliapp.Action {
	return cliapp.NewAction[ListInstalledProfilesRequest]("list").
		Describe("List the provisioning profiles installed in a directory").
		Optional(ProfilesDirectory).
		Bind(func(values cliapp.Values) (ListInstalledProfilesRequest, error) {
			return ListInstalledProfilesRequest{
				Output:    bindOutput(values),
				Directory: values.String(ProfilesDirectory.Key),
			}, nil
		}).
		Run(ListInstalledProfilesCommand).
		MustBuild()
}

// ListInstalledProfilesCommand skips files that are not valid profiles.
func ListInstalledProfilesCommand(
	ctx *cliapp.Context, request ListInstalledProfilesRequest,
) error {
	paths, err := provisioning.Paths(request.Directory)
	if err != nil {
		return fmt.Errorf("cannot list profiles in %s: %w", request.Directory, err)
	}
	summaries := make([]ProfileSummary, 0, len(paths))
	for _, path := range paths {
		profile, err := provisioning.ParseFile(path)
		if err == nil {
			var summary ProfileSummary
			summary, err = summarizeProfile(profile)
			if err == nil {
				summaries = append(summaries, summary)
				continue
			}
		}
		ctx.Logger.Warn(fmt.Sprintf("Skipping %s", path), ctx.Logger.Args("error", err))
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d profiles in %s", len(summaries), request.Directory))
	return showResources(ctx.Stdout, request.Output, summaries,
		profileSummaryHeaders, profileSummaryRow)
}
