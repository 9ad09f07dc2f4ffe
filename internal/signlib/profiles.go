package signlib

import (
	"fmt"
	"strings"
	"time"

	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
)

const profileExtension = ".mobileprovision"

// now is replaced in tests that depend on generated profile names.
var now = time.Now

var profileHeaders = []string{"ID", "Name", "Type", "State", "Expires", "UUID"}

func profileRow(profile appstore.Profile) []string {
	return []string{
		string(profile.Id()),
		profile.Attributes.Name,
		string(profile.Attributes.ProfileType),
		string(profile.Attributes.ProfileState),
		profile.Attributes.ExpirationDate,
		profile.Attributes.Uuid,
	}
}

// saveProfiles writes the profiles' content to directory and returns the
// created paths.
func saveProfiles(
	ctx *cliapp.Context, directory string, profiles []appstore.Profile,
) ([]string, error) {
	var paths []string
	for _, profile := range profiles {
		content, err := profile.Content()
		if err != nil {
			return paths, err
		}
		path, err := saveFile(directory, content, profileExtension,
			string(profile.Attributes.ProfileType), string(profile.Id()),
			profile.Attributes.Name)
		if err != nil {
			return paths, fmt.Errorf("cannot save profile %s: %w", profile.Id(), err)
		}
		ctx.Logger.Info(fmt.Sprintf("Saved profile %q to %s", profile.Attributes.Name, path))
		paths = append(paths, path)
	}
	return paths, nil
}

type ListProfilesRequest struct {
	Auth
	Output
	Options   appstore.ListProfilesOptions
	Save      bool
	Directory string
}

func listProfilesAction() *cliapp.Action {
	return cliapp.NewAction[ListProfilesRequest]("list-profiles").
		Describe("List Profiles from Apple Developer portal matching given constraints").
		Optional(ProfileResourceId, ProfileName, ProfileType, ProfileState,
			ProfileOrdering, Reverse, Save, ProfilesDirectory).
		Bind(func(values cliapp.Values) (ListProfilesRequest, error) {
			return ListProfilesRequest{
				Auth:   bindAuth(values),
				Output: bindOutput(values),
				Options: appstore.ListProfilesOptions{
					Id:           jsonapi.ResourceId(values.String(ProfileResourceId.Key)),
					Name:         values.String(ProfileName.Key),
					ProfileType:  appstore.ProfileType(values.String(ProfileType.Key)),
					ProfileState: appstore.ProfileState(values.String(ProfileState.Key)),
					Ordering:     appstore.ProfileOrdering(values.String(ProfileOrdering.Key)),
					Reverse:      values.Bool(Reverse.Key),
				},
				Save:      values.Bool(Save.Key),
				Directory: values.String(ProfilesDirectory.Key),
			}, nil
		}).
		Run(withClient(ListProfilesCommand)).
		MustBuild()
}

func ListProfilesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListProfilesRequest,
) error {
	profiles, err := client.Profiles().List(ctx, request.Options)
	if err != nil {
		return fmt.Errorf("cannot list profiles: %w", err)
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d profiles", len(profiles)))
	if request.Save {
		_, err = saveProfiles(ctx, request.Directory, profiles)
		if err != nil {
			return err
		}
	}
	return showResources(ctx.Stdout, request.Output, profiles, profileHeaders, profileRow)
}

type CreateProfileRequest struct {
	Auth
	Output
	BundleId     jsonapi.ResourceId
	Certificates []jsonapi.ResourceId
	Devices      []jsonapi.ResourceId
	ProfileType  appstore.ProfileType
	Name         string
	Save         bool
	Directory    string
}

func resourceIds(values []string) []jsonapi.ResourceId {
	var result []jsonapi.ResourceId
	for _, value := range values {
		result = append(result, jsonapi.ResourceId(value))
	}
	return result
}

func identifiables(ids []jsonapi.ResourceId) []jsonapi.Identifiable {
	result := make([]jsonapi.Identifiable, 0, len(ids))
	for _, id := range ids {
		result = append(result, id)
	}
	return result
}

func createProfileAction() *cliapp.Action {
	profileType := ProfileType
	profileType.Default = []string{"IOS_APP_DEVELOPMENT"}
	return cliapp.NewAction[CreateProfileRequest]("create-profile").
		Describe("Create provisioning profile of given type for a Bundle ID").
		Required(BundleIdResourceId, CertificateResourceIds).
		Optional(DeviceResourceIds, profileType, ProfileName, Save, ProfilesDirectory).
		Bind(func(values cliapp.Values) (CreateProfileRequest, error) {
			return CreateProfileRequest{
				Auth:         bindAuth(values),
				Output:       bindOutput(values),
				BundleId:     jsonapi.ResourceId(values.String(BundleIdResourceId.Key)),
				Certificates: resourceIds(values.Strings(CertificateResourceIds.Key)),
				Devices:      resourceIds(values.Strings(DeviceResourceIds.Key)),
				ProfileType:  appstore.ProfileType(values.String(ProfileType.Key)),
				Name:         values.String(ProfileName.Key),
				Save:         values.Bool(Save.Key),
				Directory:    values.String(ProfilesDirectory.Key),
			}, nil
		}).
		Run(withClient(CreateProfileCommand)).
		MustBuild()
}

// CreateProfileCommand creates a profile for the Bundle ID. Development and ad
// hoc profiles without explicit devices get every enabled device of the
// Bundle ID's platform.
func CreateProfileCommand(
	ctx *cliapp.Context, client *appstore.Client, request CreateProfileRequest,
) error {
	bundleId, err := client.BundleIds().Read(ctx, request.BundleId)
	if err != nil {
		return fmt.Errorf("cannot read Bundle ID %s: %w", request.BundleId, err)
	}

	devices := request.Devices
	if !request.ProfileType.UsesDevices() {
		if len(devices) > 0 {
			ctx.Logger.Warn(fmt.Sprintf(
				"Ignoring devices for %s profile", request.ProfileType,
			))
		}
		devices = nil
	} else if len(devices) == 0 {
		options := appstore.ListDevicesOptions{Status: appstore.DeviceStatusEnabled}
		if bundleId.Attributes.Platform != appstore.PlatformUniversal {
			options.Platform = bundleId.Attributes.Platform
		}
		enabled, err := client.Devices().List(ctx, options)
		if err != nil {
			return fmt.Errorf("cannot list devices: %w", err)
		}
		for _, device := range enabled {
			devices = append(devices, device.Id())
		}
		ctx.Logger.Info(fmt.Sprintf("Using %d enabled devices", len(devices)))
	}

	name := request.Name
	if name == "" {
		name = fmt.Sprintf("%s %s %d",
			bundleId.Attributes.Name,
			strings.ToLower(string(request.ProfileType)),
			now().Unix(),
		)
	}

	progress := startProgress(ctx, fmt.Sprintf(
		"Creating %s profile %q for Bundle ID %s", request.ProfileType, name, request.BundleId,
	))
	profile, err := client.Profiles().Create(ctx, name, request.ProfileType, request.BundleId,
		identifiables(request.Certificates), identifiables(devices))
	if err != nil {
		progress.Fail("Profile creation failed")
		return fmt.Errorf("cannot create profile %q: %w", name, err)
	}
	progress.Success(fmt.Sprintf("Created profile %s", profile.Id()))

	if request.Save {
		_, err = saveProfiles(ctx, request.Directory, []appstore.Profile{profile})
		if err != nil {
			return err
		}
	}
	return showResource(ctx.Stdout, request.Output, profile, profileHeaders, profileRow)
}

type DeleteProfileRequest struct {
	Auth
	Profile jsonapi.ResourceId
	Yes     bool
}

func deleteProfileAction() *cliapp.Action {
	return cliapp.NewAction[DeleteProfileRequest]("delete-profile").
		Describe("Delete specified Profile from Apple Developer portal").
		Required(ProfileResourceId).
		Optional(Yes).
		Bind(func(values cliapp.Values) (DeleteProfileRequest, error) {
			return DeleteProfileRequest{
				Auth:    bindAuth(values),
				Profile: jsonapi.ResourceId(values.String(ProfileResourceId.Key)),
				Yes:     values.Bool(Yes.Key),
			}, nil
		}).
		Run(withClient(DeleteProfileCommand)).
		MustBuild()
}

func DeleteProfileCommand(
	ctx *cliapp.Context, client *appstore.Client, request DeleteProfileRequest,
) error {
	if !request.Yes && !confirm(fmt.Sprintf("Delete profile %s", request.Profile)) {
		ctx.Logger.Warn("Delete cancelled")
		return nil
	}
	err := client.Profiles().Delete(ctx, request.Profile)
	if err != nil {
		return fmt.Errorf("cannot delete profile %s: %w", request.Profile, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Deleted profile %s", request.Profile))
	return nil
}

type DownloadProfileRequest struct {
	Auth
	Profile   jsonapi.ResourceId
	Directory string
}

func downloadProfileAction() *cliapp.Action {
	return cliapp.NewAction[DownloadProfileRequest]("download-profile").
		Describe("Download provisioning profile to disk").
		Required(ProfileResourceId).
		Optional(ProfilesDirectory).
		Bind(func(values cliapp.Values) (DownloadProfileRequest, error) {
			return DownloadProfileRequest{
				Auth:      bindAuth(values),
				Profile:   jsonapi.ResourceId(values.String(ProfileResourceId.Key)),
				Directory: values.String(ProfilesDirectory.Key),
			}, nil
		}).
		Run(withClient(DownloadProfileCommand)).
		MustBuild()
}

func DownloadProfileCommand(
	ctx *cliapp.Context, client *appstore.Client, request DownloadProfileRequest,
) error {
	profile, err := client.Profiles().Read(ctx, request.Profile)
	if err != nil {
		return fmt.Errorf("cannot read profile %s: %w", request.Profile, err)
	}
	paths, err := saveProfiles(ctx, request.Directory, []appstore.Profile{profile})
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, paths[0])
	return nil
}

type ProfileRelationRequest struct {
	Auth
	Output
	Profile   jsonapi.ResourceId
	Save      bool
	Directory string
}

func listProfileCertificatesAction() *cliapp.Action {
	return cliapp.NewAction[ProfileRelationRequest]("list-profile-certificates").
		Describe("List the Signing Certificates included in a provisioning profile").
		Required(ProfileResourceId).
		Optional(Save, CertificatesDirectory).
		Bind(func(values cliapp.Values) (ProfileRelationRequest, error) {
			return ProfileRelationRequest{
				Auth:      bindAuth(values),
				Output:    bindOutput(values),
				Profile:   jsonapi.ResourceId(values.String(ProfileResourceId.Key)),
				Save:      values.Bool(Save.Key),
				Directory: values.String(CertificatesDirectory.Key),
			}, nil
		}).
		Run(withClient(ListProfileCertificatesCommand)).
		MustBuild()
}

func ListProfileCertificatesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ProfileRelationRequest,
) error {
	certificates, err := client.Profiles().ListCertificates(ctx, request.Profile)
	if err != nil {
		return fmt.Errorf("cannot list certificates of profile %s: %w", request.Profile, err)
	}
	if request.Save {
		for _, certificate := range certificates {
			_, err := saveCertificate(ctx, request.Directory, certificate, nil, "")
			if err != nil {
				return err
			}
		}
	}
	return showResources(ctx.Stdout, request.Output, certificates,
		certificateHeaders, certificateRow)
}

func listProfileDevicesAction() *cliapp.Action {
	return cliapp.NewAction[ProfileRelationRequest]("list-profile-devices").
		Describe("List the Devices included in a provisioning profile").
		Required(ProfileResourceId).
		Bind(func(values cliapp.Values) (ProfileRelationRequest, error) {
			return ProfileRelationRequest{
				Auth:    bindAuth(values),
				Output:  bindOutput(values),
				Profile: jsonapi.ResourceId(values.String(ProfileResourceId.Key)),
			}, nil
		}).
		Run(withClient(ListProfileDevicesCommand)).
		MustBuild()
}

func ListProfileDevicesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ProfileRelationRequest,
) error {
	devices, err := client.Profiles().ListDevices(ctx, request.Profile)
	if err != nil {
		return fmt.Errorf("cannot list devices of profile %s: %w", request.Profile, err)
	}
	return showResources(ctx.Stdout, request.Output, devices, deviceHeaders, deviceRow)
}
