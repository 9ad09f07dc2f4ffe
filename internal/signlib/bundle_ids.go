package signlib

import (
	"fmt"
	"strings"

	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
	"github.com/signkit/cli/pkg/worker_pool"
)

var bundleIdHeaders = []string{"ID", "Identifier", "Name", "Platform", "Seed ID"}

func bundleIdRow(bundleId appstore.BundleId) []string {
	return []string{
		string(bundleId.Id()),
		bundleId.Attributes.Identifier,
		bundleId.Attributes.Name,
		string(bundleId.Attributes.Platform),
		bundleId.Attributes.SeedId,
	}
}

type ListBundleIdsRequest struct {
	Auth
	Output
	Options appstore.ListBundleIdsOptions
}

func listBundleIdsAction() *cliapp.Action {
	return cliapp.NewAction[ListBundleIdsRequest]("list-bundle-ids").
		Describe("List Bundle IDs from Apple Developer portal matching given constraints").
		Optional(BundleIdIdentifier, BundleIdName, BundleIdPlatform, SeedId,
			BundleIdOrdering, Reverse).
		Bind(func(values cliapp.Values) (ListBundleIdsRequest, error) {
			return ListBundleIdsRequest{
				Auth:   bindAuth(values),
				Output: bindOutput(values),
				Options: appstore.ListBundleIdsOptions{
					Identifier: values.String(BundleIdIdentifier.Key),
					Name:       values.String(BundleIdName.Key),
					Platform:   appstore.BundleIdPlatform(values.String(BundleIdPlatform.Key)),
					SeedId:     values.String(SeedId.Key),
					Ordering:   appstore.BundleIdOrdering(values.String(BundleIdOrdering.Key)),
					Reverse:    values.Bool(Reverse.Key),
				},
			}, nil
		}).
		Run(withClient(ListBundleIdsCommand)).
		MustBuild()
}

func ListBundleIdsCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListBundleIdsRequest,
) error {
	bundleIds, err := client.BundleIds().List(ctx, request.Options)
	if err != nil {
		return fmt.Errorf("cannot list Bundle IDs: %w", err)
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d Bundle IDs", len(bundleIds)))
	return showResources(ctx.Stdout, request.Output, bundleIds, bundleIdHeaders, bundleIdRow)
}

type RegisterBundleIdRequest struct {
	Auth
	Output
	Identifier string
	Name       string
	Platform   appstore.BundleIdPlatform
	SeedId     string
}

func registerBundleIdAction() *cliapp.Action {
	platform := BundleIdPlatform
	platform.Default = []string{string(appstore.PlatformIOS)}
	return cliapp.NewAction[RegisterBundleIdRequest]("register-bundle-id").
		Describe("Create Bundle ID in Apple Developer portal for specifier identifier").
		Required(BundleIdIdentifier).
		Optional(BundleIdName, platform, SeedId).
		Bind(bindRegisterBundleIdRequest).
		Run(withClient(RegisterBundleIdCommand)).
		MustBuild()
}

func bindRegisterBundleIdRequest(values cliapp.Values) (RegisterBundleIdRequest, error) {
	identifier := values.String(BundleIdIdentifier.Key)
	name := values.String(BundleIdName.Key)
	if name == "" {
		// Apple does not accept dots in names
		name = strings.ReplaceAll(identifier, ".", " ")
	}
	return RegisterBundleIdRequest{
		Auth:       bindAuth(values),
		Output:     bindOutput(values),
		Identifier: identifier,
		Name:       name,
		Platform:   appstore.BundleIdPlatform(values.String(BundleIdPlatform.Key)),
		SeedId:     values.String(SeedId.Key),
	}, nil
}

func RegisterBundleIdCommand(
	ctx *cliapp.Context, client *appstore.Client, request RegisterBundleIdRequest,
) error {
	progress := startProgress(ctx, fmt.Sprintf(
		"Registering Bundle ID %s for %s", request.Identifier, request.Platform,
	))
	bundleId, err := client.BundleIds().Register(
		ctx, request.Identifier, request.Name, request.Platform, request.SeedId,
	)
	if err != nil {
		progress.Fail("Bundle ID registration failed")
		return fmt.Errorf("cannot register Bundle ID %s: %w", request.Identifier, err)
	}
	progress.Success(fmt.Sprintf("Registered Bundle ID %s", bundleId.Id()))
	return showResource(ctx.Stdout, request.Output, bundleId, bundleIdHeaders, bundleIdRow)
}

type ModifyBundleIdRequest struct {
	Auth
	Output
	BundleId jsonapi.ResourceId
	Name     string
}

func modifyBundleIdAction() *cliapp.Action {
	return cliapp.NewAction[ModifyBundleIdRequest]("modify-bundle-id").
		Describe("Rename a Bundle ID in Apple Developer portal").
		Required(BundleIdResourceId, BundleIdName).
		Bind(func(values cliapp.Values) (ModifyBundleIdRequest, error) {
			return ModifyBundleIdRequest{
				Auth:     bindAuth(values),
				Output:   bindOutput(values),
				BundleId: jsonapi.ResourceId(values.String(BundleIdResourceId.Key)),
				Name:     values.String(BundleIdName.Key),
			}, nil
		}).
		Run(withClient(ModifyBundleIdCommand)).
		MustBuild()
}

func ModifyBundleIdCommand(
	ctx *cliapp.Context, client *appstore.Client, request ModifyBundleIdRequest,
) error {
	bundleId, err := client.BundleIds().Modify(ctx, request.BundleId, request.Name)
	if err != nil {
		return fmt.Errorf("cannot modify Bundle ID %s: %w", request.BundleId, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Renamed Bundle ID %s to %q", bundleId.Id(), request.Name))
	return showResource(ctx.Stdout, request.Output, bundleId, bundleIdHeaders, bundleIdRow)
}

type DeleteBundleIdRequest struct {
	Auth
	BundleId jsonapi.ResourceId
	Yes      bool
}

func deleteBundleIdAction() *cliapp.Action {
	return cliapp.NewAction[DeleteBundleIdRequest]("delete-bundle-id").
		Describe("Delete specified Bundle ID from Apple Developer portal").
		Required(BundleIdResourceId).
		Optional(Yes).
		Bind(func(values cliapp.Values) (DeleteBundleIdRequest, error) {
			return DeleteBundleIdRequest{
				Auth:     bindAuth(values),
				BundleId: jsonapi.ResourceId(values.String(BundleIdResourceId.Key)),
				Yes:      values.Bool(Yes.Key),
			}, nil
		}).
		Run(withClient(DeleteBundleIdCommand)).
		MustBuild()
}

func DeleteBundleIdCommand(
	ctx *cliapp.Context, client *appstore.Client, request DeleteBundleIdRequest,
) error {
	if !request.Yes && !confirm(fmt.Sprintf("Delete Bundle ID %s", request.BundleId)) {
		ctx.Logger.Warn("Delete cancelled")
		return nil
	}
	err := client.BundleIds().Delete(ctx, request.BundleId)
	if err != nil {
		return fmt.Errorf("cannot delete Bundle ID %s: %w", request.BundleId, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Deleted Bundle ID %s", request.BundleId))
	return nil
}

type ListBundleIdProfilesRequest struct {
	Auth
	Output
	BundleIds    []jsonapi.ResourceId
	ProfileType  appstore.ProfileType
	ProfileState appstore.ProfileState
}

func listBundleIdProfilesAction() *cliapp.Action {
	bundleIds := BundleIdResourceId
	bundleIds.Multiple = true
	bundleIds.Description = "Alphanumeric ID value of a Bundle ID, may be repeated"
	return cliapp.NewAction[ListBundleIdProfilesRequest]("list-bundle-id-profiles").
		Describe("List provisioning profiles from Apple Developer portal for given Bundle IDs").
		Required(bundleIds).
		Optional(ProfileType, ProfileState).
		Bind(func(values cliapp.Values) (ListBundleIdProfilesRequest, error) {
			request := ListBundleIdProfilesRequest{
				Auth:         bindAuth(values),
				Output:       bindOutput(values),
				ProfileType:  appstore.ProfileType(values.String(ProfileType.Key)),
				ProfileState: appstore.ProfileState(values.String(ProfileState.Key)),
			}
			for _, id := range values.Strings(BundleIdResourceId.Key) {
				request.BundleIds = append(request.BundleIds, jsonapi.ResourceId(id))
			}
			return request, nil
		}).
		Run(withClient(ListBundleIdProfilesCommand)).
		MustBuild()
}

// Number of Bundle IDs whose profiles are fetched at the same time.
const profileWorkers = 4

type bundleIdProfilesTask struct {
	ctx      *cliapp.Context
	client   *appstore.Client
	bundleId jsonapi.ResourceId
	profiles *[]appstore.Profile
	err      *error
}

func (task bundleIdProfilesTask) Run(send func(string), abort func()) {
	send(fmt.Sprintf("Listing profiles of Bundle ID %s", task.bundleId))
	profiles, err := task.client.BundleIds().ListProfiles(task.ctx, task.bundleId)
	if err != nil {
		*task.err = fmt.Errorf("cannot list profiles of Bundle ID %s: %w", task.bundleId, err)
		send(fmt.Sprintf("Failed to list profiles of Bundle ID %s", task.bundleId))
		abort()
		return
	}
	*task.profiles = profiles
	send(fmt.Sprintf("Found %d profiles of Bundle ID %s", len(profiles), task.bundleId))
}

func ListBundleIdProfilesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListBundleIdProfilesRequest,
) error {
	listed := make([][]appstore.Profile, len(request.BundleIds))
	errs := make([]error, len(request.BundleIds))
	pool := worker_pool.New(profileWorkers, len(request.BundleIds), liveOutput(ctx))
	for i, bundleId := range request.BundleIds {
		pool.Add(bundleIdProfilesTask{ctx, client, bundleId, &listed[i], &errs[i]})
	}
	pool.Start()
	<-pool.Wait()
	if pool.IsAborted() {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}

	var result []appstore.Profile
	seen := make(map[jsonapi.ResourceId]bool)
	for _, profiles := range listed {
		for _, profile := range profiles {
			if seen[profile.Id()] {
				continue
			}
			if request.ProfileType != "" && profile.Attributes.ProfileType != request.ProfileType {
				continue
			}
			if request.ProfileState != "" && profile.Attributes.ProfileState != request.ProfileState {
				continue
			}
			seen[profile.Id()] = true
			result = append(result, profile)
		}
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d profiles", len(result)))
	return showResources(ctx.Stdout, request.Output, result, profileHeaders, profileRow)
}

var capabilityHeaders = []string{"ID", "Capability", "Settings"}

func capabilityRow(capability appstore.BundleIdCapability) []string {
	var settings []string
	for _, setting := range capability.Attributes.Settings {
		for _, option := range setting.Options {
			settings = append(settings, setting.Key+"="+option.Key)
		}
	}
	return []string{
		string(capability.Id()),
		string(capability.Attributes.CapabilityType),
		strings.Join(settings, ", "),
	}
}

type ListCapabilitiesRequest struct {
	Auth
	Output
	BundleId jsonapi.ResourceId
}

func listCapabilitiesAction() *cliapp.Action {
	return cliapp.NewAction[ListCapabilitiesRequest]("list-capabilities").
		Describe("List capabilities enabled for a Bundle ID").
		Required(BundleIdResourceId).
		Bind(func(values cliapp.Values) (ListCapabilitiesRequest, error) {
			return ListCapabilitiesRequest{
				Auth:     bindAuth(values),
				Output:   bindOutput(values),
				BundleId: jsonapi.ResourceId(values.String(BundleIdResourceId.Key)),
			}, nil
		}).
		Run(withClient(ListCapabilitiesCommand)).
		MustBuild()
}

func ListCapabilitiesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListCapabilitiesRequest,
) error {
	capabilities, err := client.BundleIds().ListCapabilities(ctx, request.BundleId)
	if err != nil {
		return fmt.Errorf("cannot list capabilities of Bundle ID %s: %w", request.BundleId, err)
	}
	return showResources(ctx.Stdout, request.Output, capabilities, capabilityHeaders, capabilityRow)
}

type CapabilitiesRequest struct {
	Auth
	Output
	BundleId     jsonapi.ResourceId
	Capabilities []appstore.CapabilityType
}

func bindCapabilitiesRequest(values cliapp.Values) (CapabilitiesRequest, error) {
	request := CapabilitiesRequest{
		Auth:     bindAuth(values),
		Output:   bindOutput(values),
		BundleId: jsonapi.ResourceId(values.String(BundleIdResourceId.Key)),
	}
	for _, capability := range values.Strings(Capabilities.Key) {
		request.Capabilities = append(request.Capabilities, appstore.CapabilityType(capability))
	}
	return request, nil
}

func enableCapabilityAction() *cliapp.Action {
	return cliapp.NewAction[CapabilitiesRequest]("enable-capability").
		Describe("Enable capabilities for a Bundle ID").
		Required(BundleIdResourceId, Capabilities).
		Bind(bindCapabilitiesRequest).
		Run(withClient(EnableCapabilitiesCommand)).
		MustBuild()
}

func EnableCapabilitiesCommand(
	ctx *cliapp.Context, client *appstore.Client, request CapabilitiesRequest,
) error {
	var enabled []appstore.BundleIdCapability
	for _, capabilityType := range request.Capabilities {
		capability, err := client.BundleIdCapabilities().Enable(
			ctx, capabilityType, request.BundleId, nil,
		)
		if err != nil {
			return fmt.Errorf(
				"cannot enable %s for Bundle ID %s: %w", capabilityType, request.BundleId, err,
			)
		}
		ctx.Logger.Info(fmt.Sprintf("Enabled %s for Bundle ID %s", capabilityType, request.BundleId))
		enabled = append(enabled, capability)
	}
	return showResources(ctx.Stdout, request.Output, enabled, capabilityHeaders, capabilityRow)
}

func disableCapabilityAction() *cliapp.Action {
	return cliapp.NewAction[CapabilitiesRequest]("disable-capability").
		Describe("Disable capabilities for a Bundle ID").
		Required(BundleIdResourceId, Capabilities).
		Bind(bindCapabilitiesRequest).
		Run(withClient(DisableCapabilitiesCommand)).
		MustBuild()
}

func DisableCapabilitiesCommand(
	ctx *cliapp.Context, client *appstore.Client, request CapabilitiesRequest,
) error {
	enabled, err := client.BundleIds().ListCapabilities(ctx, request.BundleId)
	if err != nil {
		return fmt.Errorf("cannot list capabilities of Bundle ID %s: %w", request.BundleId, err)
	}
	for _, capabilityType := range request.Capabilities {
		var found bool
		for _, capability := range enabled {
			if capability.Attributes.CapabilityType != capabilityType {
				continue
			}
			found = true
			err := client.BundleIdCapabilities().Disable(ctx, capability)
			if err != nil {
				return fmt.Errorf(
					"cannot disable %s for Bundle ID %s: %w", capabilityType, request.BundleId, err,
				)
			}
			ctx.Logger.Info(fmt.Sprintf("Disabled %s for Bundle ID %s", capabilityType, request.BundleId))
		}
		if !found {
			ctx.Logger.Warn(fmt.Sprintf(
				"Capability %s is not enabled for Bundle ID %s", capabilityType, request.BundleId,
			))
		}
	}
	return nil
}
