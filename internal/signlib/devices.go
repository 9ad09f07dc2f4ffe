package signlib

import (
	"fmt"

	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
)

var deviceHeaders = []string{"ID", "Name", "Platform", "Status", "UDID", "Model"}

func deviceRow(device appstore.Device) []string {
	return []string{
		string(device.Id()),
		device.Attributes.Name,
		device.Attributes.Platform,
		string(device.Attributes.Status),
		device.Attributes.Udid,
		device.Attributes.Model,
	}
}

type ListDevicesRequest struct {
	Auth
	Output
	Options appstore.ListDevicesOptions
}

func listDevicesAction() *cliapp.Action {
	return cliapp.NewAction[ListDevicesRequest]("list-devices").
		Describe("List Devices from Apple Developer portal matching given constraints").
		Optional(DeviceName, BundleIdPlatform, DeviceStatus, DeviceUdid, DeviceOrdering, Reverse).
		Bind(func(values cliapp.Values) (ListDevicesRequest, error) {
			return ListDevicesRequest{
				Auth:   bindAuth(values),
				Output: bindOutput(values),
				Options: appstore.ListDevicesOptions{
					Name:     values.String(DeviceName.Key),
					Platform: appstore.BundleIdPlatform(values.String(BundleIdPlatform.Key)),
					Status:   appstore.DeviceStatus(values.String(DeviceStatus.Key)),
					Udid:     values.String(DeviceUdid.Key),
					Ordering: appstore.DeviceOrdering(values.String(DeviceOrdering.Key)),
					Reverse:  values.Bool(Reverse.Key),
				},
			}, nil
		}).
		Run(withClient(ListDevicesCommand)).
		MustBuild()
}

func ListDevicesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListDevicesRequest,
) error {
	devices, err := client.Devices().List(ctx, request.Options)
	if err != nil {
		return fmt.Errorf("cannot list devices: %w", err)
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d devices", len(devices)))
	return showResources(ctx.Stdout, request.Output, devices, deviceHeaders, deviceRow)
}

type RegisterDeviceRequest struct {
	Auth
	Output
	Name     string
	Platform appstore.BundleIdPlatform
	Udid     string
}

func registerDeviceAction() *cliapp.Action {
	platform := BundleIdPlatform
	platform.Default = []string{string(appstore.PlatformIOS)}
	return cliapp.NewAction[RegisterDeviceRequest]("register-device").
		Describe("Register a new Device for app development").
		Required(DeviceName, DeviceUdid).
		Optional(platform).
		Bind(func(values cliapp.Values) (RegisterDeviceRequest, error) {
			return RegisterDeviceRequest{
				Auth:     bindAuth(values),
				Output:   bindOutput(values),
				Name:     values.String(DeviceName.Key),
				Platform: appstore.BundleIdPlatform(values.String(BundleIdPlatform.Key)),
				Udid:     values.String(DeviceUdid.Key),
			}, nil
		}).
		Run(withClient(RegisterDeviceCommand)).
		MustBuild()
}

func RegisterDeviceCommand(
	ctx *cliapp.Context, client *appstore.Client, request RegisterDeviceRequest,
) error {
	device, err := client.Devices().Register(ctx, request.Name, request.Platform, request.Udid)
	if err != nil {
		return fmt.Errorf("cannot register device %s: %w", request.Udid, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Registered device %q with ID %s", request.Name, device.Id()))
	return showResource(ctx.Stdout, request.Output, device, deviceHeaders, deviceRow)
}

type ModifyDeviceRequest struct {
	Auth
	Output
	Device jsonapi.ResourceId
	Name   string
	Status appstore.DeviceStatus
}

func modifyDeviceAction() *cliapp.Action {
	return cliapp.NewAction[ModifyDeviceRequest]("modify-device").
		Describe("Rename, enable or disable a registered Device").
		Required(DeviceResourceId).
		Optional(DeviceName, DeviceStatus).
		Bind(func(values cliapp.Values) (ModifyDeviceRequest, error) {
			request := ModifyDeviceRequest{
				Auth:   bindAuth(values),
				Output: bindOutput(values),
				Device: jsonapi.ResourceId(values.String(DeviceResourceId.Key)),
				Name:   values.String(DeviceName.Key),
				Status: appstore.DeviceStatus(values.String(DeviceStatus.Key)),
			}
			if request.Name == "" && request.Status == "" {
				return request, &cliapp.ArgumentError{Message: fmt.Sprintf(
					"Nothing to modify, give %s or %s", DeviceName.Flags[0], DeviceStatus.Flags[0],
				)}
			}
			return request, nil
		}).
		Run(withClient(ModifyDeviceCommand)).
		MustBuild()
}

func ModifyDeviceCommand(
	ctx *cliapp.Context, client *appstore.Client, request ModifyDeviceRequest,
) error {
	device, err := client.Devices().Modify(ctx, request.Device, request.Name, request.Status)
	if err != nil {
		return fmt.Errorf("cannot modify device %s: %w", request.Device, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Modified device %s", device.Id()))
	return showResource(ctx.Stdout, request.Output, device, deviceHeaders, deviceRow)
}
