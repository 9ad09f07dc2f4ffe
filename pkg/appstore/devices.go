package appstore

import (
	"context"

	"github.com/signkit/cli/pkg/jsonapi"
)

// Devices manages https://developer.apple.com/documentation/appstoreconnectapi/devices
type Devices struct {
	client *Client
}

type ListDevicesOptions struct {
	Name     string
	Platform BundleIdPlatform
	Status   DeviceStatus
	Udid     string
	Ordering DeviceOrdering
	Reverse  bool
}

func (o ListDevicesOptions) query() jsonapi.Query {
	filters := make(map[string]string)
	if o.Name != "" {
		filters["name"] = o.Name
	}
	if o.Platform != "" {
		filters["platform"] = string(o.Platform)
	}
	if o.Status != "" {
		filters["status"] = string(o.Status)
	}
	if o.Udid != "" {
		filters["udid"] = o.Udid
	}
	return jsonapi.Query{
		Filters: filters,
		Sort:    ordering(o.Ordering, DeviceOrderingName, o.Reverse),
	}
}

func (m Devices) Register(
	ctx context.Context, name string, platform BundleIdPlatform, udid string,
) (Device, error) {
	resource, err := m.client.API.Create(ctx, DevicesType,
		map[string]interface{}{
			"name":     name,
			"platform": string(platform),
			"udid":     udid,
		}, nil)
	if err != nil {
		return Device{}, err
	}
	return NewDevice(resource)
}

func (m Devices) List(
	ctx context.Context, options ListDevicesOptions,
) ([]Device, error) {
	resources, err := m.client.list(ctx, "/"+DevicesType, options.query())
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewDevice)
}

func (m Devices) Read(
	ctx context.Context, device jsonapi.Identifiable,
) (Device, error) {
	resource, err := m.client.API.Get(ctx, DevicesType, device)
	if err != nil {
		return Device{}, err
	}
	return NewDevice(resource)
}

// Modify renames a device and/or changes its status. Empty values are left
// unchanged.
func (m Devices) Modify(
	ctx context.Context, device jsonapi.Identifiable, name string, status DeviceStatus,
) (Device, error) {
	attributes := make(map[string]interface{})
	if name != "" {
		attributes["name"] = name
	}
	if status != "" {
		attributes["status"] = string(status)
	}
	resource, err := m.client.API.Update(ctx, DevicesType, device, attributes)
	if err != nil {
		return Device{}, err
	}
	return NewDevice(resource)
}
