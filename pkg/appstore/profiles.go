package appstore

import (
	"context"

	"github.com/signkit/cli/pkg/jsonapi"
)

// Profiles manages https://developer.apple.com/documentation/appstoreconnectapi/profiles
type Profiles struct {
	client *Client
}

type ListProfilesOptions struct {
	Id           jsonapi.ResourceId
	Name         string
	ProfileState ProfileState
	ProfileType  ProfileType
	Ordering     ProfileOrdering
	Reverse      bool
}

func (o ListProfilesOptions) query() jsonapi.Query {
	filters := make(map[string]string)
	if o.Id != "" {
		filters["id"] = string(o.Id)
	}
	if o.Name != "" {
		filters["name"] = o.Name
	}
	if o.ProfileState != "" {
		filters["profileState"] = string(o.ProfileState)
	}
	if o.ProfileType != "" {
		filters["profileType"] = string(o.ProfileType)
	}
	return jsonapi.Query{
		Filters: filters,
		Sort:    ordering(o.Ordering, ProfileOrderingName, o.Reverse),
	}
}

// Create a profile. A nil devices list is sent as an empty list.
func (m Profiles) Create(
	ctx context.Context,
	name string,
	profileType ProfileType,
	bundleId jsonapi.Identifiable,
	certificates []jsonapi.Identifiable,
	devices []jsonapi.Identifiable,
) (Profile, error) {
	attributes := map[string]interface{}{
		"name":        name,
		"profileType": string(profileType),
	}
	relationships := map[string]interface{}{
		"bundleId":     jsonapi.ToOne(bundleId, BundleIdsType),
		"certificates": jsonapi.ToMany(certificates, CertificatesType),
		"devices":      jsonapi.ToMany(devices, DevicesType),
	}
	resource, err := m.client.API.Create(ctx, ProfilesType, attributes, relationships)
	if err != nil {
		return Profile{}, err
	}
	return NewProfile(resource)
}

func (m Profiles) Delete(ctx context.Context, profile jsonapi.Identifiable) error {
	return m.client.API.Delete(ctx, ProfilesType, profile)
}

func (m Profiles) List(
	ctx context.Context, options ListProfilesOptions,
) ([]Profile, error) {
	resources, err := m.client.list(ctx, "/"+ProfilesType, options.query())
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewProfile)
}

func (m Profiles) Read(
	ctx context.Context, profile jsonapi.Identifiable,
) (Profile, error) {
	resource, err := m.client.API.Get(ctx, ProfilesType, profile)
	if err != nil {
		return Profile{}, err
	}
	return NewProfile(resource)
}

func (m Profiles) ReadBundleId(
	ctx context.Context, profile jsonapi.Identifiable,
) (BundleId, error) {
	url := relationshipURL(profile, ProfilesType, "bundleId", false)
	resource, err := m.client.API.GetFromPath(ctx, url)
	if err != nil {
		return BundleId{}, err
	}
	return NewBundleId(resource)
}

func (m Profiles) GetBundleIdResourceId(
	ctx context.Context, profile jsonapi.Identifiable,
) (jsonapi.ResourceIdentifier, error) {
	url := relationshipURL(profile, ProfilesType, "bundleId", true)
	resource, err := m.client.API.GetFromPath(ctx, url)
	if err != nil {
		return jsonapi.ResourceIdentifier{}, err
	}
	return identifiers([]jsonapi.Resource{resource})[0], nil
}

func (m Profiles) ListCertificates(
	ctx context.Context, profile jsonapi.Identifiable,
) ([]Certificate, error) {
	url := relationshipURL(profile, ProfilesType, "certificates", false)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewCertificate)
}

func (m Profiles) ListCertificateIds(
	ctx context.Context, profile jsonapi.Identifiable,
) ([]jsonapi.ResourceIdentifier, error) {
	url := relationshipURL(profile, ProfilesType, "certificates", true)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return identifiers(resources), nil
}

func (m Profiles) ListDevices(
	ctx context.Context, profile jsonapi.Identifiable,
) ([]Device, error) {
	url := relationshipURL(profile, ProfilesType, "devices", false)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewDevice)
}

func (m Profiles) ListDeviceIds(
	ctx context.Context, profile jsonapi.Identifiable,
) ([]jsonapi.ResourceIdentifier, error) {
	url := relationshipURL(profile, ProfilesType, "devices", true)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return identifiers(resources), nil
}
