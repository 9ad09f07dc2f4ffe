package appstore

import (
	"context"
	"fmt"

	"github.com/signkit/cli/pkg/jsonapi"
)

// BundleIds manages https://developer.apple.com/documentation/appstoreconnectapi/bundle_ids
type BundleIds struct {
	client *Client
}

type ListBundleIdsOptions struct {
	Identifier string
	Name       string
	Platform   BundleIdPlatform
	SeedId     string
	Ordering   BundleIdOrdering
	Reverse    bool
}

func (o ListBundleIdsOptions) query() jsonapi.Query {
	filters := make(map[string]string)
	if o.Identifier != "" {
		filters["identifier"] = o.Identifier
	}
	if o.Name != "" {
		filters["name"] = o.Name
	}
	if o.Platform != "" {
		filters["platform"] = string(o.Platform)
	}
	if o.SeedId != "" {
		filters["seedId"] = o.SeedId
	}
	return jsonapi.Query{
		Filters: filters,
		Sort:    ordering(o.Ordering, BundleIdOrderingName, o.Reverse),
	}
}

// Register creates a new bundle ID. An empty seedId lets Apple use the team
// ID.
func (m BundleIds) Register(
	ctx context.Context,
	identifier, name string,
	platform BundleIdPlatform,
	seedId string,
) (BundleId, error) {
	attributes := map[string]interface{}{
		"identifier": identifier,
		"name":       name,
		"platform":   string(platform),
	}
	if seedId != "" {
		attributes["seedId"] = seedId
	}
	resource, err := m.client.API.Create(ctx, BundleIdsType, attributes, nil)
	if err != nil {
		return BundleId{}, err
	}
	return NewBundleId(resource)
}

func (m BundleIds) Modify(
	ctx context.Context, bundleId jsonapi.Identifiable, name string,
) (BundleId, error) {
	resource, err := m.client.API.Update(
		ctx, BundleIdsType, bundleId, map[string]interface{}{"name": name},
	)
	if err != nil {
		return BundleId{}, err
	}
	return NewBundleId(resource)
}

func (m BundleIds) Delete(ctx context.Context, bundleId jsonapi.Identifiable) error {
	return m.client.API.Delete(ctx, BundleIdsType, bundleId)
}

func (m BundleIds) List(
	ctx context.Context, options ListBundleIdsOptions,
) ([]BundleId, error) {
	resources, err := m.client.list(ctx, "/"+BundleIdsType, options.query())
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewBundleId)
}

func (m BundleIds) Read(
	ctx context.Context, bundleId jsonapi.Identifiable,
) (BundleId, error) {
	resource, err := m.client.API.Get(ctx, BundleIdsType, bundleId)
	if err != nil {
		return BundleId{}, err
	}
	return NewBundleId(resource)
}

func (m BundleIds) ListProfileIds(
	ctx context.Context, bundleId jsonapi.Identifiable,
) ([]jsonapi.ResourceIdentifier, error) {
	url := relationshipURL(bundleId, BundleIdsType, "profiles", true)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return identifiers(resources), nil
}

func (m BundleIds) ListProfiles(
	ctx context.Context, bundleId jsonapi.Identifiable,
) ([]Profile, error) {
	url := relationshipURL(bundleId, BundleIdsType, "profiles", false)
	resources, err := m.client.API.Paginate(ctx, url, m.client.PageSize)
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewProfile)
}

// Capability endpoints do not accept a page size.

func (m BundleIds) ListCapabilityIds(
	ctx context.Context, bundleId jsonapi.Identifiable,
) ([]jsonapi.ResourceIdentifier, error) {
	url := relationshipURL(bundleId, BundleIdsType, "bundleIdCapabilities", true)
	resources, err := m.client.API.Paginate(ctx, url, 0)
	if err != nil {
		return nil, err
	}
	return identifiers(resources), nil
}

func (m BundleIds) ListCapabilities(
	ctx context.Context, bundleId jsonapi.Identifiable,
) ([]BundleIdCapability, error) {
	url := relationshipURL(bundleId, BundleIdsType, "bundleIdCapabilities", false)
	resources, err := m.client.API.Paginate(ctx, url, 0)
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewBundleIdCapability)
}

// FindByIdentifier returns the bundle IDs whose identifier matches exactly;
// the API filter also matches prefixes.
func (m BundleIds) FindByIdentifier(
	ctx context.Context, identifier string, platform BundleIdPlatform,
) ([]BundleId, error) {
	bundleIds, err := m.List(ctx, ListBundleIdsOptions{
		Identifier: identifier,
		Platform:   platform,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list bundle IDs: %w", err)
	}
	var result []BundleId
	for _, bundleId := range bundleIds {
		if bundleId.Attributes.Identifier == identifier {
			result = append(result, bundleId)
		}
	}
	return result, nil
}
