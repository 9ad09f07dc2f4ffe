package appstore

import (
	"context"

	"github.com/signkit/cli/pkg/jsonapi"
)

// BundleIdCapabilities manages https://developer.apple.com/documentation/appstoreconnectapi/bundle_id_capabilities
type BundleIdCapabilities struct {
	client *Client
}

// Enable turns a capability on for a bundle ID. Settings may be nil.
func (m BundleIdCapabilities) Enable(
	ctx context.Context,
	capabilityType CapabilityType,
	bundleId jsonapi.Identifiable,
	settings []CapabilitySetting,
) (BundleIdCapability, error) {
	attributes := map[string]interface{}{"capabilityType": string(capabilityType)}
	if settings != nil {
		attributes["settings"] = settings
	}
	relationships := map[string]interface{}{
		"bundleId": jsonapi.ToOne(bundleId, BundleIdsType),
	}
	resource, err := m.client.API.Create(
		ctx, BundleIdCapabilitiesType, attributes, relationships,
	)
	if err != nil {
		return BundleIdCapability{}, err
	}
	return NewBundleIdCapability(resource)
}

func (m BundleIdCapabilities) Disable(
	ctx context.Context, capability jsonapi.Identifiable,
) error {
	return m.client.API.Delete(ctx, BundleIdCapabilitiesType, capability)
}
