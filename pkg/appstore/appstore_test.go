package appstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/signkit/cli/pkg/jsonapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiHost = "https://api.example.com/v1"

func getTestClient(mockData jsonapi.MockData) *Client {
	api := jsonapi.GetTestConnection(mockData)
	api.Host = apiHost
	return &Client{API: &api, PageSize: DefaultPageSize}
}

func bundleIdJSON(id, identifier, name string) string {
	return `{"type": "bundleIds", "id": "` + id + `",
		"attributes": {"identifier": "` + identifier + `", "name": "` + name + `",
		               "platform": "IOS", "seedId": "TEAM"},
		"relationships": {
			"profiles": {"links": {
				"self": "` + apiHost + `/bundleIds/` + id + `/relationships/profiles",
				"related": "` + apiHost + `/bundleIds/` + id + `/profiles"}},
			"bundleIdCapabilities": {"links": {
				"self": "` + apiHost + `/bundleIds/` + id + `/relationships/bundleIdCapabilities",
				"related": "` + apiHost + `/bundleIds/` + id + `/bundleIdCapabilities"}}
		}}`
}

const profileJSON = `{"type": "profiles", "id": "P1",
	"attributes": {"name": "Dev", "profileType": "IOS_APP_DEVELOPMENT",
	               "profileState": "ACTIVE", "uuid": "UUID-1",
	               "profileContent": "aGVsbG8="},
	"relationships": {
		"bundleId": {"links": {
			"self": "` + apiHost + `/profiles/P1/relationships/bundleId",
			"related": "` + apiHost + `/profiles/P1/bundleId"}},
		"certificates": {"links": {
			"self": "` + apiHost + `/profiles/P1/relationships/certificates",
			"related": "` + apiHost + `/profiles/P1/certificates"}},
		"devices": {"links": {
			"self": "` + apiHost + `/profiles/P1/relationships/devices",
			"related": "` + apiHost + `/profiles/P1/devices"}}
	}}`

func assertPayload(t *testing.T, actual []byte, expected string) {
	t.Helper()
	var left, right interface{}
	require.NoError(t, json.Unmarshal(actual, &left))
	require.NoError(t, json.Unmarshal([]byte(expected), &right))
	assert.Equal(t, right, left)
}

func TestListBundleIdsReversedByName(t *testing.T) {
	mockData := jsonapi.MockData{
		"/bundleIds?limit=100&sort=-name": jsonapi.GetMockTextResponse(
			`{"data": [` + bundleIdJSON("B2", "com.example.b", "B") + `],
			  "links": {"next": "/bundleIds?cursor=MQ&limit=100&sort=-name"}}`,
		),
		"/bundleIds?cursor=MQ&limit=100&sort=-name": jsonapi.GetMockTextResponse(
			`{"data": [` + bundleIdJSON("B1", "com.example.a", "A") + `]}`,
		),
	}
	client := getTestClient(mockData)

	bundleIds, err := client.BundleIds().List(context.Background(), ListBundleIdsOptions{
		Ordering: BundleIdOrderingName,
		Reverse:  true,
	})

	require.NoError(t, err)
	require.Len(t, bundleIds, 2)
	assert.Equal(t, jsonapi.ResourceId("B2"), bundleIds[0].Id())
	assert.Equal(t, "com.example.a", bundleIds[1].Attributes.Identifier)
	assert.Equal(t, PlatformIOS, bundleIds[1].Attributes.Platform)
	assert.Equal(t, 1, mockData["/bundleIds?cursor=MQ&limit=100&sort=-name"].Count)
}

func TestListBundleIdsDefaultsToName(t *testing.T) {
	url := "/bundleIds?filter%5Bidentifier%5D=com.example.a&" +
		"filter%5Bplatform%5D=IOS&limit=100&sort=name"
	mockData := jsonapi.MockData{
		url: jsonapi.GetMockTextResponse(
			`{"data": [` + bundleIdJSON("B1", "com.example.a", "A") + `,` +
				bundleIdJSON("B3", "com.example.a.widget", "Widget") + `]}`,
		),
	}
	client := getTestClient(mockData)

	bundleIds, err := client.BundleIds().FindByIdentifier(
		context.Background(), "com.example.a", PlatformIOS,
	)

	require.NoError(t, err)
	require.Len(t, bundleIds, 1)
	assert.Equal(t, jsonapi.ResourceId("B1"), bundleIds[0].Id())
}

func TestRegisterBundleId(t *testing.T) {
	mockData := jsonapi.MockData{
		"/bundleIds": jsonapi.GetMockTextResponse(
			`{"data": ` + bundleIdJSON("B1", "com.example.a", "A") + `}`,
		),
	}
	client := getTestClient(mockData)

	bundleId, err := client.BundleIds().Register(
		context.Background(), "com.example.a", "A", PlatformIOS, "",
	)

	require.NoError(t, err)
	assert.Equal(t, "A", bundleId.Attributes.Name)
	request := mockData["/bundleIds"].Requests[0].Request
	assert.Equal(t, "POST", request.Method)
	assertPayload(t, request.Payload, `{"data": {"type": "bundleIds",
		"attributes": {"identifier": "com.example.a", "name": "A", "platform": "IOS"}}}`)
}

func TestModifyAndDeleteBundleId(t *testing.T) {
	mockData := jsonapi.MockData{
		"/bundleIds/B1": &jsonapi.MockEndpoint{Requests: []jsonapi.MockRequest{
			{Response: jsonapi.MockResponse{
				Text: `{"data": ` + bundleIdJSON("B1", "com.example.a", "Renamed") + `}`,
			}},
			{Response: jsonapi.MockResponse{Text: ""}},
		}},
	}
	client := getTestClient(mockData)

	bundleId, err := client.BundleIds().Modify(
		context.Background(), jsonapi.ResourceId("B1"), "Renamed",
	)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", bundleId.Attributes.Name)

	err = client.BundleIds().Delete(context.Background(), bundleId)
	require.NoError(t, err)

	requests := mockData["/bundleIds/B1"].Requests
	assert.Equal(t, "PATCH", requests[0].Request.Method)
	assertPayload(t, requests[0].Request.Payload,
		`{"data": {"id": "B1", "type": "bundleIds", "attributes": {"name": "Renamed"}}}`)
	assert.Equal(t, "DELETE", requests[1].Request.Method)
}

func TestRelationshipsOfBareIdsAndResources(t *testing.T) {
	profilePage := `{"data": [` + profileJSON + `]}`
	identifierPage := `{"data": [{"type": "profiles", "id": "P1"}]}`
	profilesUrl := "/bundleIds/B1/profiles?limit=100"
	profileIdsUrl := "/bundleIds/B1/relationships/profiles?limit=100"
	mockData := jsonapi.MockData{
		profilesUrl:             jsonapi.GetMockTextResponse(profilePage),
		profileIdsUrl:           jsonapi.GetMockTextResponse(identifierPage),
		apiHost + profilesUrl:   jsonapi.GetMockTextResponse(profilePage),
		apiHost + profileIdsUrl: jsonapi.GetMockTextResponse(identifierPage),
	}
	client := getTestClient(mockData)
	ctx := context.Background()
	resource, err := jsonapi.NewResource([]byte(bundleIdJSON("B1", "com.example.a", "A")))
	require.NoError(t, err)
	bundleId, err := NewBundleId(resource)
	require.NoError(t, err)

	for _, ref := range []jsonapi.Identifiable{jsonapi.ResourceId("B1"), bundleId} {
		profiles, err := client.BundleIds().ListProfiles(ctx, ref)
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, ProfileType("IOS_APP_DEVELOPMENT"), profiles[0].Attributes.ProfileType)

		ids, err := client.BundleIds().ListProfileIds(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, []jsonapi.ResourceIdentifier{{Type: "profiles", Id: "P1"}}, ids)
	}
	for key, endpoint := range mockData {
		assert.Equal(t, 1, endpoint.Count, "endpoint %s", key)
	}
}

func TestListCapabilitiesHasNoPageSize(t *testing.T) {
	mockData := jsonapi.MockData{
		"/bundleIds/B1/bundleIdCapabilities": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "bundleIdCapabilities", "id": "B1_PUSH",
			  "attributes": {"capabilityType": "PUSH_NOTIFICATIONS", "settings": []}}]}`,
		),
	}
	client := getTestClient(mockData)

	capabilities, err := client.BundleIds().ListCapabilities(
		context.Background(), jsonapi.ResourceId("B1"),
	)

	require.NoError(t, err)
	require.Len(t, capabilities, 1)
	assert.Equal(t, CapabilityType("PUSH_NOTIFICATIONS"), capabilities[0].Attributes.CapabilityType)
}

func TestEnableAndDisableCapability(t *testing.T) {
	mockData := jsonapi.MockData{
		"/bundleIdCapabilities": jsonapi.GetMockTextResponse(
			`{"data": {"type": "bundleIdCapabilities", "id": "B1_ICLOUD",
			  "attributes": {"capabilityType": "ICLOUD"}}}`,
		),
		"/bundleIdCapabilities/B1_ICLOUD": jsonapi.GetMockTextResponse(""),
	}
	client := getTestClient(mockData)
	ctx := context.Background()

	capability, err := client.BundleIdCapabilities().Enable(
		ctx, "ICLOUD", jsonapi.ResourceId("B1"), nil,
	)
	require.NoError(t, err)
	assertPayload(t, mockData["/bundleIdCapabilities"].Requests[0].Request.Payload,
		`{"data": {"type": "bundleIdCapabilities",
		  "attributes": {"capabilityType": "ICLOUD"},
		  "relationships": {"bundleId": {"data": {"type": "bundleIds", "id": "B1"}}}}}`)

	require.NoError(t, client.BundleIdCapabilities().Disable(ctx, capability))
	assert.Equal(t, "DELETE",
		mockData["/bundleIdCapabilities/B1_ICLOUD"].Requests[0].Request.Method)
}

func TestCreateProfile(t *testing.T) {
	mockData := jsonapi.MockData{
		"/profiles": jsonapi.GetMockTextResponse(`{"data": ` + profileJSON + `}`),
	}
	client := getTestClient(mockData)

	profile, err := client.Profiles().Create(
		context.Background(),
		"Dev",
		"IOS_APP_DEVELOPMENT",
		jsonapi.ResourceId("B1"),
		[]jsonapi.Identifiable{jsonapi.ResourceId("C1")},
		nil,
	)

	require.NoError(t, err)
	assert.Equal(t, "UUID-1", profile.Attributes.Uuid)
	content, err := profile.Content()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assertPayload(t, mockData["/profiles"].Requests[0].Request.Payload,
		`{"data": {"type": "profiles",
		  "attributes": {"name": "Dev", "profileType": "IOS_APP_DEVELOPMENT"},
		  "relationships": {
		    "bundleId": {"data": {"type": "bundleIds", "id": "B1"}},
		    "certificates": {"data": [{"type": "certificates", "id": "C1"}]},
		    "devices": {"data": []}}}}`)
}

func TestListProfilesWithFilters(t *testing.T) {
	url := "/profiles?filter%5BprofileState%5D=ACTIVE&" +
		"filter%5BprofileType%5D=IOS_APP_STORE&limit=100&sort=-profileType"
	mockData := jsonapi.MockData{
		url: jsonapi.GetMockTextResponse(`{"data": [` + profileJSON + `]}`),
	}
	client := getTestClient(mockData)

	profiles, err := client.Profiles().List(context.Background(), ListProfilesOptions{
		ProfileState: ProfileStateActive,
		ProfileType:  "IOS_APP_STORE",
		Ordering:     ProfileOrderingProfileType,
		Reverse:      true,
	})

	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestProfileCertificatesAndDevicesUseTheirOwnLinks(t *testing.T) {
	mockData := jsonapi.MockData{
		apiHost + "/profiles/P1/certificates?limit=100": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "certificates", "id": "C1",
			  "attributes": {"displayName": "Jane", "certificateType": "IOS_DEVELOPMENT"}}]}`,
		),
		apiHost + "/profiles/P1/relationships/devices?limit=100": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "devices", "id": "D1"}, {"type": "devices", "id": "D2"}]}`,
		),
		apiHost + "/profiles/P1/bundleId": jsonapi.GetMockTextResponse(
			`{"data": ` + bundleIdJSON("B1", "com.example.a", "A") + `}`,
		),
	}
	client := getTestClient(mockData)
	ctx := context.Background()
	resource, err := jsonapi.NewResource([]byte(profileJSON))
	require.NoError(t, err)
	profile, err := NewProfile(resource)
	require.NoError(t, err)

	certificates, err := client.Profiles().ListCertificates(ctx, profile)
	require.NoError(t, err)
	require.Len(t, certificates, 1)
	assert.Equal(t, "Jane", certificates[0].Attributes.DisplayName)

	deviceIds, err := client.Profiles().ListDeviceIds(ctx, profile)
	require.NoError(t, err)
	assert.Len(t, deviceIds, 2)

	bundleId, err := client.Profiles().ReadBundleId(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "com.example.a", bundleId.Attributes.Identifier)
}

func TestProfileRelationshipsOfBareId(t *testing.T) {
	mockData := jsonapi.MockData{
		"/profiles/P1/devices?limit=100": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "devices", "id": "D1",
			  "attributes": {"name": "iPhone", "udid": "0000", "status": "ENABLED"}}]}`,
		),
		"/profiles/P1/relationships/certificates?limit=100": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "certificates", "id": "C1"}]}`,
		),
		"/profiles/P1/relationships/bundleId": jsonapi.GetMockTextResponse(
			`{"data": {"type": "bundleIds", "id": "B1"}}`,
		),
	}
	client := getTestClient(mockData)
	ctx := context.Background()
	profileId := jsonapi.ResourceId("P1")

	devices, err := client.Profiles().ListDevices(ctx, profileId)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, DeviceStatusEnabled, devices[0].Attributes.Status)

	certificateIds, err := client.Profiles().ListCertificateIds(ctx, profileId)
	require.NoError(t, err)
	assert.Equal(t, []jsonapi.ResourceIdentifier{{Type: "certificates", Id: "C1"}}, certificateIds)

	bundleIdId, err := client.Profiles().GetBundleIdResourceId(ctx, profileId)
	require.NoError(t, err)
	assert.Equal(t, jsonapi.ResourceIdentifier{Type: "bundleIds", Id: "B1"}, bundleIdId)
}

func TestCertificatesAndDevices(t *testing.T) {
	mockData := jsonapi.MockData{
		"/certificates": jsonapi.GetMockTextResponse(
			`{"data": {"type": "certificates", "id": "C1",
			  "attributes": {"certificateType": "IOS_DISTRIBUTION", "displayName": "Team"}}}`,
		),
		"/certificates?filter%5BcertificateType%5D=IOS_DISTRIBUTION&limit=100&sort=displayName": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "certificates", "id": "C1", "attributes": {}}]}`,
		),
		"/certificates/C1": jsonapi.GetMockTextResponse(""),
		"/devices": jsonapi.GetMockTextResponse(
			`{"data": {"type": "devices", "id": "D1",
			  "attributes": {"name": "iPhone", "udid": "0000", "platform": "IOS"}}}`,
		),
		"/devices?filter%5Bstatus%5D=ENABLED&limit=100&sort=udid": jsonapi.GetMockTextResponse(
			`{"data": [{"type": "devices", "id": "D1", "attributes": {}}]}`,
		),
	}
	client := getTestClient(mockData)
	ctx := context.Background()

	certificate, err := client.Certificates().Create(ctx, "IOS_DISTRIBUTION", "CSR")
	require.NoError(t, err)
	assert.Equal(t, "Team", certificate.Attributes.DisplayName)
	assertPayload(t, mockData["/certificates"].Requests[0].Request.Payload,
		`{"data": {"type": "certificates",
		  "attributes": {"certificateType": "IOS_DISTRIBUTION", "csrContent": "CSR"}}}`)

	certificates, err := client.Certificates().List(ctx, ListCertificatesOptions{
		CertificateType: "IOS_DISTRIBUTION",
	})
	require.NoError(t, err)
	assert.Len(t, certificates, 1)
	require.NoError(t, client.Certificates().Revoke(ctx, certificates[0]))

	device, err := client.Devices().Register(ctx, "iPhone", PlatformIOS, "0000")
	require.NoError(t, err)
	assert.Equal(t, "0000", device.Attributes.Udid)

	devices, err := client.Devices().List(ctx, ListDevicesOptions{
		Status:   DeviceStatusEnabled,
		Ordering: DeviceOrderingUdid,
	})
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestWrongResourceType(t *testing.T) {
	resource, err := jsonapi.NewResource([]byte(`{"type": "devices", "id": "D1"}`))
	require.NoError(t, err)

	_, err = NewProfile(resource)

	assert.Error(t, err)
}

func TestApiErrorsPropagate(t *testing.T) {
	client := getTestClient(jsonapi.MockData{})

	_, err := client.Devices().Read(context.Background(), jsonapi.ResourceId("D1"))

	assert.Error(t, err)
}
