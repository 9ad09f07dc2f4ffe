package appstore

import "github.com/signkit/cli/pkg/jsonapi"

const (
	BundleIdsType            = "bundleIds"
	BundleIdCapabilitiesType = "bundleIdCapabilities"
	CertificatesType         = "certificates"
	DevicesType              = "devices"
	ProfilesType             = "profiles"
)

type BundleIdPlatform string

const (
	PlatformIOS       BundleIdPlatform = "IOS"
	PlatformMacOS     BundleIdPlatform = "MAC_OS"
	PlatformUniversal BundleIdPlatform = "UNIVERSAL"
)

var BundleIdPlatforms = []string{"IOS", "MAC_OS", "UNIVERSAL"}

type ProfileState string

const (
	ProfileStateActive  ProfileState = "ACTIVE"
	ProfileStateInvalid ProfileState = "INVALID"
)

var ProfileStates = []string{"ACTIVE", "INVALID"}

type ProfileType string

var ProfileTypes = []string{
	"IOS_APP_DEVELOPMENT",
	"IOS_APP_STORE",
	"IOS_APP_ADHOC",
	"IOS_APP_INHOUSE",
	"MAC_APP_DEVELOPMENT",
	"MAC_APP_STORE",
	"MAC_APP_DIRECT",
	"TVOS_APP_DEVELOPMENT",
	"TVOS_APP_STORE",
	"TVOS_APP_ADHOC",
	"TVOS_APP_INHOUSE",
	"MAC_CATALYST_APP_DEVELOPMENT",
	"MAC_CATALYST_APP_STORE",
	"MAC_CATALYST_APP_DIRECT",
}

// Devices only matter for development and ad hoc profiles.
func (t ProfileType) UsesDevices() bool {
	switch t {
	case "IOS_APP_DEVELOPMENT", "IOS_APP_ADHOC", "MAC_APP_DEVELOPMENT",
		"TVOS_APP_DEVELOPMENT", "TVOS_APP_ADHOC",
		"MAC_CATALYST_APP_DEVELOPMENT":
		return true
	}
	return false
}

type CertificateType string

var CertificateTypes = []string{
	"IOS_DEVELOPMENT",
	"IOS_DISTRIBUTION",
	"MAC_APP_DISTRIBUTION",
	"MAC_INSTALLER_DISTRIBUTION",
	"MAC_APP_DEVELOPMENT",
	"DEVELOPER_ID_KEXT",
	"DEVELOPER_ID_APPLICATION",
	"DEVELOPMENT",
	"DISTRIBUTION",
}

type DeviceStatus string

const (
	DeviceStatusEnabled  DeviceStatus = "ENABLED"
	DeviceStatusDisabled DeviceStatus = "DISABLED"
)

var DeviceStatuses = []string{"ENABLED", "DISABLED"}

type CapabilityType string

var CapabilityTypes = []string{
	"ACCESS_WIFI_INFORMATION",
	"APPLE_ID_AUTH",
	"APPLE_PAY",
	"APP_GROUPS",
	"ASSOCIATED_DOMAINS",
	"AUTOFILL_CREDENTIAL_PROVIDER",
	"CLASSKIT",
	"COREMEDIA_HLS_LOW_LATENCY",
	"DATA_PROTECTION",
	"GAME_CENTER",
	"HEALTHKIT",
	"HOMEKIT",
	"HOT_SPOT",
	"ICLOUD",
	"INTER_APP_AUDIO",
	"IN_APP_PURCHASE",
	"MAPS",
	"MULTIPATH",
	"NETWORK_CUSTOM_PROTOCOL",
	"NETWORK_EXTENSIONS",
	"NFC_TAG_READING",
	"PERSONAL_VPN",
	"PUSH_NOTIFICATIONS",
	"SIRIKIT",
	"SYSTEM_EXTENSION_INSTALL",
	"USER_MANAGEMENT",
	"WALLET",
	"WIRELESS_ACCESSORY_CONFIGURATION",
}

// Sort keys accepted by the list endpoints.

type BundleIdOrdering string

const (
	BundleIdOrderingId       BundleIdOrdering = "id"
	BundleIdOrderingName     BundleIdOrdering = "name"
	BundleIdOrderingPlatform BundleIdOrdering = "platform"
	BundleIdOrderingSeedId   BundleIdOrdering = "seedId"
)

var BundleIdOrderings = []string{"id", "name", "platform", "seedId"}

type ProfileOrdering string

const (
	ProfileOrderingId           ProfileOrdering = "id"
	ProfileOrderingName         ProfileOrdering = "name"
	ProfileOrderingProfileState ProfileOrdering = "profileState"
	ProfileOrderingProfileType  ProfileOrdering = "profileType"
)

var ProfileOrderings = []string{"id", "name", "profileState", "profileType"}

type CertificateOrdering string

const (
	CertificateOrderingCertificateType CertificateOrdering = "certificateType"
	CertificateOrderingDisplayName     CertificateOrdering = "displayName"
	CertificateOrderingId              CertificateOrdering = "id"
	CertificateOrderingSerialNumber    CertificateOrdering = "serialNumber"
)

var CertificateOrderings = []string{
	"certificateType", "displayName", "id", "serialNumber",
}

type DeviceOrdering string

const (
	DeviceOrderingId       DeviceOrdering = "id"
	DeviceOrderingName     DeviceOrdering = "name"
	DeviceOrderingPlatform DeviceOrdering = "platform"
	DeviceOrderingStatus   DeviceOrdering = "status"
	DeviceOrderingUdid     DeviceOrdering = "udid"
)

var DeviceOrderings = []string{"id", "name", "platform", "status", "udid"}

func ordering[T ~string](field T, fallback T, reverse bool) jsonapi.Ordering {
	if field == "" {
		field = fallback
	}
	return jsonapi.Ordering{Field: string(field), Descending: reverse}
}
