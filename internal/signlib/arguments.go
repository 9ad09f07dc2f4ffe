package signlib

import (
	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/provisioning"
	"github.com/signkit/cli/pkg/xcode"
)

// App Store Connect credentials, shared by every app-store-connect action.
var (
	IssuerId = cliapp.Argument{
		Key:   "issuer_id",
		Flags: []string{"--issuer-id"},
		Description: "App Store Connect API Key Issuer ID. Identifies the issuer " +
			"who created the authentication token",
		EnvVar: "APP_STORE_CONNECT_ISSUER_ID",
	}
	KeyIdentifier = cliapp.Argument{
		Key:         "key_identifier",
		Flags:       []string{"--key-id"},
		Description: "App Store Connect API Key ID",
		EnvVar:      "APP_STORE_CONNECT_KEY_IDENTIFIER",
	}
	PrivateKey = cliapp.Argument{
		Key:   "private_key",
		Flags: []string{"--private-key"},
		Description: "App Store Connect API private key. Accepts the key itself, " +
			"@env:VARIABLE or @file:/path/to/AuthKey.p8",
		Type:   cliapp.Secret,
		EnvVar: "APP_STORE_CONNECT_PRIVATE_KEY",
	}
	Team = cliapp.Argument{
		Key:         "team",
		Flags:       []string{"--team"},
		Description: "Section of the configuration file to read missing settings from",
		EnvVar:      "SIGNKIT_TEAM",
	}
	ApiUrl = cliapp.Argument{
		Key:         "api_url",
		Flags:       []string{"--api-url"},
		Description: "App Store Connect API base URL (default " + appstore.DefaultHost + ")",
		EnvVar:      "APP_STORE_CONNECT_API_URL",
		Hidden:      true,
	}
	JsonOutput = cliapp.Argument{
		Key:         "json_output",
		Flags:       []string{"--json"},
		Description: "Whether to show the resources in JSON format",
		Switch:      true,
	}
)

var (
	Yes = cliapp.Argument{
		Key:         "yes",
		Flags:       []string{"--yes", "-y"},
		Description: "Do not ask for confirmation",
		Switch:      true,
	}
	Reverse = cliapp.Argument{
		Key:         "reverse",
		Flags:       []string{"--reverse"},
		Description: "Sort in descending order",
		Switch:      true,
	}
	Save = cliapp.Argument{
		Key:         "save",
		Flags:       []string{"--save"},
		Description: "Whether to save the resources to disk",
		Switch:      true,
	}
)

var (
	BundleIdIdentifier = cliapp.Argument{
		Key:         "bundle_id_identifier",
		Flags:       []string{"--bundle-id-identifier"},
		Description: "Identifier of the Bundle ID, for example com.example.app",
	}
	BundleIdName = cliapp.Argument{
		Key:         "bundle_id_name",
		Flags:       []string{"--name"},
		Description: "Name of the Bundle ID",
	}
	BundleIdPlatform = cliapp.Argument{
		Key:         "platform",
		Flags:       []string{"--platform"},
		Description: "Bundle ID platform",
		Choices:     appstore.BundleIdPlatforms,
	}
	SeedId = cliapp.Argument{
		Key:         "seed_id",
		Flags:       []string{"--seed-id"},
		Description: "App ID prefix. Defaults to the team ID",
	}
	BundleIdResourceId = cliapp.Argument{
		Key:         "bundle_id_resource_id",
		Flags:       []string{"--bundle-id-resource-id"},
		Description: "Alphanumeric ID value of the Bundle ID",
	}
	BundleIdOrdering = cliapp.Argument{
		Key:         "bundle_id_ordering",
		Flags:       []string{"--order-by"},
		Description: "Attribute to sort Bundle IDs by",
		Choices:     appstore.BundleIdOrderings,
		Default:     []string{string(appstore.BundleIdOrderingName)},
	}
	Capabilities = cliapp.Argument{
		Key:         "capabilities",
		Flags:       []string{"--capability"},
		Description: "Capability type, may be repeated",
		Choices:     appstore.CapabilityTypes,
		Multiple:    true,
	}
)

var (
	ProfileResourceId = cliapp.Argument{
		Key:         "profile_resource_id",
		Flags:       []string{"--profile-id"},
		Description: "Alphanumeric ID value of the Profile",
	}
	ProfileName = cliapp.Argument{
		Key:         "profile_name",
		Flags:       []string{"--name"},
		Description: "Name of the Profile",
	}
	ProfileType = cliapp.Argument{
		Key:         "profile_type",
		Flags:       []string{"--type"},
		Description: "Type of the Profile",
		Choices:     appstore.ProfileTypes,
	}
	ProfileState = cliapp.Argument{
		Key:         "profile_state",
		Flags:       []string{"--state"},
		Description: "State of the Profile",
		Choices:     appstore.ProfileStates,
	}
	ProfileOrdering = cliapp.Argument{
		Key:         "profile_ordering",
		Flags:       []string{"--order-by"},
		Description: "Attribute to sort Profiles by",
		Choices:     appstore.ProfileOrderings,
		Default:     []string{string(appstore.ProfileOrderingName)},
	}
	CertificateResourceIds = cliapp.Argument{
		Key:         "certificate_resource_ids",
		Flags:       []string{"--certificate-id"},
		Description: "Alphanumeric ID value of a Signing Certificate, may be repeated",
		Multiple:    true,
	}
	DeviceResourceIds = cliapp.Argument{
		Key:         "device_resource_ids",
		Flags:       []string{"--device-id"},
		Description: "Alphanumeric ID value of a Device, may be repeated",
		Multiple:    true,
	}
	ProfilesDirectory = cliapp.Argument{
		Key:         "profiles_directory",
		Flags:       []string{"--profiles-dir"},
		Description: "Directory where the profiles are saved",
		Type:        cliapp.Path,
		Default:     []string{provisioning.DefaultLocation},
	}
)

const DefaultCertificatesLocation = "~/Library/MobileDevice/Certificates"

var (
	CertificateResourceId = cliapp.Argument{
		Key:         "certificate_resource_id",
		Flags:       []string{"--certificate-id"},
		Description: "Alphanumeric ID value of the Signing Certificate",
	}
	CertificateType = cliapp.Argument{
		Key:         "certificate_type",
		Flags:       []string{"--type"},
		Description: "Type of the Signing Certificate",
		Choices:     appstore.CertificateTypes,
	}
	CertificateDisplayName = cliapp.Argument{
		Key:         "display_name",
		Flags:       []string{"--display-name"},
		Description: "Display name of the Signing Certificate",
	}
	CertificateOrdering = cliapp.Argument{
		Key:         "certificate_ordering",
		Flags:       []string{"--order-by"},
		Description: "Attribute to sort Signing Certificates by",
		Choices:     appstore.CertificateOrderings,
		Default:     []string{string(appstore.CertificateOrderingDisplayName)},
	}
	CsrPath = cliapp.Argument{
		Key:         "csr_path",
		Flags:       []string{"--csr"},
		Description: "Path to a PEM encoded certificate signing request",
		Type:        cliapp.ExistingFile,
	}
	CertificateKey = cliapp.Argument{
		Key:   "certificate_key",
		Flags: []string{"--certificate-key"},
		Description: "PEM encoded private key used to generate the certificate " +
			"signing request. Accepts @env:VARIABLE or @file:/path/to/key.pem",
		Type:   cliapp.Secret,
		EnvVar: "CERTIFICATE_PRIVATE_KEY",
	}
	P12Password = cliapp.Argument{
		Key:         "p12_password",
		Flags:       []string{"--p12-password"},
		Description: "Password of the saved PKCS#12 container",
		Type:        cliapp.Secret,
		Default:     []string{""},
	}
	CertificatesDirectory = cliapp.Argument{
		Key:         "certificates_directory",
		Flags:       []string{"--certificates-dir"},
		Description: "Directory where the certificates are saved",
		Type:        cliapp.Path,
		Default:     []string{DefaultCertificatesLocation},
	}
)

var (
	DeviceName = cliapp.Argument{
		Key:         "device_name",
		Flags:       []string{"--name"},
		Description: "Name of the Device",
	}
	DeviceResourceId = cliapp.Argument{
		Key:         "device_resource_id",
		Flags:       []string{"--device-id"},
		Description: "Alphanumeric ID value of the Device",
	}
	DeviceUdid = cliapp.Argument{
		Key:         "device_udid",
		Flags:       []string{"--udid"},
		Description: "Unique device identifier",
	}
	DeviceStatus = cliapp.Argument{
		Key:         "device_status",
		Flags:       []string{"--status"},
		Description: "Status of the Device",
		Choices:     appstore.DeviceStatuses,
	}
	DeviceOrdering = cliapp.Argument{
		Key:         "device_ordering",
		Flags:       []string{"--order-by"},
		Description: "Attribute to sort Devices by",
		Choices:     appstore.DeviceOrderings,
		Default:     []string{string(appstore.DeviceOrderingName)},
	}
)

var (
	XcodeProjectPattern = cliapp.Argument{
		Key:   "xcode_project_pattern",
		Flags: []string{"--xcode-project-pattern"},
		Description: "Glob pattern to detect Xcode projects for which to apply " +
			"the settings to, relative to working directory. Can be a literal path",
		Default: []string{xcode.DefaultProjectPattern},
	}
	ProfilePaths = cliapp.Argument{
		Key:   "profile_paths",
		Flags: []string{"--profiles"},
		Description: "Path to provisioning profile, may be repeated. Defaults to " +
			"the profiles installed in " + provisioning.DefaultLocation,
		Type:     cliapp.ExistingFile,
		Multiple: true,
	}
	SigningScript = cliapp.Argument{
		Key:   "signing_script",
		Flags: []string{"--signing-script"},
		Description: "Command that applies code signing settings to an Xcode " +
			"project. May include an interpreter, for example \"ruby manager.rb\"",
		EnvVar: "SIGNKIT_SIGNING_SCRIPT",
	}
	ScriptTimeout = cliapp.Argument{
		Key:         "script_timeout",
		Flags:       []string{"--script-timeout"},
		Description: "Seconds to wait for the signing script. Waits forever by default",
		Type:        cliapp.Duration,
	}
	ExcludeIgnored = cliapp.Argument{
		Key:         "exclude_ignored",
		Flags:       []string{"--exclude-ignored"},
		Description: "Skip Xcode projects ignored by git",
		Switch:      true,
	}
)

var (
	KeychainPath = cliapp.Argument{
		Key:         "keychain_path",
		Flags:       []string{"--keychain"},
		Description: "Keychain to use instead of the default search list",
		Type:        cliapp.Path,
	}
	CertificatePaths = cliapp.Argument{
		Key:         "certificate_paths",
		Flags:       []string{"--certificate"},
		Description: "Path to a PKCS#12 certificate, may be repeated",
		Type:        cliapp.ExistingFile,
		Multiple:    true,
	}
	CertificatePassword = cliapp.Argument{
		Key:         "certificate_password",
		Flags:       []string{"--certificate-password"},
		Description: "Password of the PKCS#12 certificates",
		Type:        cliapp.Secret,
		Default:     []string{""},
	}
	AllowedApplications = cliapp.Argument{
		Key:         "allowed_applications",
		Flags:       []string{"--allow-app"},
		Description: "Application allowed to use the imported keys, may be repeated",
		Multiple:    true,
	}
)
