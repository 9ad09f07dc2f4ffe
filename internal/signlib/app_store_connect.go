package signlib

import "github.com/signkit/cli/pkg/cliapp"

// AppStoreConnectTool manages Bundle IDs, capabilities, profiles, signing
// certificates and devices through the App Store Connect API.
func AppStoreConnectTool() *cliapp.Tool {
	tool := cliapp.NewTool("app-store-connect",
		"Utility to download code signing certificates and provisioning profiles "+
			"from Apple Developer Portal using App Store Connect API to perform iOS "+
			"code signing").
		WithArguments(IssuerId, KeyIdentifier, PrivateKey, Team, ApiUrl, JsonOutput)
	tool.MustRegister(
		listBundleIdsAction(),
		registerBundleIdAction(),
		modifyBundleIdAction(),
		deleteBundleIdAction(),
		listBundleIdProfilesAction(),

		listCapabilitiesAction(),
		enableCapabilityAction(),
		disableCapabilityAction(),

		listProfilesAction(),
		createProfileAction(),
		deleteProfileAction(),
		downloadProfileAction(),
		listProfileCertificatesAction(),
		listProfileDevicesAction(),

		listCertificatesAction(),
		createCertificateAction(),
		revokeCertificateAction(),

		listDevicesAction(),
		registerDeviceAction(),
		modifyDeviceAction(),
	)
	return tool
}
