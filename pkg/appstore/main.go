/*
Package appstore
Typed access to the provisioning resources of the App Store Connect API.

Usage:

	tokens, err := appstore.NewKeyTokenSource(issuerId, keyId, privateKeyPEM)
	if err != nil {
		...
	}
	client := appstore.NewClient("", tokens, time.Minute)

	profiles, err := client.Profiles().List(ctx, appstore.ListProfilesOptions{
		ProfileType: "IOS_APP_STORE",
	})
	for _, profile := range profiles {
		bundleId, err := client.Profiles().ReadBundleId(ctx, profile)
		...
	}

Every method that takes a jsonapi.Identifiable accepts both a fetched resource
and a bare jsonapi.ResourceId. Relationship lookups use the links of a fetched
resource and fall back to the conventional URL for bare IDs.
*/
package appstore
