/*
Package signlib
Tools and actions of the signkit command line client.

Every tool is a cliapp.Tool and every action a cliapp.Action built from a
request type and a command function:

    tool := signlib.AppStoreConnectTool()
    action, _ := tool.Lookup("list-profiles")

Commands take the dependencies they talk to (an App Store Connect client, a
keychain) as arguments so they can be tested against mocks:

    err := signlib.ListProfilesCommand(ctx, client, request)
*/
package signlib

import "github.com/signkit/cli/pkg/cliapp"

// Version is overwritten at build time with -ldflags.
var Version = "0.1.0"

// Names of the flags accepted before the tool name.
const (
	ConfigFlag     = "config"
	ApiTimeoutFlag = "api-timeout"
	CACertFlag     = "cacert"
)

// Tools returns every tool of the client.
func Tools() []*cliapp.Tool {
	return []*cliapp.Tool{
		AppStoreConnectTool(),
		CodeSigningTool(),
		ConfigTool(),
		KeychainTool(),
		ProvisioningProfileTool(),
		UpdateTool(),
	}
}
