package signlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolsAreConsistent(t *testing.T) {
	names := make(map[string]bool)
	for _, tool := range Tools() {
		assert.False(t, names[tool.Name], "tool %s is registered twice", tool.Name)
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Actions(), tool.Name)
	}
	assert.Len(t, names, 6)
}

func TestAppStoreConnectActions(t *testing.T) {
	tool := AppStoreConnectTool()

	var actions []string
	for _, action := range tool.Actions() {
		actions = append(actions, action.Name)
	}

	assert.Len(t, actions, 20)
	for _, name := range []string{
		"list-bundle-ids", "create-profile", "create-certificate",
		"register-device", "enable-capability", "list-profile-devices",
	} {
		_, ok := tool.Lookup(name)
		assert.True(t, ok, name)
	}
}
