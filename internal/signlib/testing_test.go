package signlib

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
	"github.com/signkit/cli/pkg/provisioning"
	"github.com/stretchr/testify/require"
)

const apiHost = "https://api.example.com/v1"

// getTestContext returns a context whose output and logs end up in buffers.
func getTestContext() (*cliapp.Context, *bytes.Buffer, *bytes.Buffer) {
	var stdout, logs bytes.Buffer
	logger := pterm.DefaultLogger.WithWriter(&logs).WithLevel(pterm.LogLevelDebug)
	return &cliapp.Context{
		Context: context.Background(),
		Logger:  logger,
		Executor: &cliapp.Executor{
			Logger: logger,
			Stdout: &stdout,
			Stderr: &logs,
		},
		Stdout: &stdout,
		Stderr: &logs,
	}, &stdout, &logs
}

func getTestClient(mockData jsonapi.MockData) *appstore.Client {
	api := jsonapi.GetTestConnection(mockData)
	api.Host = apiHost
	return &appstore.Client{API: &api, PageSize: appstore.DefaultPageSize}
}

// answerConfirm makes every confirmation prompt return answer until the test
// ends.
func answerConfirm(t *testing.T, answer bool) *[]string {
	var labels []string
	original := confirm
	confirm = func(label string) bool {
		labels = append(labels, label)
		return answer
	}
	t.Cleanup(func() { confirm = original })
	return &labels
}

func bundleIdJSON(id, identifier, name, platform string) string {
	return `{"type": "bundleIds", "id": "` + id + `",
		"attributes": {"identifier": "` + identifier + `", "name": "` + name + `",
		               "platform": "` + platform + `", "seedId": "TEAM"}}`
}

func profileJSON(id, name, profileType, content string) string {
	return `{"type": "profiles", "id": "` + id + `",
		"attributes": {"name": "` + name + `", "profileType": "` + profileType + `",
		               "profileState": "ACTIVE", "uuid": "UUID-` + id + `",
		               "profileContent": "` + content + `"}}`
}

func deviceJSON(id, name, udid string) string {
	return `{"type": "devices", "id": "` + id + `",
		"attributes": {"name": "` + name + `", "platform": "IOS",
		               "status": "ENABLED", "udid": "` + udid + `"}}`
}

func certificateJSON(id, displayName, content string) string {
	return `{"type": "certificates", "id": "` + id + `",
		"attributes": {"displayName": "` + displayName + `",
		               "certificateType": "IOS_DEVELOPMENT",
		               "serialNumber": "1A2B", "certificateContent": "` + content + `"}}`
}

// fakeExecutable writes a shell script called name and puts its directory
// first on PATH.
func fakeExecutable(t *testing.T, name, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported")
	}
	directory := t.TempDir()
	path := filepath.Join(directory, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0700))
	t.Setenv("PATH", directory+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

// fakeSecurity makes `security find-certificate` print certificates as PEM.
func fakeSecurity(t *testing.T, certificates ...*x509.Certificate) {
	directory := t.TempDir()
	pemPath := filepath.Join(directory, "certificates.pem")
	var buffer bytes.Buffer
	for _, certificate := range certificates {
		require.NoError(t, pem.Encode(&buffer,
			&pem.Block{Type: "CERTIFICATE", Bytes: certificate.Raw}))
	}
	require.NoError(t, os.WriteFile(pemPath, buffer.Bytes(), 0600))
	fakeExecutable(t, "security", "cat '"+pemPath+"'\n")
}

func testProfile(name, uuid string, certificates ...*x509.Certificate) provisioning.Profile {
	var raw [][]byte
	for _, certificate := range certificates {
		raw = append(raw, certificate.Raw)
	}
	return provisioning.Profile{
		Name:                        name,
		TeamName:                    "Example Ltd",
		TeamIdentifier:              []string{"TEAMID1234"},
		AppIDName:                   "Example",
		ApplicationIdentifierPrefix: []string{"TEAMID1234"},
		Entitlements: map[string]interface{}{
			"application-identifier": "TEAMID1234.com.example.app",
		},
		DeveloperCertificates: raw,
		ProvisionedDevices:    []string{"00008030-000000000000002E"},
		CreationDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate:        time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		UUID:                  uuid,
		Platform:              []string{"iOS"},
	}
}

// writeTestProfile signs profile and stores it as <directory>/<uuid>.mobileprovision.
func writeTestProfile(t *testing.T, directory string, profile provisioning.Profile) string {
	data, err := provisioning.NewTestProfileData(profile)
	require.NoError(t, err)
	path := filepath.Join(directory, profile.UUID+profileExtension)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}
