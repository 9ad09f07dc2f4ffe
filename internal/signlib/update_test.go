package signlib

import (
	"errors"
	"testing"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assetURL = "https://github.com/signkit/cli/releases/download/v1.2.0/signkit_linux_amd64.tar.gz"

// stubRelease makes the latest release version and records update targets.
func stubRelease(t *testing.T, version string) *[]string {
	originalDetect, originalUpdate := detectLatest, updateTo
	t.Cleanup(func() { detectLatest, updateTo = originalDetect, originalUpdate })

	detectLatest = func(slug string) (*selfupdate.Release, bool, error) {
		assert.Equal(t, ReleasesRepository, slug)
		if version == "" {
			return nil, false, nil
		}
		return &selfupdate.Release{
			Version:  semver.MustParse(version),
			AssetURL: assetURL,
		}, true, nil
	}
	var updated []string
	updateTo = func(url, cmdPath string) error {
		updated = append(updated, url)
		return nil
	}
	return &updated
}

func TestUpdateCommandUpToDate(t *testing.T) {
	for _, version := range []string{"1.2.0", "1.0.0", ""} {
		updated := stubRelease(t, version)
		ctx, stdout, _ := getTestContext()

		err := UpdateCommand(ctx, UpdateRequest{Version: "v1.2.0", NoInteractive: true})

		require.NoError(t, err)
		assert.Equal(t, "Congratulations, you are up to date with v1.2.0\n", stdout.String())
		assert.Empty(t, *updated)
	}
}

func TestUpdateCommandCheck(t *testing.T) {
	updated := stubRelease(t, "1.2.0")
	ctx, stdout, _ := getTestContext()

	err := UpdateCommand(ctx, UpdateRequest{Version: "1.1.0", Check: true})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "There is a new latest release for you v1.1.0 -> v1.2.0")
	assert.Contains(t, stdout.String(), assetURL)
	assert.Empty(t, *updated)
}

func TestUpdateCommandCancelled(t *testing.T) {
	updated := stubRelease(t, "1.2.0")
	labels := answerConfirm(t, false)
	ctx, stdout, _ := getTestContext()

	err := UpdateCommand(ctx, UpdateRequest{Version: "1.1.0"})

	require.NoError(t, err)
	assert.Len(t, *labels, 1)
	assert.Contains(t, stdout.String(), "Update Cancelled")
	assert.Empty(t, *updated)
}

func TestUpdateCommandInstalls(t *testing.T) {
	updated := stubRelease(t, "1.2.0")
	labels := answerConfirm(t, true)
	ctx, _, _ := getTestContext()

	err := UpdateCommand(ctx, UpdateRequest{Version: "1.1.0"})

	require.NoError(t, err)
	assert.Len(t, *labels, 1)
	assert.Equal(t, []string{assetURL}, *updated)
}

func TestUpdateCommandNoInteractive(t *testing.T) {
	updated := stubRelease(t, "1.2.0")
	labels := answerConfirm(t, false)
	ctx, _, _ := getTestContext()

	err := UpdateCommand(ctx, UpdateRequest{Version: "1.1.0", NoInteractive: true})

	require.NoError(t, err)
	assert.Empty(t, *labels)
	assert.Equal(t, []string{assetURL}, *updated)
}

func TestUpdateCommandDetectFailure(t *testing.T) {
	stubRelease(t, "1.2.0")
	detectLatest = func(string) (*selfupdate.Release, bool, error) {
		return nil, false, errors.New("rate limited")
	}
	ctx, _, _ := getTestContext()

	err := UpdateCommand(ctx, UpdateRequest{Version: "1.1.0"})

	assert.ErrorContains(t, err, "rate limited")
}
