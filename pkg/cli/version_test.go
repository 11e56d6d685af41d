package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/beads_inbox/pkg/updater"
	"github.com/Dicklesworthstone/beads_inbox/pkg/version"
)

func TestVersionCommand_Human(t *testing.T) {
	stdout, _, err := executeCommand("version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "bvi")
	assert.Contains(t, stdout, "dev")
}

func TestVersionCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand("version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))

	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}

func TestVersionCommand_NoArgs(t *testing.T) {
	_, _, err := executeCommand("version", "extra")
	require.Error(t, err)
}

func TestVersionCommand_IgnoresBadConfig(t *testing.T) {
	_, _, err := executeCommand("--log-level", "verbose", "version")
	require.NoError(t, err)
}

// stubReleases points the update check at a local server returning tag
func stubReleases(t *testing.T, status int, tag string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.invalid/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)

	orig := newChecker
	newChecker = func() *updater.Checker {
		return &updater.Checker{URL: srv.URL, Client: srv.Client()}
	}
	t.Cleanup(func() { newChecker = orig })
}

func TestVersionCommand_CheckNewer(t *testing.T) {
	stubReleases(t, http.StatusOK, "v1.2.0")

	_, stderr, err := executeCommand("version", "--check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "A newer release is available: v1.2.0")
}

func TestVersionCommand_CheckUpToDate(t *testing.T) {
	stubReleases(t, http.StatusOK, "dev")

	_, stderr, err := executeCommand("version", "--check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "up to date")
}

func TestVersionCommand_CheckFailure(t *testing.T) {
	stubReleases(t, http.StatusInternalServerError, "")

	_, _, err := executeCommand("version", "--check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check for updates")
}
