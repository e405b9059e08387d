package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, time.Minute, c.Timeout)
	assert.Equal(t, 1, c.Retries)
	assert.True(t, c.Capture.Screenshots())
	assert.True(t, c.Capture.Traces())
	assert.Equal(t, []string{Chromium}, c.EnabledTargets())
	assert.Equal(t, []string{Firefox, WebKit}, c.DisabledTargets())
	assert.True(t, c.HasReporter(ListReporter))
	assert.True(t, c.HasReporter(HTMLReporter))
}

func TestCloneDoesNotShareTargets(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Targets[0].Enabled = false
	assert.True(t, a.Targets[0].Enabled)
}

func TestWithOnlyTargets(t *testing.T) {
	c := Default().WithOnlyTargets([]string{Firefox, WebKit})
	assert.Equal(t, []string{Firefox, WebKit}, c.EnabledTargets())
	assert.Equal(t, []string{Chromium}, c.DisabledTargets())
	assert.Equal(t, []string{Chromium}, Default().EnabledTargets())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.BaseURL = "not a url"
	c.Timeout = 0
	c.Retries = -1
	c.Workers = 0
	c.Capture.Trace = "sometimes"
	c.Targets = []BrowserTarget{{Name: "netscape", Enabled: false}}
	c.TestMatch = "("

	err := c.Validate()
	require.Error(t, err)
	for _, expected := range []string{
		`base URL "not a url" is not an absolute URL`,
		"timeout must be positive",
		"retries must not be negative",
		"workers must be at least 1",
		`unknown capture mode "sometimes"`,
		`unknown browser target "netscape"`,
		"no browser target is enabled",
		"invalid test match pattern",
	} {
		assert.Contains(t, err.Error(), expected)
	}
}

func TestParseOverlaysOnlyDefinedProperties(t *testing.T) {
	c, err := Parse([]byte(`{
		"baseURL": "http://localhost:8080/",
		"timeoutMs": 30000,
		"retries": 0,
		"headless": true,
		"trace": "off",
		"projects": [{"name": "chromium"}, {"name": "firefox", "enabled": false}],
		"selectors": {"email": ""}
	}`), Default())
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "http://localhost:8080/", c.BaseURL)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, 0, c.Retries)
	assert.Equal(t, 1, c.Workers)
	assert.True(t, c.Headless)
	assert.True(t, c.Capture.Screenshots())
	assert.False(t, c.Capture.Traces())
	assert.Equal(t, []BrowserTarget{{Name: Chromium, Enabled: true}, {Name: Firefox, Enabled: false}}, c.Targets)
	assert.Equal(t, "", c.Selectors.Email)
	assert.Equal(t, "#confirmEmail", c.Selectors.ConfirmEmail)
	assert.Equal(t, Default().Reporters, c.Reporters)
}

func TestParseRejectsUnknownProperty(t *testing.T) {
	_, err := Parse([]byte(`{"retry": 3}`), Default())
	assert.Error(t, err)
}

func TestParseRejectsNonBooleanHeadless(t *testing.T) {
	_, err := Parse([]byte(`{"headless": "yes"}`), Default())
	assert.EqualError(t, err, `headless must be a boolean, got "yes"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"workers": 4}`), 0o600))

	c, err := LoadFile(path, Default())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Workers)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), Default())
	assert.Error(t, err)
}
