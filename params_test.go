package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readParams(t *testing.T, args ...string) *commandParams {
	var p commandParams
	require.True(t, p.Read(append([]string{"registration-ui-tests"}, args...)))
	return &p
}

func TestDefaultsWithNoFlags(t *testing.T) {
	cfg, err := readParams(t).RunConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"retries": 3, "workers": 2, "trace": "off"}`), 0o600))

	cfg, err := readParams(t,
		"-config", path,
		"-retries", "0",
		"-timeout", "30s",
		"-browser", "firefox,webkit",
		"-headless",
		"-screenshot", "off",
		"-url", "http://localhost:3000/",
	).RunConfig()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{config.Firefox, config.WebKit}, cfg.EnabledTargets())
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Capture.Screenshots())
	assert.False(t, cfg.Capture.Traces())
	assert.Equal(t, "http://localhost:3000/", cfg.BaseURL)
}

func TestInvalidFlagValueIsReported(t *testing.T) {
	_, err := readParams(t, "-trace", "sometimes").RunConfig()
	assert.Error(t, err)
}

func TestURLAndFixtureAreExclusive(t *testing.T) {
	var p commandParams
	assert.False(t, p.Read([]string{"x", "-fixture", "-url", "http://localhost/"}))
}

func TestReproduceCommand(t *testing.T) {
	p := readParams(t, "-url", "http://localhost:3000/", "-headless")
	cfg, err := p.RunConfig()
	require.NoError(t, err)
	id := framework.TestID{Path: []string{"chromium", "TC1: happy path"}}

	assert.Equal(t,
		`./registration-ui-tests -url http://localhost:3000/ -browser chromium -headless=true -run '^chromium/TC1: happy path$'`,
		p.reproduceCommand("./registration-ui-tests", cfg, id))
}

func TestReproduceCommandWithFixture(t *testing.T) {
	p := readParams(t, "-fixture")
	cfg, err := p.RunConfig()
	require.NoError(t, err)
	id := framework.TestID{Path: []string{"webkit", "TC5: password too short"}}

	assert.Equal(t,
		`./registration-ui-tests -fixture -browser webkit -run '^webkit/TC5: password too short$'`,
		p.reproduceCommand("./registration-ui-tests", cfg, id))
}

func TestUnknownFlagIsRejected(t *testing.T) {
	var p commandParams
	assert.False(t, p.Read([]string{"x", "-no-such-flag"}))
}

func TestReproduceCommandCarriesOverrides(t *testing.T) {
	p := readParams(t,
		"-url", "http://localhost:3000/",
		"-retries", "2",
		"-timeout", "45s",
		"-workers", "1",
		"-output", "./out",
		"-screenshot", "off",
		"-trace", "on",
	)
	cfg, err := p.RunConfig()
	require.NoError(t, err)
	id := framework.TestID{Path: []string{"firefox", "TC3: email mismatch"}}

	assert.Equal(t,
		`./registration-ui-tests -url http://localhost:3000/ -browser firefox -retries 2 -timeout 45s -workers 1 `+
			`-output ./out -screenshot off -trace on -run '^firefox/TC3: email mismatch$'`,
		p.reproduceCommand("./registration-ui-tests", cfg, id))
}

func TestReproduceCommandKeepsFixtureAddress(t *testing.T) {
	p := readParams(t, "-fixture", "-port", "9000")
	cfg, err := p.RunConfig()
	require.NoError(t, err)
	id := framework.TestID{Path: []string{"chromium", "TC1: happy path"}}

	assert.Equal(t,
		`./registration-ui-tests -fixture -port 9000 -browser chromium -run '^chromium/TC1: happy path$'`,
		p.reproduceCommand("./registration-ui-tests", cfg, id))
}
