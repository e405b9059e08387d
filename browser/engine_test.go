package browser

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html><html><head><title>t</title></head><body><form><input id="a"></form></body></html>`

var (
	sharedEngine     *Engine
	sharedEngineErr  error
	sharedEngineOnce sync.Once
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedEngine != nil {
		_ = sharedEngine.Stop()
	}
	os.Exit(code)
}

// requireEngine skips the test when the Playwright driver or Chromium is not installed.
func requireEngine(t *testing.T) *Engine {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	sharedEngineOnce.Do(func() {
		sharedEngine, sharedEngineErr = Start(true, nil)
		if sharedEngineErr == nil {
			_, sharedEngineErr = sharedEngine.browser(config.Chromium)
		}
	})
	if sharedEngineErr != nil {
		t.Skip("Playwright not available:", sharedEngineErr)
	}
	return sharedEngine
}

func withTestPageServer(action func(url string)) {
	handler := httphelpers.HandlerWithResponse(200, map[string][]string{"Content-Type": {"text/html"}}, []byte(testPage))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		action(server.URL + "/")
	})
}

func TestScreenshotFileName(t *testing.T) {
	assert.Equal(t, "page-loaded.png", screenshotFileName("page-loaded"))
	assert.Equal(t, "tc1-submit-ready.png", screenshotFileName("tc1 submit/ready"))
}

func TestUnknownTargetIsRejected(t *testing.T) {
	e := &Engine{}
	_, err := e.browserType("netscape")
	assert.EqualError(t, err, `unknown browser target "netscape"`)
}

func TestPageCapturesScreenshotsAndTrace(t *testing.T) {
	e := requireEngine(t)
	dir := t.TempDir()
	withTestPageServer(func(url string) {
		h, err := e.NewPage(context.Background(), PageOptions{
			Target:         config.Chromium,
			BaseURL:        url,
			Capture:        config.CapturePolicy{Screenshot: config.CaptureOn, Trace: config.CaptureOn},
			ArtifactDir:    dir,
			DefaultTimeout: 5 * time.Second,
		})
		require.NoError(t, err)

		_, err = h.Page.Goto(url)
		require.NoError(t, err)
		path, err := h.Screenshot("page-loaded")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "page-loaded.png"), path)

		require.NoError(t, h.Close())
		require.NoError(t, h.Close())
		assert.True(t, h.Page.IsClosed())
	})
	for _, name := range []string{"page-loaded.png", FinalScreenshotName + ".png", TraceFileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestPageWithCaptureOffWritesNothing(t *testing.T) {
	e := requireEngine(t)
	dir := filepath.Join(t.TempDir(), "attempt-1")
	withTestPageServer(func(url string) {
		h, err := e.NewPage(context.Background(), PageOptions{
			Target:      config.Chromium,
			Capture:     config.CapturePolicy{Screenshot: config.CaptureOff, Trace: config.CaptureOff},
			ArtifactDir: dir,
		})
		require.NoError(t, err)
		_, err = h.Page.Goto(url)
		require.NoError(t, err)
		path, err := h.Screenshot("page-loaded")
		require.NoError(t, err)
		assert.Equal(t, "", path)
		require.NoError(t, h.Close())
	})
	assert.NoDirExists(t, dir)
}

func TestPageClosesWhenContextIsDone(t *testing.T) {
	e := requireEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	h, err := e.NewPage(ctx, PageOptions{
		Target:      config.Chromium,
		Capture:     config.CapturePolicy{Screenshot: config.CaptureOff, Trace: config.CaptureOff},
		ArtifactDir: t.TempDir(),
	})
	require.NoError(t, err)
	cancel()
	assert.Eventually(t, h.Page.IsClosed, 5*time.Second, 20*time.Millisecond)
	assert.NoError(t, h.Close())
}
