package framework

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeTargetReadsTitle(t *testing.T) {
	headers := http.Header{"Content-Type": []string{"text/html; charset=utf-8"}}
	page := []byte("<html><head><title> Register </title></head><body><form></form></body></html>")
	httphelpers.WithServer(httphelpers.HandlerWithResponse(200, headers, page), func(server *httptest.Server) {
		var out bytes.Buffer
		info, err := ProbeTarget(nil, server.URL, time.Second, &out)
		require.NoError(t, err)
		assert.Equal(t, 200, info.StatusCode)
		assert.Equal(t, "Register", info.Title)
		assert.Contains(t, out.String(), `status 200: "Register"`)
	})
}

func TestProbeTargetFailsOnErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		var out bytes.Buffer
		_, err := ProbeTarget(nil, server.URL, time.Second, &out)
		assert.EqualError(t, err, "target page returned status code 503")
	})
}

func TestProbeTargetTimesOutWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	var out bytes.Buffer
	_, err := ProbeTarget(nil, url, time.Millisecond*250, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
