package regpage

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/launchdarkly/registration-ui-tests/pagedef"

	"github.com/PuerkitoBio/goquery"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageMarkupSatisfiesPageContract(t *testing.T) {
	page, err := RenderPage()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find(pagedef.FormSelector).Length())
	assert.GreaterOrEqual(t, doc.Find(pagedef.InputSelector).Length(), pagedef.MinInputFields)
	for _, id := range []string{
		pagedef.EmailFieldID, pagedef.ConfirmEmailFieldID, pagedef.PasswordFieldID,
		pagedef.EmailErrorID, pagedef.ConfirmEmailErrorID, pagedef.PasswordErrorID, pagedef.SuccessID,
	} {
		assert.Equal(t, 1, doc.Find(pagedef.IDSelector(id)).Length(), "element #%s", id)
	}

	inputs := doc.Find(pagedef.InputSelector)
	assert.Equal(t, pagedef.EmailFieldID, inputs.Eq(0).AttrOr("id", ""))
	assert.Equal(t, pagedef.ConfirmEmailFieldID, inputs.Eq(1).AttrOr("id", ""))

	button := doc.Find("form button")
	assert.Equal(t, pagedef.SubmitLabel, strings.TrimSpace(button.Text()))
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)

	_, hidden := doc.Find(pagedef.IDSelector(pagedef.SuccessID)).Attr("hidden")
	assert.True(t, hidden)
}

func TestPageScriptEmbedsMessages(t *testing.T) {
	page, err := RenderPage()
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)

	script := doc.Find("script").Text()
	for _, msg := range []string{
		pagedef.MsgInvalidEmail, pagedef.MsgEmailTooLong, pagedef.MsgEmailMismatch,
		pagedef.MsgPasswordLength, pagedef.MsgPasswordComposition,
	} {
		assert.Contains(t, script, msg)
	}
}

func postRegistration(t *testing.T, server *httptest.Server, p pagedef.RegisterParams) (int, pagedef.RegisterResult) {
	data, err := json.Marshal(p)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/"+pagedef.RegisterPath, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var result pagedef.RegisterResult
	require.NoError(t, json.Unmarshal(body, &result))
	return resp.StatusCode, result
}

func TestHandlerServesPage(t *testing.T) {
	handler, err := NewHandler(nil)
	require.NoError(t, err)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

		resp2, err := http.Get(server.URL + "/other")
		require.NoError(t, err)
		_ = resp2.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
	})
}

func TestHandlerAcceptsValidRegistration(t *testing.T) {
	handler, err := NewHandler(nil)
	require.NoError(t, err)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		status, result := postRegistration(t, server, params("valid@example.com", "valid@example.com", "Password123"))
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, result.OK)
		assert.Equal(t, pagedef.SuccessText, result.Message.StringValue())
	})
}

func TestHandlerRejectsInvalidRegistration(t *testing.T) {
	handler, err := NewHandler(nil)
	require.NoError(t, err)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		status, result := postRegistration(t, server, params("valid@example.com", "different@example.com", "Pass1"))
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.False(t, result.OK)
		assert.Equal(t, map[string]string{
			pagedef.ConfirmEmailErrorID: pagedef.MsgEmailMismatch,
			pagedef.PasswordErrorID:     pagedef.MsgPasswordLength,
		}, result.Errors)
	})
}

func TestHandlerRejectsMalformedBody(t *testing.T) {
	handler, err := NewHandler(nil)
	require.NoError(t, err)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := http.Post(server.URL+"/"+pagedef.RegisterPath, "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
