package regtests

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/registration-ui-tests/browser"
	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"

	"github.com/stretchr/testify/require"
)

const successTimeout = time.Second * 10

// PageOpener creates the page for a scenario attempt. *browser.Engine implements it.
type PageOpener interface {
	NewPage(ctx context.Context, opts browser.PageOptions) (*browser.PageHandle, error)
}

type environment struct {
	opener PageOpener
	config config.RunConfig
	target string
}

// T represents one attempt of a scenario on one browser target.
//
// It implements the same basic functionality as Go's testing.T, so the assert and require
// packages can be used with it, and it owns the RegistrationPage that the attempt drives. The
// page is opened and the shared setup has run by the time the scenario body is called; it is
// closed when the attempt ends, whether the attempt passed, failed or timed out.
//
// The scenario methods (FillForm, RequireBlocked and so on) fail the test immediately if
// something goes wrong, and they enforce the order in which a scenario proceeds: fill the form,
// reach exactly one outcome, then assert it.
type T struct {
	context *framework.Context
	env     *environment
	page    *RegistrationPage
	state   scenarioState
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// ArtifactDir returns the directory for the diagnostic artifacts of one scenario attempt.
func ArtifactDir(outputDir, target, scenario string, attempt int) string {
	return filepath.Join(outputDir, pathSegment(target), pathSegment(scenario), fmt.Sprintf("attempt-%d", attempt))
}

func pathSegment(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// open creates a fresh page for this attempt and runs the shared setup on it.
func (t *T) open() {
	cfg := t.env.config
	dir := ArtifactDir(cfg.OutputDir, t.env.target, t.context.ID().Last(), t.context.Attempt())
	handle, err := t.env.opener.NewPage(t.context.Context(), browser.PageOptions{
		Target:         t.env.target,
		BaseURL:        cfg.BaseURL,
		Capture:        cfg.Capture,
		ArtifactDir:    dir,
		DefaultTimeout: cfg.Timeout,
		Logger:         t.context.DebugLogger(),
	})
	t.requireNoError(err, "could not open page")
	t.context.Defer(func() {
		if err := handle.Close(); err != nil {
			t.Debug("Error closing page: %s", err)
		}
	})
	t.page = NewRegistrationPage(handle, cfg.BaseURL, cfg.Selectors, t.context.DebugLogger())
	t.requireNoError(t.page.Open(), "shared setup failed")
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Target returns the name of the browser target the scenario is running on.
func (t *T) Target() string {
	return t.env.target
}

// Page returns the page driven by this attempt.
func (t *T) Page() *RegistrationPage {
	return t.page
}

// requireNoError fails the test immediately if err is not nil, describing which kind of failure
// it was.
func (t *T) requireNoError(err error, what string) {
	if err == nil {
		return
	}
	kind := "assertion failure"
	switch {
	case errors.Is(err, ErrTooFewInputs):
		kind = "precondition failure"
	case isTimeout(err):
		kind = "timeout"
	}
	require.Fail(t, fmt.Sprintf("%s (%s)", what, kind), "%s", err)
}

func (t *T) requireState(err error) {
	require.NoError(t, err, "scenario was written incorrectly")
}

// FillForm fills the form with the given values.
func (t *T) FillForm(input FormInput) {
	t.requireNoError(t.page.FillForm(input), "could not fill form")
	t.requireState(t.state.formFilled())
}

// Screenshot captures a diagnostic screenshot with the given name, if screenshots are enabled.
func (t *T) Screenshot(name string) {
	t.page.Screenshot(name)
}

// Expect fails the test immediately unless the expectation is met.
func (t *T) Expect(e Expectation) {
	t.requireNoError(t.page.Check(e), "expectation not met")
}

// RequireSuccess submits the form and requires the success message to appear. The submit
// control must be enabled first.
func (t *T) RequireSuccess(screenshotName string) {
	button := t.page.SubmitButton()
	t.Expect(Visible("submit button", button))
	t.Expect(Enabled("submit button", button))
	t.requireNoError(button.Click(), "could not click submit button")
	t.requireState(t.state.reached(OutcomeSuccess))
	t.Screenshot(screenshotName)
	t.Expect(Visible("success message", t.page.SuccessMessage()).Within(successTimeout))
	t.requireState(t.state.asserted())
}

// RequireBlocked requires the submit control to be disabled. It never clicks it.
func (t *T) RequireBlocked() {
	button := t.page.SubmitButton()
	t.Expect(Visible("submit button", button))
	t.Expect(Disabled("submit button", button))
	t.requireState(t.state.reached(OutcomeBlocked))
}

// RequireInlineError requires the error element with the given ID to be visible and to contain
// text.
func (t *T) RequireInlineError(id, text string) {
	loc := t.page.ErrorMessage(id)
	t.Expect(Visible("#"+id, loc))
	t.Expect(ContainsText("#"+id, loc, text))
	t.requireState(t.state.asserted())
}

// CheckOptionalInlineError behaves like RequireInlineError if the page has an element with the
// given ID. If it does not, the absence is logged and the blocked submit control alone is taken
// as the outcome.
func (t *T) CheckOptionalInlineError(id, text string) {
	present, err := t.page.HasElement(id)
	t.requireNoError(err, "could not look for inline error")
	if !present {
		t.Debug("No #%s element found, but the submit button is disabled as expected", id)
		t.requireState(t.state.asserted())
		return
	}
	loc := t.page.ErrorMessage(id)
	t.Expect(Visible("#"+id, loc))
	if content, err := loc.TextContent(); err == nil {
		t.Debug("#%s text: %q", id, content)
	}
	t.Expect(ContainsText("#"+id, loc, text))
	t.requireState(t.state.asserted())
}

// LogEmailValidity records the browser's own validity state for the email field.
func (t *T) LogEmailValidity() {
	valid, message, err := t.page.EmailValidity()
	t.requireNoError(err, "could not read email validity")
	t.Debug("Email validity state: %t", valid)
	if message != "" {
		t.Debug("Validation message: %s", message)
	}
}
