package regtests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpectationDescriptions(t *testing.T) {
	assert.Equal(t, "submit button should be disabled", Disabled("submit button", nil).String())
	assert.Equal(t, "submit button should be enabled", Enabled("submit button", nil).String())
	assert.Equal(t, "success message should be visible within 10s",
		Visible("success message", nil).Within(10*time.Second).String())
	assert.Equal(t, `#emailError should contain "valid email"`,
		ContainsText("#emailError", nil, "valid email").String())
}

func TestWithinDoesNotModifyOriginal(t *testing.T) {
	e := Visible("x", nil)
	_ = e.Within(time.Second)
	assert.Equal(t, time.Duration(0), e.Timeout)
	assert.Nil(t, e.timeoutMS())
	assert.Equal(t, 1000.0, *e.Within(time.Second).timeoutMS())
}

func TestUnknownExpectationKind(t *testing.T) {
	err := Expectation{Description: "x", Kind: "shiny"}.Evaluate(nil)
	assert.EqualError(t, err, `unknown expectation kind "shiny"`)
}
