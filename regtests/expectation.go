package regtests

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ExpectationKind is the condition an Expectation polls for.
type ExpectationKind string

const (
	ExpectVisible      ExpectationKind = "visible"
	ExpectContainsText ExpectationKind = "contains text"
	ExpectDisabled     ExpectationKind = "disabled"
	ExpectEnabled      ExpectationKind = "enabled"
)

// Expectation is a polling assertion about one located element. Evaluate keeps checking the
// condition until it holds or Timeout elapses; a zero Timeout uses the engine's default.
type Expectation struct {
	Description string
	Locator     playwright.Locator
	Kind        ExpectationKind
	Text        string
	Timeout     time.Duration
}

func Visible(description string, locator playwright.Locator) Expectation {
	return Expectation{Description: description, Locator: locator, Kind: ExpectVisible}
}

func ContainsText(description string, locator playwright.Locator, text string) Expectation {
	return Expectation{Description: description, Locator: locator, Kind: ExpectContainsText, Text: text}
}

func Disabled(description string, locator playwright.Locator) Expectation {
	return Expectation{Description: description, Locator: locator, Kind: ExpectDisabled}
}

func Enabled(description string, locator playwright.Locator) Expectation {
	return Expectation{Description: description, Locator: locator, Kind: ExpectEnabled}
}

// Within returns a copy of the expectation with a different timeout.
func (e Expectation) Within(timeout time.Duration) Expectation {
	e.Timeout = timeout
	return e
}

func (e Expectation) String() string {
	s := fmt.Sprintf("%s should be %s", e.Description, e.Kind)
	if e.Kind == ExpectContainsText {
		s = fmt.Sprintf("%s should contain %q", e.Description, e.Text)
	}
	if e.Timeout > 0 {
		s += fmt.Sprintf(" within %s", e.Timeout)
	}
	return s
}

func (e Expectation) timeoutMS() *float64 {
	if e.Timeout <= 0 {
		return nil
	}
	return playwright.Float(float64(e.Timeout.Milliseconds()))
}

// Evaluate polls until the expectation is met, returning an error if it is not met in time.
func (e Expectation) Evaluate(assertions playwright.PlaywrightAssertions) error {
	var check func(playwright.LocatorAssertions) error
	switch e.Kind {
	case ExpectVisible:
		check = func(la playwright.LocatorAssertions) error {
			return la.ToBeVisible(playwright.LocatorAssertionsToBeVisibleOptions{Timeout: e.timeoutMS()})
		}
	case ExpectContainsText:
		check = func(la playwright.LocatorAssertions) error {
			return la.ToContainText(e.Text, playwright.LocatorAssertionsToContainTextOptions{Timeout: e.timeoutMS()})
		}
	case ExpectDisabled:
		check = func(la playwright.LocatorAssertions) error {
			return la.ToBeDisabled(playwright.LocatorAssertionsToBeDisabledOptions{Timeout: e.timeoutMS()})
		}
	case ExpectEnabled:
		check = func(la playwright.LocatorAssertions) error {
			return la.ToBeEnabled(playwright.LocatorAssertionsToBeEnabledOptions{Timeout: e.timeoutMS()})
		}
	default:
		return fmt.Errorf("unknown expectation kind %q", e.Kind)
	}
	if err := check(assertions.Locator(e.Locator)); err != nil {
		return fmt.Errorf("%s: %w", e, err)
	}
	return nil
}
