package regtests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/registration-ui-tests/browser"
	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"
	"github.com/launchdarkly/registration-ui-tests/pagedef"

	"github.com/playwright-community/playwright-go"
)

const (
	formVisibleTimeout     = time.Second * 10
	passwordVisibleTimeout = time.Second * 5
	keystrokeDelay         = time.Millisecond * 50
)

// ErrTooFewInputs means the page does not have enough input elements to be the registration form.
var ErrTooFewInputs = fmt.Errorf("expected at least %d input fields", pagedef.MinInputFields)

// FormInput holds the three values a scenario types into the form.
type FormInput struct {
	Email        string
	ConfirmEmail string
	Password     string
}

// RegistrationPage drives the registration form in one PageHandle. Its methods return errors
// rather than failing a test, so they can be used outside of a test scope.
type RegistrationPage struct {
	handle     *browser.PageHandle
	page       playwright.Page
	baseURL    string
	selectors  config.Selectors
	assertions playwright.PlaywrightAssertions
	logger     framework.Logger
}

func NewRegistrationPage(
	handle *browser.PageHandle,
	baseURL string,
	selectors config.Selectors,
	logger framework.Logger,
) *RegistrationPage {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &RegistrationPage{
		handle:     handle,
		page:       handle.Page,
		baseURL:    baseURL,
		selectors:  selectors,
		assertions: playwright.NewPlaywrightAssertions(),
		logger:     logger,
	}
}

// Open navigates to the page, waits for network activity to settle, takes the page-loaded
// screenshot and waits for the form to become visible.
func (p *RegistrationPage) Open() error {
	if _, err := p.page.Goto(p.baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("could not load %s: %w", p.baseURL, err)
	}
	if err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("page did not reach network idle: %w", err)
	}
	p.Screenshot("page-loaded")
	if err := p.page.Locator(pagedef.FormSelector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(formVisibleTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("form did not become visible: %w", err)
	}
	return nil
}

// Screenshot captures a diagnostic screenshot. A failed capture is logged and otherwise ignored.
func (p *RegistrationPage) Screenshot(name string) {
	if _, err := p.handle.Screenshot(name); err != nil {
		p.logger.Printf("%s", err)
	}
}

// FillForm types the three values into the form. The email fields are filled in one step each;
// the password is cleared and then typed one key at a time, so that per-keystroke validation runs.
func (p *RegistrationPage) FillForm(input FormInput) error {
	inputs, err := p.page.Locator(pagedef.InputSelector).All()
	if err != nil {
		return fmt.Errorf("could not list input fields: %w", err)
	}
	p.logger.Printf("Found %d input elements", len(inputs))
	if len(inputs) < pagedef.MinInputFields {
		return fmt.Errorf("%w, found %d", ErrTooFewInputs, len(inputs))
	}

	for _, f := range []struct {
		name     string
		selector string
		position int
		value    string
	}{
		{"email", p.selectors.Email, 0, input.Email},
		{"confirm email", p.selectors.ConfirmEmail, 1, input.ConfirmEmail},
	} {
		field := p.field(f.name, f.selector, inputs[f.position], f.position)
		if err := field.WaitFor(playwright.LocatorWaitForOptions{
			State: playwright.WaitForSelectorStateVisible,
		}); err != nil {
			return fmt.Errorf("%s field did not become visible: %w", f.name, err)
		}
		if err := field.Fill(f.value); err != nil {
			return fmt.Errorf("could not fill %s field: %w", f.name, err)
		}
	}

	password := p.page.Locator(p.selectors.Password)
	if err := password.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(passwordVisibleTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("password field did not become visible: %w", err)
	}
	if err := password.Focus(); err != nil {
		return fmt.Errorf("could not focus password field: %w", err)
	}
	if err := password.Click(); err != nil {
		return fmt.Errorf("could not click password field: %w", err)
	}
	for _, key := range []string{"ControlOrMeta+A", "Delete"} {
		if err := p.page.Keyboard().Press(key); err != nil {
			return fmt.Errorf("could not clear password field: %w", err)
		}
	}
	if err := password.PressSequentially(input.Password, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(keystrokeDelay.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("could not type password: %w", err)
	}
	return nil
}

// field returns the element matched by selector, or the input at the given position when the
// selector is empty or matches nothing.
func (p *RegistrationPage) field(name, selector string, positional playwright.Locator, position int) playwright.Locator {
	if selector != "" {
		loc := p.page.Locator(selector)
		if n, err := loc.Count(); err == nil && n > 0 {
			return loc.First()
		}
		p.logger.Printf("Nothing matches %s for the %s field, using input %d", selector, name, position+1)
	}
	return positional
}

// SubmitButton locates the submit control by its role and accessible name.
func (p *RegistrationPage) SubmitButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name: pagedef.SubmitLabel,
	})
}

// ErrorMessage locates the inline error element with the given ID.
func (p *RegistrationPage) ErrorMessage(id string) playwright.Locator {
	return p.page.Locator(pagedef.IDSelector(id))
}

func (p *RegistrationPage) SuccessMessage() playwright.Locator {
	return p.page.GetByText(pagedef.SuccessText)
}

// Check evaluates an expectation against this page.
func (p *RegistrationPage) Check(e Expectation) error {
	return e.Evaluate(p.assertions)
}

// EmailValidity reports the browser's own constraint-validation state for the email field.
func (p *RegistrationPage) EmailValidity() (valid bool, message string, err error) {
	field := p.field("email", p.selectors.Email, p.page.Locator(pagedef.InputSelector).First(), 0)
	v, err := field.Evaluate("el => el.validity.valid", nil)
	if err != nil {
		return false, "", fmt.Errorf("could not read email validity: %w", err)
	}
	m, err := field.Evaluate("el => el.validationMessage", nil)
	if err != nil {
		return false, "", fmt.Errorf("could not read email validation message: %w", err)
	}
	valid, _ = v.(bool)
	message, _ = m.(string)
	return valid, message, nil
}

// HasElement reports whether at least one element matches the given ID.
func (p *RegistrationPage) HasElement(id string) (bool, error) {
	n, err := p.ErrorMessage(id).Count()
	if err != nil {
		return false, fmt.Errorf("could not look for #%s: %w", id, err)
	}
	return n > 0, nil
}

// isTimeout reports whether err came from an engine wait that ran out of time.
func isTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout) ||
		errors.Is(err, framework.ErrTestTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}
