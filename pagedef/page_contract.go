// Package pagedef describes the registration page that the test suite drives: the elements it
// must expose, the messages it shows, and the JSON exchanged when the form is submitted.
package pagedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	FormSelector  = "form"
	InputSelector = "input"

	EmailFieldID        = "email"
	ConfirmEmailFieldID = "confirmEmail"
	PasswordFieldID     = "password"

	EmailErrorID        = "emailError"
	ConfirmEmailErrorID = "confirmEmailError"
	PasswordErrorID     = "passwordError"
	SuccessID           = "success"

	// SubmitLabel is the accessible name of the submit button.
	SubmitLabel = "Confirm"

	SuccessText = "Registration successful"

	// MinInputFields is the number of input elements the form must contain.
	MinInputFields = 3
)

// Validation limits.
const (
	MaxEmailLength    = 25
	MinPasswordLength = 6
	MaxPasswordLength = 20
)

// Validation messages shown next to the fields.
const (
	MsgInvalidEmail        = "Please enter a valid email address"
	MsgEmailTooLong        = "Email must not exceed 25 characters"
	MsgEmailMismatch       = "Emails do not match"
	MsgPasswordLength      = "Password must be between 6 and 20 characters"
	MsgPasswordComposition = "Password must contain at least one capital letter and one number"
)

// RegisterPath is the path, relative to the page, that the form is submitted to.
const RegisterPath = "register"

// IDSelector returns a CSS selector matching the element with the given ID.
func IDSelector(id string) string {
	return "#" + id
}

type RegisterParams struct {
	Email        string `json:"email"`
	ConfirmEmail string `json:"confirmEmail"`
	Password     string `json:"password"`
}

type RegisterResult struct {
	OK      bool                   `json:"ok"`
	Message ldvalue.OptionalString `json:"message,omitempty"`
	Errors  map[string]string      `json:"errors,omitempty"`
}
