// Package regpage is a reference implementation of the registration page: an HTML form with live
// client-side validation, and a handler that accepts its submissions. The suite can be pointed at
// it with the -fixture option, and the package's own tests use it to check the scenarios against a
// page whose behavior is known.
package regpage

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/launchdarkly/registration-ui-tests/pagedef"
)

// emailPatternSource is shared with the page's script, so both sides accept the same addresses.
const emailPatternSource = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

var emailPattern = regexp.MustCompile(emailPatternSource)

// Validate applies the registration rules to a submission. The result maps the ID of each error
// element to the message it should show; an empty map means the submission is acceptable.
//
// Email length is checked before email format, and password length before password composition,
// so each field reports at most one problem.
func Validate(p pagedef.RegisterParams) map[string]string {
	errs := make(map[string]string)
	if msg := emailProblem(p.Email); msg != "" {
		errs[pagedef.EmailErrorID] = msg
	}
	if p.ConfirmEmail != p.Email {
		errs[pagedef.ConfirmEmailErrorID] = pagedef.MsgEmailMismatch
	}
	if msg := passwordProblem(p.Password); msg != "" {
		errs[pagedef.PasswordErrorID] = msg
	}
	return errs
}

func emailProblem(email string) string {
	if utf8.RuneCountInString(email) > pagedef.MaxEmailLength {
		return pagedef.MsgEmailTooLong
	}
	if !emailPattern.MatchString(email) {
		return pagedef.MsgInvalidEmail
	}
	return ""
}

func passwordProblem(password string) string {
	n := utf8.RuneCountInString(password)
	if n < pagedef.MinPasswordLength || n > pagedef.MaxPasswordLength {
		return pagedef.MsgPasswordLength
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) || !strings.ContainsFunc(password, unicode.IsDigit) {
		return pagedef.MsgPasswordComposition
	}
	return ""
}
