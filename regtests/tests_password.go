package regtests

import (
	"github.com/launchdarkly/registration-ui-tests/pagedef"
)

func DoPasswordTooShort(t *T) {
	t.FillForm(FormInput{Email: validEmail, ConfirmEmail: validEmail, Password: "Pass1"})
	t.Screenshot("tc5-error")
	t.RequireBlocked()
	t.RequireInlineError(pagedef.PasswordErrorID, "between 6 and 20 characters")
}

func DoPasswordComposition(t *T) {
	t.FillForm(FormInput{Email: validEmail, ConfirmEmail: validEmail, Password: "password"})
	t.Screenshot("tc6-error")
	t.RequireBlocked()
	t.RequireInlineError(pagedef.PasswordErrorID, "contain at least one capital letter")
}
