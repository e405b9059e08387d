package regtests

import (
	"github.com/launchdarkly/registration-ui-tests/pagedef"
)

func DoInvalidEmailFormat(t *T) {
	t.FillForm(FormInput{Email: "foo", ConfirmEmail: "foo", Password: validPassword})
	t.Screenshot("tc2-invalid-email")
	t.RequireBlocked()
	t.LogEmailValidity()
	t.CheckOptionalInlineError(pagedef.EmailErrorID, "valid email")
}

func DoEmailMismatch(t *T) {
	t.FillForm(FormInput{Email: validEmail, ConfirmEmail: "different@example.com", Password: validPassword})
	t.Screenshot("tc3-error")
	t.RequireBlocked()
	t.RequireInlineError(pagedef.ConfirmEmailErrorID, pagedef.MsgEmailMismatch)
}

func DoEmailTooLong(t *T) {
	email := "toolongemailtoolongemail@example.com"
	t.FillForm(FormInput{Email: email, ConfirmEmail: email, Password: validPassword})
	t.Screenshot("tc4-error")
	t.RequireBlocked()
	t.RequireInlineError(pagedef.EmailErrorID, pagedef.MsgEmailTooLong)
}
