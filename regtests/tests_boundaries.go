package regtests

// These scenarios sit exactly on the validation limits, where an off-by-one in the page's rules
// would block a valid registration.

func DoEmailAtLengthLimit(t *T) {
	email := "abcdefghijklm@example.com" // 25 characters
	t.FillForm(FormInput{Email: email, ConfirmEmail: email, Password: validPassword})
	t.Screenshot("tc7-filled")
	t.RequireSuccess("tc7-success")
}

func DoPasswordAtMinimumLength(t *T) {
	t.FillForm(FormInput{Email: validEmail, ConfirmEmail: validEmail, Password: "Pass12"})
	t.Screenshot("tc8-filled")
	t.RequireSuccess("tc8-success")
}
