package regtests

const (
	validEmail    = "valid@example.com"
	validPassword = "Password123"
)

func DoHappyPath(t *T) {
	t.FillForm(FormInput{Email: validEmail, ConfirmEmail: validEmail, Password: validPassword})
	t.Screenshot("tc1-filled")
	t.RequireSuccess("tc1-success")
}
