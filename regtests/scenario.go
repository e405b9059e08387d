package regtests

import (
	"github.com/launchdarkly/registration-ui-tests/framework"
)

// Scenario is one independent test case: one set of form inputs and the outcome it must reach.
type Scenario struct {
	ID     string
	Title  string
	Action func(*T)
}

// Name is the scenario's name within the suite, as used by filters and reports.
func (s Scenario) Name() string {
	return s.ID + ": " + s.Title
}

func (s Scenario) test(env *environment) framework.Test {
	return framework.Test{
		Name: s.Name(),
		Action: func(c *framework.Context) {
			t := newTestScope(c, env)
			t.open()
			s.Action(t)
			t.requireState(t.state.complete())
		},
	}
}

// AllScenarios returns every scenario in the order they are reported.
func AllScenarios() []Scenario {
	return []Scenario{
		{ID: "TC1", Title: "happy path", Action: DoHappyPath},
		{ID: "TC2", Title: "email format invalid", Action: DoInvalidEmailFormat},
		{ID: "TC3", Title: "email mismatch", Action: DoEmailMismatch},
		{ID: "TC4", Title: "email too long", Action: DoEmailTooLong},
		{ID: "TC5", Title: "password too short", Action: DoPasswordTooShort},
		{ID: "TC6", Title: "password missing uppercase or digit", Action: DoPasswordComposition},
		{ID: "TC7", Title: "email at length limit", Action: DoEmailAtLengthLimit},
		{ID: "TC8", Title: "password at minimum length", Action: DoPasswordAtMinimumLength},
	}
}
