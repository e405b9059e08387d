package regtests

import "fmt"

// Outcome is the terminal result a scenario observed.
type Outcome string

const (
	// OutcomeSuccess means the form was submitted and the success message appeared.
	OutcomeSuccess Outcome = "success"

	// OutcomeBlocked means submission was prevented and the submit control stayed disabled.
	OutcomeBlocked Outcome = "blocked"
)

type scenarioPhase int

const (
	phaseNotStarted scenarioPhase = iota
	phaseFormFilled
	phaseSubmittedOrBlocked
	phaseAsserted
)

func (p scenarioPhase) String() string {
	switch p {
	case phaseNotStarted:
		return "not started"
	case phaseFormFilled:
		return "form filled"
	case phaseSubmittedOrBlocked:
		return "submitted or blocked"
	case phaseAsserted:
		return "asserted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// scenarioState tracks a scenario through its phases. Phases only move forward one step at a
// time, and exactly one outcome is recorded.
type scenarioState struct {
	phase   scenarioPhase
	outcome Outcome
}

func (s *scenarioState) formFilled() error {
	return s.advance(phaseNotStarted, phaseFormFilled)
}

func (s *scenarioState) reached(outcome Outcome) error {
	if s.outcome != "" {
		return fmt.Errorf("scenario already reached outcome %q, cannot also reach %q", s.outcome, outcome)
	}
	if err := s.advance(phaseFormFilled, phaseSubmittedOrBlocked); err != nil {
		return err
	}
	s.outcome = outcome
	return nil
}

func (s *scenarioState) asserted() error {
	return s.advance(phaseSubmittedOrBlocked, phaseAsserted)
}

// complete returns an error unless the scenario has reached the asserted phase.
func (s *scenarioState) complete() error {
	if s.phase != phaseAsserted {
		return fmt.Errorf("scenario ended in phase %q without asserting an outcome", s.phase)
	}
	return nil
}

func (s *scenarioState) advance(from, to scenarioPhase) error {
	if s.phase != from {
		return fmt.Errorf("cannot move scenario to phase %q from phase %q", to, s.phase)
	}
	s.phase = to
	return nil
}
