package framework

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool

	// Attempts is the number of times the test was run, including retries.
	Attempts int

	// PriorErrors holds the errors from attempts that failed before the final one.
	PriorErrors []error

	Duration time.Duration
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of tests that passed, failed and were skipped.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			skipped++
		case t.Failed():
			failed++
		default:
			passed++
		}
	}
	return
}

// Sorted returns the test results ordered by test ID. Tests that ran concurrently are otherwise
// recorded in completion order.
func (r Results) Sorted() []TestResult {
	ret := append([]TestResult(nil), r.Tests...)
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].TestID.String() < ret[j].TestID.String() })
	return ret
}

func (r Results) copy() Results {
	return Results{
		Tests:    append([]TestResult(nil), r.Tests...),
		Failures: append([]TestResult(nil), r.Failures...),
	}
}

func (r TestResult) Failed() bool {
	return len(r.Errors) != 0
}

// Flaky is true if the test failed at least once and then passed on a retry.
func (r TestResult) Flaky() bool {
	return !r.Failed() && !r.Skipped && len(r.PriorErrors) != 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns a new TestID with the given name appended. The receiver is not modified.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	return TestID{Path: append(append(path, t.Path...), name)}
}

// Last returns the final path component, or "" for the root.
func (t TestID) Last() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
