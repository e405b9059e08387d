package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"
)

// printResults is the list reporter's end-of-run summary. For each failed test it prints the
// errors and a command that runs that test alone.
func printResults(out io.Writer, results framework.Results, params *commandParams, program string, cfg config.RunConfig) {
	passed, failed, skipped := results.Counts()
	var flaky []framework.TestResult
	for _, r := range results.Sorted() {
		if r.Flaky() {
			flaky = append(flaky, r)
		}
	}

	if len(flaky) > 0 {
		infoColor.Fprintf(out, "Passed after retrying (%d):\n", len(flaky))
		for _, r := range flaky {
			fmt.Fprintf(out, "  %s (%d attempts)\n", r.TestID, r.Attempts)
		}
		fmt.Fprintln(out)
	}

	if !results.OK() {
		failColor.Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
		for _, f := range results.Failures {
			fmt.Fprintf(out, "* %s\n", f.TestID)
			for _, err := range f.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
			fmt.Fprintf(out, "  to run again: %s\n", params.reproduceCommand(program, cfg, f.TestID))
		}
		fmt.Fprintln(out)
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped)
	if results.OK() {
		passColor.Fprintln(out, "All tests passed: "+summary)
	} else {
		failColor.Fprintln(out, "Some tests failed: "+summary)
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
