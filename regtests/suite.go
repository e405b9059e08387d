package regtests

import (
	"context"
	"fmt"
	"regexp"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"
)

// RunTestSuite runs every scenario on every enabled browser target. Within a target, scenarios
// run concurrently on up to cfg.Workers workers, each attempt limited to cfg.Timeout and each
// failed scenario retried up to cfg.Retries times.
func RunTestSuite(
	ctx context.Context,
	opener PageOpener,
	cfg config.RunConfig,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(ctx, filter, testLogger, func(c *framework.Context) {
		opts := framework.RunOptions{Retries: cfg.Retries, Timeout: cfg.Timeout}
		for _, target := range cfg.EnabledTargets() {
			env := &environment{opener: opener, config: cfg, target: target}
			c.Group(target, func(c *framework.Context) {
				var tests []framework.Test
				for _, s := range AllScenarios() {
					tests = append(tests, s.test(env))
				}
				c.RunAll(cfg.Workers, opts, tests)
			})
		}
	})
}

// ScenarioFilter combines the configuration's scenario pattern, which is matched against scenario
// names, with the command-line filters, which are matched against full test IDs.
func ScenarioFilter(cfg config.RunConfig, filters framework.RegexFilters) (framework.Filter, error) {
	match, err := regexp.Compile(cfg.TestMatch)
	if err != nil {
		return nil, fmt.Errorf("invalid test match pattern: %w", err)
	}
	return func(id framework.TestID) bool {
		return match.MatchString(id.Last()) && filters.AsFilter(id)
	}, nil
}
