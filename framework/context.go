package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrTestTimeout is recorded on a test whose attempt exceeded RunOptions.Timeout.
var ErrTestTimeout = errors.New("test timed out")

// How long an attempt that has hit its deadline is given to unwind before it is abandoned.
var abandonGracePeriod = time.Second * 10

// SuiteTestID identifies errors raised by the top-level suite body rather than by a named test.
var SuiteTestID = TestID{Path: []string{"(suite)"}}

type environment struct {
	results     Results
	testLogger  TestLogger
	filter      Filter
	gracePeriod time.Duration
	lock        sync.Mutex
}

// RunOptions controls how a single test is executed.
type RunOptions struct {
	// Retries is the number of times a failed test is run again from the beginning.
	Retries int

	// Timeout bounds each attempt. Zero means no limit.
	Timeout time.Duration
}

// Test is a named test body, for use with RunAll.
type Test struct {
	Name   string
	Action func(*Context)
}

type Context struct {
	env         *environment
	id          TestID
	attempt     int
	ctx         context.Context
	debugLogger CapturingLogger
	deferred    []func()
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	lock        sync.Mutex
}

func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:      filter,
		testLogger:  &lockedTestLogger{target: testLogger},
		gracePeriod: abandonGracePeriod,
	}
	c := &Context{env: env, ctx: ctx}
	c.run(ctx, action, 0)
	if c.Failed() {
		env.record(TestResult{TestID: SuiteTestID, Errors: c.Errors()})
	}
	return env.snapshot()
}

// run executes one attempt of a test body on its own goroutine, so that an attempt which exceeds
// its deadline can be reported without waiting for the body to notice.
func (c *Context) run(parent context.Context, action func(*Context), timeout time.Duration) {
	var cancel context.CancelFunc
	if timeout > 0 {
		c.ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		c.ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer c.runDeferred()
		defer c.recoverFailure()
		action(c)
	}()

	select {
	case <-done:
		return
	case <-c.ctx.Done():
	}

	if errors.Is(c.ctx.Err(), context.DeadlineExceeded) {
		c.addError(fmt.Errorf("%w after %s", ErrTestTimeout, timeout))
	} else {
		c.addError(fmt.Errorf("test was cancelled: %w", c.ctx.Err()))
	}

	grace := time.NewTimer(c.env.gracePeriod)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		c.addError(errors.New("test did not stop within the grace period and was abandoned"))
	}
}

func (c *Context) recoverFailure() {
	r := recover()
	if r == nil {
		return
	}
	c.lock.Lock()
	skipped := c.skipped
	hasErrors := len(c.errors) > 0
	c.lock.Unlock()
	if skipped {
		return
	}
	if _, ok := r.(*Context); ok {
		if !hasErrors {
			c.addError(errors.New("test failed with no failure message"))
		}
		return
	}
	c.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
}

func (c *Context) runDeferred() {
	c.lock.Lock()
	deferred := c.deferred
	c.deferred = nil
	c.lock.Unlock()
	for i := len(deferred) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.addError(fmt.Errorf("unexpected panic in deferred cleanup: %+v", r))
				}
			}()
			deferred[i]()
		}()
	}
}

func (c *Context) addError(err error) {
	c.lock.Lock()
	c.failed = true
	c.errors = append(c.errors, err)
	c.lock.Unlock()
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) ID() TestID {
	return c.id
}

// Attempt returns the 1-based attempt number of the current test.
func (c *Context) Attempt() int {
	return c.attempt
}

// Context returns a context that is cancelled when the current attempt ends or times out.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Group runs action as a named section of the suite. Groups are not filtered, retried or
// recorded in the results; only the tests they contain are.
func (c *Context) Group(name string, action func(*Context)) {
	c1 := &Context{
		id:  c.id.Plus(name),
		env: c.env,
		ctx: c.ctx,
	}
	action(c1)
}

func (c *Context) Run(name string, action func(*Context)) {
	c.RunWithOptions(name, RunOptions{}, action)
}

// RunWithOptions runs a test, repeating it from the beginning up to opts.Retries times if it
// fails. Every attempt gets a fresh Context.
func (c *Context) RunWithOptions(name string, opts RunOptions, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		c.env.record(TestResult{TestID: id, Skipped: true})
		return
	}

	started := time.Now()
	result := TestResult{TestID: id}
	var c1 *Context
	for attempt := 1; ; attempt++ {
		c1 = &Context{
			id:      id,
			env:     c.env,
			attempt: attempt,
		}
		c1.run(c.ctx, action, opts.Timeout)
		result.Attempts = attempt
		if !c1.Failed() || c1.Skipped() || attempt > opts.Retries || c.ctx.Err() != nil {
			break
		}
		result.PriorErrors = append(result.PriorErrors, c1.Errors()...)
		c.env.testLogger.TestRetrying(id, attempt, c1.debugLogger.Output())
	}
	result.Duration = time.Since(started)

	if c1.Skipped() {
		result.Skipped = true
		c1.lock.Lock()
		reason := c1.skipReason
		c1.lock.Unlock()
		c.env.testLogger.TestSkipped(id, reason)
	} else {
		if c1.Failed() {
			result.Errors = c1.Errors()
		}
		c.env.testLogger.TestFinished(id, c1.Failed(), c1.debugLogger.Output())
	}
	c.env.record(result)
}

// RunAll runs the given tests concurrently, with at most workers of them in flight at once.
func (c *Context) RunAll(workers int, opts RunOptions, tests []Test) {
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, test := range tests {
		test := test
		g.Go(func() error {
			c.RunWithOptions(test.Name, opts, test.Action)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Context) Failed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.failed
}

func (c *Context) Skipped() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.skipped
}

func (c *Context) Errors() []error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]error(nil), c.errors...)
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.addError(reformatError(fmt.Errorf(format, args...)))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.lock.Lock()
	c.skipped = true
	c.lock.Unlock()
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.lock.Lock()
	c.skipReason = reason
	c.lock.Unlock()
	c.Skip()
}

// Defer schedules cleanup to run when the current attempt ends, whether it passed, failed or
// timed out. Functions run in reverse order of registration.
func (c *Context) Defer(fn func()) {
	c.lock.Lock()
	c.deferred = append(c.deferred, fn)
	c.lock.Unlock()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// snapshot copies the results under the lock, since abandoned tests may still be recording.
func (e *environment) snapshot() Results {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.results.copy()
}

func (e *environment) record(result TestResult) {
	e.lock.Lock()
	e.results.Tests = append(e.results.Tests, result)
	if result.Failed() {
		e.results.Failures = append(e.results.Failures, result)
	}
	e.lock.Unlock()
}
