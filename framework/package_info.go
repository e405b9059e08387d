// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Unlike *testing.T, a test can be retried from the beginning, is
// bounded by a timeout, and can be run concurrently with its siblings.
//
// 2. The test harness can expose any number of mock endpoints on its own HTTP listener, so
// that a browser under test can be pointed at pages the harness controls.
//
// 3. Before a run, the page under test can be probed to fail fast if it is not reachable.
//
// The domain-specific code that knows what is being tested is responsible for providing
// a domain-specific test API on top of the test context.
package framework
