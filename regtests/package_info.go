// Package regtests contains the registration page scenarios and their supporting API.
//
// Infrastructure that is not specific to the registration page, such as running tests with
// retries and timeouts or serving pages from mock endpoints, is in the lower-level framework
// package. Browser management is in the browser package.
package regtests
