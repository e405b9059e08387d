package framework

import "sync"

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestRetrying(id TestID, failedAttempt int, debugOutput CapturedOutput)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestRetrying(TestID, int, CapturedOutput)  {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// lockedTestLogger serializes calls to a TestLogger, since tests may run concurrently.
type lockedTestLogger struct {
	target TestLogger
	lock   sync.Mutex
}

func (l *lockedTestLogger) TestStarted(id TestID) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.target.TestStarted(id)
}

func (l *lockedTestLogger) TestError(id TestID, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.target.TestError(id, err)
}

func (l *lockedTestLogger) TestRetrying(id TestID, failedAttempt int, debugOutput CapturedOutput) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.target.TestRetrying(id, failedAttempt, debugOutput)
}

func (l *lockedTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.target.TestFinished(id, failed, debugOutput)
}

func (l *lockedTestLogger) TestSkipped(id TestID, reason string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.target.TestSkipped(id, reason)
}
