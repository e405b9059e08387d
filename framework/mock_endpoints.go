package framework

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// MockEndpoint represents an endpoint that can receive requests.
type MockEndpoint struct {
	owner       *TestHarness
	id          string
	description string
	basePath    string
	handler     http.Handler
	requests    chan IncomingRequestInfo
	cancels     []*context.CancelFunc
	logger      Logger
	closed      bool
	lock        sync.Mutex
	closing     sync.Once
}

// IncomingRequestInfo contains information about an HTTP request received by one of the mock
// endpoints. Path is relative to the endpoint's base path.
type IncomingRequestInfo struct {
	Headers http.Header
	Method  string
	Path    string
	Body    []byte
	Context context.Context
}

// NewMockEndpoint adds a new endpoint that can receive requests.
//
// The specified handler will be called for all incoming requests to the endpoint's
// base URL or any subpath of it. For instance, if the generated base URL (as reported
// by MockEndpoint.BaseURL()) is http://localhost:8111/endpoints/3, then it can also
// receive requests to http://localhost:8111/endpoints/3/some/subpath.
//
// When the handler is called, the test harness rewrites the request URL first so that
// the handler sees only the subpath. It also attaches a Context to the request whose
// Done channel will be closed if Close is called on the endpoint.
//
// Up to maxRecorded requests are kept for AwaitRequest; further requests are still served
// but not recorded until earlier ones have been consumed. If maxRecorded is zero, nothing is
// recorded.
func (h *TestHarness) NewMockEndpoint(
	handler http.Handler,
	description string,
	maxRecorded int,
	logger Logger,
) *MockEndpoint {
	if logger == nil {
		logger = h.logger
	}
	e := &MockEndpoint{
		owner:       h,
		description: description,
		handler:     handler,
		requests:    make(chan IncomingRequestInfo, maxRecorded),
		logger:      logger,
	}
	h.lock.Lock()
	h.lastEndpointID++
	e.id = strconv.Itoa(h.lastEndpointID)
	e.basePath = endpointPathPrefix + e.id
	h.endpoints[e.id] = e
	h.lock.Unlock()

	return e
}

// BaseURL returns the base URL of the mock endpoint, without a trailing slash.
func (e *MockEndpoint) BaseURL() string {
	return e.owner.externalBaseURL + e.basePath
}

// AwaitRequest waits for an incoming request to the endpoint that satisfies match, discarding
// any recorded requests that do not. A nil match accepts any request.
func (e *MockEndpoint) AwaitRequest(timeout time.Duration, match func(IncomingRequestInfo) bool) (IncomingRequestInfo, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case req, ok := <-e.requests:
			if !ok {
				return IncomingRequestInfo{}, errors.New("endpoint was already closed")
			}
			if match == nil || match(req) {
				return req, nil
			}
		case <-deadline.C:
			return IncomingRequestInfo{}, fmt.Errorf("timed out waiting for an incoming request to %s", e.description)
		}
	}
}

// Close unregisters the endpoint. Any subsequent requests to it will receive 404 errors.
// It also cancels the Context for every active request to that endpoint.
func (e *MockEndpoint) Close() {
	e.closing.Do(func() {
		e.owner.lock.Lock()
		delete(e.owner.endpoints, e.id)
		e.owner.lock.Unlock()

		e.lock.Lock()
		cancellers := e.cancels
		e.cancels = nil
		e.closed = true
		close(e.requests)
		e.lock.Unlock()

		for _, cancel := range cancellers {
			(*cancel)()
		}
	})
}

func (e *MockEndpoint) recordRequest(req IncomingRequestInfo) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.closed || cap(e.requests) == 0 {
		return
	}
	select { // non-blocking push
	case e.requests <- req:
	default:
		e.logger.Printf("Incoming request channel was full for %s", e.description)
	}
}

func (e *MockEndpoint) trackRequest(parent context.Context) (context.Context, *context.CancelFunc) {
	ctx, canceller := context.WithCancel(parent)
	cancellerPtr := &canceller
	e.lock.Lock()
	e.cancels = append(e.cancels, cancellerPtr)
	e.lock.Unlock()
	return ctx, cancellerPtr
}

func (e *MockEndpoint) untrackRequest(cancellerPtr *context.CancelFunc) {
	e.lock.Lock()
	for i, c := range e.cancels {
		if c == cancellerPtr { // can't compare functions with ==, but can compare pointers
			e.cancels = append(e.cancels[:i], e.cancels[i+1:]...)
			break
		}
	}
	e.lock.Unlock()
	(*cancellerPtr)()
}
