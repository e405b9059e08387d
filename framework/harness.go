package framework

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const endpointPathPrefix = "/endpoints/"
const shutdownTimeout = time.Second * 5

// TestHarness is an HTTP listener owned by the test run, which can expose any number of mock
// endpoints. It is used to serve pages that the browser under test is pointed at.
type TestHarness struct {
	externalBaseURL string
	server          *http.Server
	endpoints       map[string]*MockEndpoint
	lastEndpointID  int
	logger          Logger
	lock            sync.Mutex
}

// NewTestHarness starts an HTTP listener on the specified port; a port of zero picks a free one.
// The externalHostname is the host name that the browser should use to reach the listener.
func NewTestHarness(
	externalHostname string,
	port int,
	debugLogger Logger,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("could not start test harness listener: %w", err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	h := &TestHarness{
		externalBaseURL: fmt.Sprintf("http://%s:%d", externalHostname, actualPort),
		endpoints:       make(map[string]*MockEndpoint),
		logger:          debugLogger,
	}
	h.server = &http.Server{
		Handler:           http.HandlerFunc(h.serveHTTP),
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		if err := h.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			h.logger.Printf("Test harness listener stopped: %s", err)
		}
	}()

	return h, nil
}

// BaseURL returns the externally visible base URL of the harness listener.
func (h *TestHarness) BaseURL() string {
	return h.externalBaseURL
}

// Close shuts down the listener and every endpoint.
func (h *TestHarness) Close() error {
	h.lock.Lock()
	endpoints := make([]*MockEndpoint, 0, len(h.endpoints))
	for _, e := range h.endpoints {
		endpoints = append(endpoints, e)
	}
	h.lock.Unlock()
	for _, e := range endpoints {
		e.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *TestHarness) serveHTTP(w http.ResponseWriter, req *http.Request) {
	if !strings.HasPrefix(req.URL.Path, endpointPathPrefix) {
		h.logger.Printf("Received request for unrecognized URL path %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(req.URL.Path, endpointPathPrefix)
	var endpointID string
	slashPos := strings.Index(path, "/")
	if slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = ""
	}

	h.lock.Lock()
	e := h.endpoints[endpointID]
	h.lock.Unlock()
	if e == nil {
		h.logger.Printf("Received request for unrecognized endpoint %s", req.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			h.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	ctx, cancel := e.trackRequest(req.Context())
	defer e.untrackRequest(cancel)

	incoming := IncomingRequestInfo{
		Headers: req.Header,
		Method:  req.Method,
		Path:    path,
		Body:    body,
		Context: ctx,
	}
	e.logger.Printf("%s %s", req.Method, path)
	e.recordRequest(incoming)

	transformedReq := req.WithContext(ctx)
	url := *req.URL
	url.Path = path
	if url.Path == "" {
		url.Path = "/"
	}
	transformedReq.URL = &url
	if body != nil {
		transformedReq.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	e.handler.ServeHTTP(w, transformedReq)
}
